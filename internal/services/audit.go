package services

import (
	"context"
	"errors"

	"github.com/monocle-dev/taskboard/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditPositions scans every board and list for non-dense positions and
// renumbers the offenders. It returns how many orderings were repaired.
// Orderings that change concurrently are skipped until the next audit.
func (s *BoardService) AuditPositions(ctx context.Context) (int, error) {
	conn := s.db.WithContext(ctx)
	repaired := 0

	var boards []models.Board
	if err := conn.Select("id", "version").Find(&boards).Error; err != nil {
		return repaired, storeErr("audit boards", err)
	}

	for _, board := range boards {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}

		slots, err := listSlots(conn, board.ID)
		if err != nil {
			return repaired, storeErr("audit lists", err)
		}
		if isDense(slots) {
			continue
		}

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := bumpVersion(tx, &models.Board{}, board.ID, board.Version); err != nil {
				return err
			}
			return renumberLists(tx, board.ID)
		})
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return repaired, storeErr("repair lists", err)
		}

		repaired++
		s.cache.Evict(ctx, board.ID)
		s.logger.WithField("board_id", board.ID).Warn("renumbered non-dense list positions")
	}

	var lists []models.List
	if err := conn.Select("id", "board_id", "version").Find(&lists).Error; err != nil {
		return repaired, storeErr("audit lists", err)
	}

	for _, list := range lists {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}

		slots, err := cardSlots(conn, list.ID)
		if err != nil {
			return repaired, storeErr("audit cards", err)
		}
		if isDense(slots) {
			continue
		}

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := bumpVersion(tx, &models.List{}, list.ID, list.Version); err != nil {
				return err
			}
			return renumberCards(tx, list.ID)
		})
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return repaired, storeErr("repair cards", err)
		}

		repaired++
		s.cache.Evict(ctx, list.BoardID)
		s.logger.WithFields(log.Fields{"board_id": list.BoardID, "list_id": list.ID}).Warn("renumbered non-dense card positions")
	}

	return repaired, nil
}
