package services

import (
	"context"
	"strings"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/ordering"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateList appends a list at the end of the board's ordering.
func (s *BoardService) CreateList(ctx context.Context, userID, boardID, title string) (*models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if boardID == "" {
		return nil, invalid("boardId is required")
	}

	board, err := s.accessibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	list := models.List{BoardID: board.ID, Title: title}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, &models.Board{}, board.ID, board.Version); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.List{}).Where("board_id = ?", board.ID).Count(&count).Error; err != nil {
			return err
		}
		list.Position = int(count)

		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, storeErr("create list", err)
	}

	s.cache.Evict(ctx, board.ID)
	return &list, nil
}

// UpdateList renames a list. An empty title keeps the current one.
func (s *BoardService) UpdateList(ctx context.Context, userID, listID string, title *string) (*models.List, error) {
	list, board, err := s.accessibleList(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	if title != nil && strings.TrimSpace(*title) != "" {
		list.Title = strings.TrimSpace(*title)
		if err := s.db.WithContext(ctx).Model(&models.List{}).Where("id = ?", list.ID).Update("title", list.Title).Error; err != nil {
			return nil, storeErr("update list", err)
		}
		s.cache.Evict(ctx, board.ID)
	}

	return list, nil
}

// DeleteList removes the list and its cards, then renumbers the board's
// remaining lists.
func (s *BoardService) DeleteList(ctx context.Context, userID, listID string) error {
	list, board, err := s.accessibleList(ctx, listID, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, &models.Board{}, board.ID, board.Version); err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.List{}, "id = ?", list.ID).Error; err != nil {
			return err
		}
		return renumberLists(tx, board.ID)
	})
	if err != nil {
		return storeErr("delete list", err)
	}

	s.cache.Evict(ctx, board.ID)
	s.logger.WithFields(log.Fields{"board_id": board.ID, "list_id": list.ID}).Info("list deleted")
	return nil
}

// MoveList places the list at destinationIndex within its board, clamped to
// the last index.
func (s *BoardService) MoveList(ctx context.Context, userID, listID string, destinationIndex int) (*models.List, error) {
	if destinationIndex < 0 {
		return nil, invalid("destinationIndex must be non-negative")
	}

	list, board, err := s.accessibleList(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	return s.moveList(ctx, list, board, destinationIndex)
}

func (s *BoardService) moveList(ctx context.Context, list *models.List, board *models.Board, destinationIndex int) (*models.List, error) {
	// Read after board.Version; the version check below rejects the write if
	// anything reordered the board in between.
	slots, err := listSlots(s.db.WithContext(ctx), board.ID)
	if err != nil {
		return nil, storeErr("load lists", err)
	}

	from := slotIndex(slots, list.ID)
	if from < 0 {
		return nil, errConcurrentOrdering
	}

	order, err := ordering.Move(slotIDs(slots), from, destinationIndex)
	if err != nil {
		return nil, invalid("%v", err)
	}
	changes := ordering.Reindex(order, slotPositions(slots))
	if len(changes) == 0 {
		return list, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, &models.Board{}, board.ID, board.Version); err != nil {
			return err
		}
		return applyPositions(tx, &models.List{}, changes)
	})
	if err != nil {
		return nil, storeErr("move list", err)
	}

	s.cache.Evict(ctx, board.ID)
	return s.findList(ctx, list.ID)
}
