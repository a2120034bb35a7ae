package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/ordering"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MoveCardRequest describes a drag-and-drop of one card. Indices address the
// position-ordered card sequence of the respective list.
type MoveCardRequest struct {
	CardID            string
	SourceListID      string
	DestinationListID string
	SourceIndex       int
	DestinationIndex  int
}

// CreateCard appends a card at the end of the list's ordering.
func (s *BoardService) CreateCard(ctx context.Context, userID, listID, title, description string) (*models.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if listID == "" {
		return nil, invalid("listId is required")
	}

	list, board, err := s.accessibleList(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	card := models.Card{
		ListID:      list.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, &models.List{}, list.ID, list.Version); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Card{}).Where("list_id = ?", list.ID).Count(&count).Error; err != nil {
			return err
		}
		card.Position = int(count)

		return tx.Create(&card).Error
	})
	if err != nil {
		return nil, storeErr("create card", err)
	}

	s.cache.Evict(ctx, board.ID)
	return &card, nil
}

// UpdateCard changes title and description. An empty title keeps the current
// one; a nil description keeps the current one.
func (s *BoardService) UpdateCard(ctx context.Context, userID, cardID string, title, description *string) (*models.Card, error) {
	card, _, board, err := s.accessibleCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if title != nil && strings.TrimSpace(*title) != "" {
		card.Title = strings.TrimSpace(*title)
		updates["title"] = card.Title
	}
	if description != nil {
		card.Description = strings.TrimSpace(*description)
		updates["description"] = card.Description
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Card{}).Where("id = ?", card.ID).Updates(updates).Error; err != nil {
			return nil, storeErr("update card", err)
		}
		s.cache.Evict(ctx, board.ID)
	}

	return card, nil
}

// DeleteCard removes the card and renumbers the rest of its list.
func (s *BoardService) DeleteCard(ctx context.Context, userID, cardID string) error {
	card, list, board, err := s.accessibleCard(ctx, cardID, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, &models.List{}, list.ID, list.Version); err != nil {
			return err
		}
		if err := tx.Delete(&models.Card{}, "id = ?", card.ID).Error; err != nil {
			return err
		}
		return renumberCards(tx, list.ID)
	})
	if err != nil {
		return storeErr("delete card", err)
	}

	s.cache.Evict(ctx, board.ID)
	return nil
}

// MoveCard relocates a card within its list or into another list of the same
// board. Both affected lists are renumbered in one transaction guarded by
// their versions, so partial reorderings are never visible.
func (s *BoardService) MoveCard(ctx context.Context, userID string, req MoveCardRequest) (*models.Card, error) {
	if req.SourceListID == "" {
		return nil, invalid("sourceListId is required")
	}
	if req.DestinationListID == "" {
		return nil, invalid("destinationListId is required")
	}
	if req.SourceIndex < 0 || req.DestinationIndex < 0 {
		return nil, invalid("indices must be non-negative")
	}

	card, err := s.findCard(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	src, board, err := s.accessibleList(ctx, req.SourceListID, userID)
	if err != nil {
		return nil, err
	}
	if card.ListID != src.ID {
		return nil, invalid("card is not in list %s", src.ID)
	}

	dst := src
	if req.DestinationListID != src.ID {
		if dst, err = s.findList(ctx, req.DestinationListID); err != nil {
			return nil, err
		}
		if dst.BoardID != board.ID {
			return nil, invalid("destination list belongs to another board")
		}
	}

	return s.moveCard(ctx, card, src, dst, board, req)
}

// moveCard applies a validated move to the loaded card, lists and board. The
// list versions it carries are the ones the write is checked against.
func (s *BoardService) moveCard(ctx context.Context, card *models.Card, src, dst *models.List, board *models.Board, req MoveCardRequest) (*models.Card, error) {
	conn := s.db.WithContext(ctx)

	// Slots are read after the list versions; bumpVersion rejects the write if
	// either list was reordered in between.
	srcSlots, err := cardSlots(conn, src.ID)
	if err != nil {
		return nil, storeErr("load cards", err)
	}
	if req.SourceIndex >= len(srcSlots) {
		return nil, invalid("sourceIndex %d out of range for %d cards", req.SourceIndex, len(srcSlots))
	}
	if srcSlots[req.SourceIndex].ID != card.ID {
		return nil, fmt.Errorf("%w: card is no longer at index %d", ErrConflict, req.SourceIndex)
	}

	if dst.ID == src.ID && req.SourceIndex == req.DestinationIndex {
		return card, nil
	}

	if dst.ID == src.ID {
		order, err := ordering.Move(slotIDs(srcSlots), req.SourceIndex, req.DestinationIndex)
		if err != nil {
			return nil, invalid("%v", err)
		}
		changes := ordering.Reindex(order, slotPositions(srcSlots))

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := bumpVersion(tx, &models.List{}, src.ID, src.Version); err != nil {
				return err
			}
			return applyPositions(tx, &models.Card{}, changes)
		})
		if err != nil {
			return nil, storeErr("move card", err)
		}
	} else {
		dstSlots, err := cardSlots(conn, dst.ID)
		if err != nil {
			return nil, storeErr("load cards", err)
		}

		srcOrder, dstOrder, _, err := ordering.Transfer(slotIDs(srcSlots), slotIDs(dstSlots), req.SourceIndex, req.DestinationIndex)
		if err != nil {
			return nil, invalid("%v", err)
		}
		srcChanges := ordering.Reindex(srcOrder, slotPositions(srcSlots))
		dstChanges := ordering.Reindex(dstOrder, slotPositions(dstSlots))

		// Lock lists in id order so opposite moves between the same two lists
		// cannot deadlock.
		first, second := src, dst
		if second.ID < first.ID {
			first, second = second, first
		}

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := bumpVersion(tx, &models.List{}, first.ID, first.Version); err != nil {
				return err
			}
			if err := bumpVersion(tx, &models.List{}, second.ID, second.Version); err != nil {
				return err
			}
			if err := tx.Model(&models.Card{}).Where("id = ?", card.ID).UpdateColumn("list_id", dst.ID).Error; err != nil {
				return err
			}
			if err := applyPositions(tx, &models.Card{}, srcChanges); err != nil {
				return err
			}
			return applyPositions(tx, &models.Card{}, dstChanges)
		})
		if err != nil {
			return nil, storeErr("move card", err)
		}
	}

	s.cache.Evict(ctx, board.ID)
	s.logger.WithFields(log.Fields{
		"card_id":           card.ID,
		"source_list":       src.ID,
		"destination_list":  dst.ID,
		"source_index":      req.SourceIndex,
		"destination_index": req.DestinationIndex,
	}).Debug("card moved")

	return s.findCard(ctx, card.ID)
}
