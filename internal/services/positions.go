package services

import (
	"sort"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/ordering"
	"gorm.io/gorm"
)

// slot is the ordering-relevant projection of a list or card row.
type slot struct {
	ID       string
	Position int
}

func slotIDs(slots []slot) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}

func slotPositions(slots []slot) map[string]int {
	positions := make(map[string]int, len(slots))
	for _, s := range slots {
		positions[s.ID] = s.Position
	}
	return positions
}

func slotIndex(slots []slot, id string) int {
	for i, s := range slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func isDense(slots []slot) bool {
	positions := make([]int, len(slots))
	for i, s := range slots {
		positions[i] = s.Position
	}
	return ordering.Dense(positions)
}

// Ties on position are broken by creation order so a damaged ordering still
// sorts deterministically.
func cardSlots(conn *gorm.DB, listID string) ([]slot, error) {
	var slots []slot
	err := conn.Model(&models.Card{}).
		Select("id", "position").
		Where("list_id = ?", listID).
		Order("position ASC").Order("created_at ASC").Order("id ASC").
		Scan(&slots).Error
	return slots, err
}

func listSlots(conn *gorm.DB, boardID string) ([]slot, error) {
	var slots []slot
	err := conn.Model(&models.List{}).
		Select("id", "position").
		Where("board_id = ?", boardID).
		Order("position ASC").Order("created_at ASC").Order("id ASC").
		Scan(&slots).Error
	return slots, err
}

// applyPositions rewrites the position column for every id in changes.
func applyPositions(tx *gorm.DB, model any, changes map[string]int) error {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := tx.Model(model).Where("id = ?", id).UpdateColumn("position", changes[id]).Error; err != nil {
			return err
		}
	}
	return nil
}

// bumpVersion advances the version of a board or list row, failing with
// ErrConflict when another write advanced it since it was read.
func bumpVersion(tx *gorm.DB, model any, id string, version int64) error {
	res := tx.Model(model).
		Where("id = ? AND version = ?", id, version).
		UpdateColumn("version", gorm.Expr("version + 1"))

	if res.Error != nil {
		return storeErr("bump version", res.Error)
	}
	if res.RowsAffected == 0 {
		return errConcurrentOrdering
	}
	return nil
}

func renumberCards(tx *gorm.DB, listID string) error {
	slots, err := cardSlots(tx, listID)
	if err != nil {
		return err
	}
	return applyPositions(tx, &models.Card{}, ordering.Reindex(slotIDs(slots), slotPositions(slots)))
}

func renumberLists(tx *gorm.DB, boardID string) error {
	slots, err := listSlots(tx, boardID)
	if err != nil {
		return err
	}
	return applyPositions(tx, &models.List{}, ordering.Reindex(slotIDs(slots), slotPositions(slots)))
}
