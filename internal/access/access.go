// Package access decides whether a caller may read or change a board.
package access

import "github.com/monocle-dev/taskboard/internal/models"

// CanAccess reports whether userID owns the board or is one of its members.
// Reads and mutations share this rule. Memberships must be loaded.
func CanAccess(board models.Board, userID string) bool {
	if userID == "" {
		return false
	}
	if board.OwnerID == userID {
		return true
	}
	for _, m := range board.Memberships {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanMutate is the same rule as CanAccess.
func CanMutate(board models.Board, userID string) bool {
	return CanAccess(board, userID)
}

// CanManage reports whether userID may update, delete or change the membership
// of the board. Only the owner may.
func CanManage(board models.Board, userID string) bool {
	return userID != "" && board.OwnerID == userID
}
