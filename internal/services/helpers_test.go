package services

import (
	"context"
	"io"
	"testing"

	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.MigrateDatabase(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T) (*BoardService, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	return NewBoardService(conn, nil, quietLogger()), conn
}

func createUser(t *testing.T, conn *gorm.DB, name string) string {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user.ID
}

func mustBoard(t *testing.T, svc *BoardService, userID, title string) *models.Board {
	t.Helper()
	board, err := svc.CreateBoard(context.Background(), userID, title, "")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	return board
}

func mustList(t *testing.T, svc *BoardService, userID, boardID, title string) *models.List {
	t.Helper()
	list, err := svc.CreateList(context.Background(), userID, boardID, title)
	if err != nil {
		t.Fatalf("create list %s: %v", title, err)
	}
	return list
}

// mustCards creates one card per title and returns title -> id.
func mustCards(t *testing.T, svc *BoardService, userID, listID string, titles ...string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(titles))
	for _, title := range titles {
		card, err := svc.CreateCard(context.Background(), userID, listID, title, "")
		if err != nil {
			t.Fatalf("create card %s: %v", title, err)
		}
		ids[title] = card.ID
	}
	return ids
}

// cardTitles returns the titles of the list's cards in position order and
// fails the test if positions are not dense or list ids disagree.
func cardTitles(t *testing.T, conn *gorm.DB, listID string) []string {
	t.Helper()

	var cards []models.Card
	if err := conn.Where("list_id = ?", listID).Order("position ASC").Find(&cards).Error; err != nil {
		t.Fatalf("load cards: %v", err)
	}

	titles := make([]string, len(cards))
	for i, c := range cards {
		if c.Position != i {
			t.Fatalf("list %s: card %q at index %d has position %d", listID, c.Title, i, c.Position)
		}
		if c.ListID != listID {
			t.Fatalf("card %q has list %s, want %s", c.Title, c.ListID, listID)
		}
		titles[i] = c.Title
	}
	return titles
}

func listTitles(t *testing.T, conn *gorm.DB, boardID string) []string {
	t.Helper()

	var lists []models.List
	if err := conn.Where("board_id = ?", boardID).Order("position ASC").Find(&lists).Error; err != nil {
		t.Fatalf("load lists: %v", err)
	}

	titles := make([]string, len(lists))
	for i, l := range lists {
		if l.Position != i {
			t.Fatalf("board %s: list %q at index %d has position %d", boardID, l.Title, i, l.Position)
		}
		titles[i] = l.Title
	}
	return titles
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
