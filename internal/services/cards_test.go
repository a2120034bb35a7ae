package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/gorm"
)

func TestCreateCardsAppendInCreationOrder(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")

	titles := []string{"one", "two", "three", "four", "five"}
	mustCards(t, svc, owner, list.ID, titles...)

	if got := cardTitles(t, conn, list.ID); !equalStrings(got, titles) {
		t.Fatalf("got %v, want %v", got, titles)
	}
}

func TestCreateCardValidation(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ctx := context.Background()

	if _, err := svc.CreateCard(ctx, owner, list.ID, "   ", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateCard(ctx, owner, "", "title", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing list: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateCard(ctx, owner, "missing", "title", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown list: expected ErrNotFound, got %v", err)
	}
}

func TestMoveCardWithinList(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ids := mustCards(t, svc, owner, list.ID, "A", "B", "C", "D")

	card, err := svc.MoveCard(context.Background(), owner, MoveCardRequest{
		CardID:            ids["A"],
		SourceListID:      list.ID,
		DestinationListID: list.ID,
		SourceIndex:       0,
		DestinationIndex:  2,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if card.Position != 2 || card.ListID != list.ID {
		t.Fatalf("unexpected moved card: %+v", card)
	}

	want := []string{"B", "C", "A", "D"}
	if got := cardTitles(t, conn, list.ID); !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMoveCardAcrossLists(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	src := mustList(t, svc, owner, board.ID, "Source")
	dst := mustList(t, svc, owner, board.ID, "Destination")
	srcIDs := mustCards(t, svc, owner, src.ID, "A", "B", "C")
	mustCards(t, svc, owner, dst.ID, "X", "Y")

	card, err := svc.MoveCard(context.Background(), owner, MoveCardRequest{
		CardID:            srcIDs["A"],
		SourceListID:      src.ID,
		DestinationListID: dst.ID,
		SourceIndex:       0,
		DestinationIndex:  1,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if card.ListID != dst.ID || card.Position != 1 {
		t.Fatalf("unexpected moved card: %+v", card)
	}

	if got := cardTitles(t, conn, src.ID); !equalStrings(got, []string{"B", "C"}) {
		t.Fatalf("source = %v", got)
	}
	if got := cardTitles(t, conn, dst.ID); !equalStrings(got, []string{"X", "A", "Y"}) {
		t.Fatalf("destination = %v", got)
	}
}

func TestMoveCardNoopLeavesEverythingUntouched(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ids := mustCards(t, svc, owner, list.ID, "A", "B", "C")

	var before models.List
	conn.First(&before, "id = ?", list.ID)

	if _, err := svc.MoveCard(context.Background(), owner, MoveCardRequest{
		CardID:            ids["B"],
		SourceListID:      list.ID,
		DestinationListID: list.ID,
		SourceIndex:       1,
		DestinationIndex:  1,
	}); err != nil {
		t.Fatalf("move: %v", err)
	}

	var after models.List
	conn.First(&after, "id = ?", list.ID)
	if after.Version != before.Version {
		t.Fatalf("no-op move bumped version %d -> %d", before.Version, after.Version)
	}
	if got := cardTitles(t, conn, list.ID); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Fatalf("got %v", got)
	}
}

func TestMoveCardClampsDestination(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	src := mustList(t, svc, owner, board.ID, "Source")
	dst := mustList(t, svc, owner, board.ID, "Destination")
	srcIDs := mustCards(t, svc, owner, src.ID, "A", "B", "C")
	mustCards(t, svc, owner, dst.ID, "X")
	ctx := context.Background()

	if _, err := svc.MoveCard(ctx, owner, MoveCardRequest{
		CardID: srcIDs["A"], SourceListID: src.ID, DestinationListID: src.ID,
		SourceIndex: 0, DestinationIndex: 40,
	}); err != nil {
		t.Fatalf("same-list move: %v", err)
	}
	if got := cardTitles(t, conn, src.ID); !equalStrings(got, []string{"B", "C", "A"}) {
		t.Fatalf("source = %v", got)
	}

	if _, err := svc.MoveCard(ctx, owner, MoveCardRequest{
		CardID: srcIDs["C"], SourceListID: src.ID, DestinationListID: dst.ID,
		SourceIndex: 1, DestinationIndex: 40,
	}); err != nil {
		t.Fatalf("cross-list move: %v", err)
	}
	if got := cardTitles(t, conn, dst.ID); !equalStrings(got, []string{"X", "C"}) {
		t.Fatalf("destination = %v", got)
	}
}

func TestMoveCardIntoEmptyList(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	src := mustList(t, svc, owner, board.ID, "Source")
	dst := mustList(t, svc, owner, board.ID, "Empty")
	ids := mustCards(t, svc, owner, src.ID, "A")

	if _, err := svc.MoveCard(context.Background(), owner, MoveCardRequest{
		CardID: ids["A"], SourceListID: src.ID, DestinationListID: dst.ID,
	}); err != nil {
		t.Fatalf("move: %v", err)
	}

	if got := cardTitles(t, conn, src.ID); len(got) != 0 {
		t.Fatalf("source should be empty, got %v", got)
	}
	if got := cardTitles(t, conn, dst.ID); !equalStrings(got, []string{"A"}) {
		t.Fatalf("destination = %v", got)
	}
}

func TestMoveCardRejections(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	other := mustBoard(t, svc, owner, "Other")
	src := mustList(t, svc, owner, board.ID, "Source")
	dst := mustList(t, svc, owner, board.ID, "Destination")
	foreign := mustList(t, svc, owner, other.ID, "Foreign")
	ids := mustCards(t, svc, owner, src.ID, "A", "B")

	tests := []struct {
		name string
		req  MoveCardRequest
		want error
	}{
		{"unknown card", MoveCardRequest{CardID: "nope", SourceListID: src.ID, DestinationListID: dst.ID}, ErrNotFound},
		{"unknown source list", MoveCardRequest{CardID: ids["A"], SourceListID: "nope", DestinationListID: dst.ID}, ErrNotFound},
		{"unknown destination list", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: "nope"}, ErrNotFound},
		{"missing source list", MoveCardRequest{CardID: ids["A"], DestinationListID: dst.ID}, ErrValidation},
		{"negative index", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: dst.ID, SourceIndex: -1}, ErrValidation},
		{"card not in source list", MoveCardRequest{CardID: ids["A"], SourceListID: dst.ID, DestinationListID: src.ID}, ErrValidation},
		{"other board", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: foreign.ID}, ErrValidation},
		{"source index out of range", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: dst.ID, SourceIndex: 5}, ErrValidation},
		{"stale source index", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: dst.ID, SourceIndex: 1}, ErrConflict},
		{"same index out of range", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: src.ID, SourceIndex: 7, DestinationIndex: 7}, ErrValidation},
		{"same index stale", MoveCardRequest{CardID: ids["A"], SourceListID: src.ID, DestinationListID: src.ID, SourceIndex: 1, DestinationIndex: 1}, ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.MoveCard(context.Background(), owner, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if got := cardTitles(t, conn, src.ID); !equalStrings(got, []string{"A", "B"}) {
		t.Fatalf("rejected moves must not write, source = %v", got)
	}
	if got := cardTitles(t, conn, dst.ID); len(got) != 0 {
		t.Fatalf("rejected moves must not write, destination = %v", got)
	}
}

// loadSnapshot reads the card, list and board rows the way MoveCard does, so a
// later write can make them stale.
func loadSnapshot(t *testing.T, conn *gorm.DB, cardID, listID string) (*models.Card, *models.List, *models.Board) {
	t.Helper()

	var card models.Card
	var list models.List
	var board models.Board
	if err := conn.First(&card, "id = ?", cardID).Error; err != nil {
		t.Fatalf("load card: %v", err)
	}
	if err := conn.First(&list, "id = ?", listID).Error; err != nil {
		t.Fatalf("load list: %v", err)
	}
	if err := conn.Preload("Memberships").First(&board, "id = ?", list.BoardID).Error; err != nil {
		t.Fatalf("load board: %v", err)
	}
	return &card, &list, &board
}

func TestMoveCardWithinListRejectsStaleListVersion(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ids := mustCards(t, svc, owner, list.ID, "A", "B")

	card, stale, snapshot := loadSnapshot(t, conn, ids["A"], list.ID)
	mustCards(t, svc, owner, list.ID, "C")

	_, err := svc.moveCard(context.Background(), card, stale, stale, snapshot, MoveCardRequest{
		CardID: card.ID, SourceListID: list.ID, DestinationListID: list.ID,
		SourceIndex: 0, DestinationIndex: 1,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if got := cardTitles(t, conn, list.ID); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Fatalf("conflicting move must not write, got %v", got)
	}
}

func TestMoveCardAcrossListsRejectsStaleDestinationVersion(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	src := mustList(t, svc, owner, board.ID, "Source")
	dst := mustList(t, svc, owner, board.ID, "Destination")
	ids := mustCards(t, svc, owner, src.ID, "A", "B")
	mustCards(t, svc, owner, dst.ID, "X")

	card, freshSrc, snapshot := loadSnapshot(t, conn, ids["A"], src.ID)
	_, staleDst, _ := loadSnapshot(t, conn, ids["A"], dst.ID)
	mustCards(t, svc, owner, dst.ID, "Y")

	var srcBefore models.List
	conn.First(&srcBefore, "id = ?", src.ID)

	_, err := svc.moveCard(context.Background(), card, freshSrc, staleDst, snapshot, MoveCardRequest{
		CardID: card.ID, SourceListID: src.ID, DestinationListID: dst.ID,
		SourceIndex: 0, DestinationIndex: 1,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if got := cardTitles(t, conn, src.ID); !equalStrings(got, []string{"A", "B"}) {
		t.Fatalf("conflicting move must not write, source = %v", got)
	}
	if got := cardTitles(t, conn, dst.ID); !equalStrings(got, []string{"X", "Y"}) {
		t.Fatalf("conflicting move must not write, destination = %v", got)
	}

	var srcAfter models.List
	conn.First(&srcAfter, "id = ?", src.ID)
	if srcAfter.Version != srcBefore.Version {
		t.Fatalf("rolled back move bumped source version %d -> %d", srcBefore.Version, srcAfter.Version)
	}
}

func TestDeleteCardRenumbersSiblings(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ids := mustCards(t, svc, owner, list.ID, "A", "B", "C", "D")
	ctx := context.Background()

	if err := svc.DeleteCard(ctx, owner, ids["B"]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := cardTitles(t, conn, list.ID); !equalStrings(got, []string{"A", "C", "D"}) {
		t.Fatalf("got %v", got)
	}

	card, err := svc.CreateCard(ctx, owner, list.ID, "E", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if card.Position != 3 {
		t.Fatalf("appended card position = %d, want 3", card.Position)
	}

	if err := svc.DeleteCard(ctx, owner, ids["B"]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCardKeepsTitleWhenEmpty(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	list := mustList(t, svc, owner, board.ID, "Todo")
	ids := mustCards(t, svc, owner, list.ID, "A")

	empty, desc := "", "details"
	card, err := svc.UpdateCard(context.Background(), owner, ids["A"], &empty, &desc)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if card.Title != "A" || card.Description != "details" {
		t.Fatalf("unexpected card: %+v", card)
	}
}

// Random create/delete/move sequences must keep every list dense.
func TestDensityHoldsUnderRandomOperations(t *testing.T) {
	svc, conn := newTestService(t)
	owner := createUser(t, conn, "owner")
	board := mustBoard(t, svc, owner, "Board")
	lists := []*models.List{
		mustList(t, svc, owner, board.ID, "L0"),
		mustList(t, svc, owner, board.ID, "L1"),
		mustList(t, svc, owner, board.ID, "L2"),
	}

	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for step := 0; step < 150; step++ {
		src := lists[rng.Intn(len(lists))]

		var cards []models.Card
		conn.Where("list_id = ?", src.ID).Order("position ASC").Find(&cards)

		switch op := rng.Intn(4); {
		case op == 0 || len(cards) == 0:
			if _, err := svc.CreateCard(ctx, owner, src.ID, fmt.Sprintf("c%d", step), ""); err != nil {
				t.Fatalf("step %d create: %v", step, err)
			}
		case op == 1:
			victim := cards[rng.Intn(len(cards))]
			if err := svc.DeleteCard(ctx, owner, victim.ID); err != nil {
				t.Fatalf("step %d delete: %v", step, err)
			}
		default:
			from := rng.Intn(len(cards))
			dst := lists[rng.Intn(len(lists))]
			if _, err := svc.MoveCard(ctx, owner, MoveCardRequest{
				CardID:            cards[from].ID,
				SourceListID:      src.ID,
				DestinationListID: dst.ID,
				SourceIndex:       from,
				DestinationIndex:  rng.Intn(len(cards) + 2),
			}); err != nil {
				t.Fatalf("step %d move: %v", step, err)
			}
		}

		for _, l := range lists {
			cardTitles(t, conn, l.ID)
		}
	}
}
