package services

import (
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
)

// BoardView is the aggregated read model of a board: lists ordered by
// position, each with its cards ordered by position.
type BoardView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OwnerID     string     `json:"ownerId"`
	MemberIDs   []string   `json:"members"`
	ListIDs     []string   `json:"listIds"`
	Lists       []ListView `json:"lists"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type ListView struct {
	ID       string     `json:"id"`
	BoardID  string     `json:"boardId"`
	Title    string     `json:"title"`
	Position int        `json:"position"`
	CardIDs  []string   `json:"cardIds"`
	Cards    []CardView `json:"cards"`
}

type CardView struct {
	ID          string `json:"id"`
	ListID      string `json:"listId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func NewCardView(card models.Card) CardView {
	return CardView{
		ID:          card.ID,
		ListID:      card.ListID,
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
	}
}

func assembleBoardView(board models.Board, lists []models.List, cards []models.Card) *BoardView {
	byList := make(map[string][]CardView, len(lists))
	for _, card := range cards {
		byList[card.ListID] = append(byList[card.ListID], NewCardView(card))
	}

	view := &BoardView{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		OwnerID:     board.OwnerID,
		MemberIDs:   board.MemberIDs(),
		ListIDs:     make([]string, 0, len(lists)),
		Lists:       make([]ListView, 0, len(lists)),
		CreatedAt:   board.CreatedAt,
	}

	for _, list := range lists {
		listCards := byList[list.ID]
		if listCards == nil {
			listCards = []CardView{}
		}
		cardIDs := make([]string, 0, len(listCards))
		for _, c := range listCards {
			cardIDs = append(cardIDs, c.ID)
		}
		view.ListIDs = append(view.ListIDs, list.ID)
		view.Lists = append(view.Lists, ListView{
			ID:       list.ID,
			BoardID:  list.BoardID,
			Title:    list.Title,
			Position: list.Position,
			CardIDs:  cardIDs,
			Cards:    listCards,
		})
	}

	return view
}
