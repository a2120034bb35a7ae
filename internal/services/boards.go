package services

import (
	"context"
	"errors"
	"strings"

	"github.com/monocle-dev/taskboard/internal/access"
	"github.com/monocle-dev/taskboard/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ViewCache stores aggregated board views. Load reports the board's current
// generation on a miss; a view stored under a generation that Evict has since
// advanced must never be loaded. A negative generation means nothing may be
// stored. Backend failures are reported as misses.
type ViewCache interface {
	Load(ctx context.Context, boardID string) (view *BoardView, generation int64, ok bool)
	Store(ctx context.Context, view *BoardView, generation int64)
	Evict(ctx context.Context, boardID string)
}

type noopCache struct{}

func (noopCache) Load(context.Context, string) (*BoardView, int64, bool) { return nil, -1, false }
func (noopCache) Store(context.Context, *BoardView, int64)               {}
func (noopCache) Evict(context.Context, string)                          {}

// BoardService applies access-checked mutations to boards, lists and cards and
// keeps card and list positions dense.
type BoardService struct {
	db     *gorm.DB
	cache  ViewCache
	logger *log.Logger
}

func NewBoardService(conn *gorm.DB, cache ViewCache, logger *log.Logger) *BoardService {
	if cache == nil {
		cache = noopCache{}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &BoardService{db: conn, cache: cache, logger: logger}
}

func (s *BoardService) findBoard(ctx context.Context, boardID string) (*models.Board, error) {
	if boardID == "" {
		return nil, invalid("boardId is required")
	}

	var board models.Board
	if err := s.db.WithContext(ctx).Preload("Memberships").First(&board, "id = ?", boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("board")
		}
		return nil, storeErr("find board", err)
	}
	return &board, nil
}

func (s *BoardService) findList(ctx context.Context, listID string) (*models.List, error) {
	if listID == "" {
		return nil, invalid("listId is required")
	}

	var list models.List
	if err := s.db.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("list")
		}
		return nil, storeErr("find list", err)
	}
	return &list, nil
}

func (s *BoardService) findCard(ctx context.Context, cardID string) (*models.Card, error) {
	if cardID == "" {
		return nil, invalid("cardId is required")
	}

	var card models.Card
	if err := s.db.WithContext(ctx).First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("card")
		}
		return nil, storeErr("find card", err)
	}
	return &card, nil
}

// accessibleBoard loads the board and checks the caller against it.
func (s *BoardService) accessibleBoard(ctx context.Context, boardID, userID string) (*models.Board, error) {
	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(*board, userID) {
		return nil, ErrAccessDenied
	}
	return board, nil
}

// managedBoard loads the board and requires the caller to own it.
func (s *BoardService) managedBoard(ctx context.Context, boardID, userID string) (*models.Board, error) {
	board, err := s.accessibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(*board, userID) {
		return nil, ErrAccessDenied
	}
	return board, nil
}

func (s *BoardService) accessibleList(ctx context.Context, listID, userID string) (*models.List, *models.Board, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	board, err := s.accessibleBoard(ctx, list.BoardID, userID)
	if err != nil {
		return nil, nil, err
	}
	return list, board, nil
}

func (s *BoardService) accessibleCard(ctx context.Context, cardID, userID string) (*models.Card, *models.List, *models.Board, error) {
	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return nil, nil, nil, err
	}
	list, board, err := s.accessibleList(ctx, card.ListID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return card, list, board, nil
}

func (s *BoardService) CreateBoard(ctx context.Context, userID, title, description string) (*models.Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if userID == "" {
		return nil, ErrAccessDenied
	}

	board := models.Board{
		Title:       title,
		Description: strings.TrimSpace(description),
		OwnerID:     userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner").Create(&board).Error; err != nil {
			return err
		}
		membership := models.BoardMembership{UserID: userID, BoardID: board.ID}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		board.Memberships = []models.BoardMembership{membership}
		return nil
	})
	if err != nil {
		return nil, storeErr("create board", err)
	}

	s.logger.WithFields(log.Fields{"board_id": board.ID, "user_id": userID}).Info("board created")
	return &board, nil
}

// ListBoards returns the boards the user owns or is a member of, newest first.
func (s *BoardService) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	conn := s.db.WithContext(ctx)
	memberOf := conn.Model(&models.BoardMembership{}).Select("board_id").Where("user_id = ?", userID)

	boards := []models.Board{}
	err := conn.Preload("Owner").Preload("Memberships").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, storeErr("list boards", err)
	}
	return boards, nil
}

// GetBoardView returns the board with its lists and cards in position order.
func (s *BoardService) GetBoardView(ctx context.Context, userID, boardID string) (*BoardView, error) {
	board, err := s.accessibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	view, generation, ok := s.cache.Load(ctx, board.ID)
	if ok {
		view.MemberIDs = board.MemberIDs()
		return view, nil
	}

	conn := s.db.WithContext(ctx)

	var lists []models.List
	if err := conn.Where("board_id = ?", board.ID).
		Order("position ASC").Order("created_at ASC").Order("id ASC").
		Find(&lists).Error; err != nil {
		return nil, storeErr("load lists", err)
	}

	var cards []models.Card
	if len(lists) > 0 {
		listIDs := make([]string, len(lists))
		for i, l := range lists {
			listIDs[i] = l.ID
		}
		if err := conn.Where("list_id IN ?", listIDs).
			Order("position ASC").Order("created_at ASC").Order("id ASC").
			Find(&cards).Error; err != nil {
			return nil, storeErr("load cards", err)
		}
	}

	view = assembleBoardView(*board, lists, cards)
	s.cache.Store(ctx, view, generation)
	return view, nil
}

// UpdateBoard changes title and description. Owner only. An empty title keeps
// the current one; a nil description keeps the current one.
func (s *BoardService) UpdateBoard(ctx context.Context, userID, boardID string, title, description *string) (*models.Board, error) {
	board, err := s.managedBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if title != nil && strings.TrimSpace(*title) != "" {
		updates["title"] = strings.TrimSpace(*title)
	}
	if description != nil {
		updates["description"] = strings.TrimSpace(*description)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Board{}).Where("id = ?", board.ID).Updates(updates).Error; err != nil {
			return nil, storeErr("update board", err)
		}
		s.cache.Evict(ctx, board.ID)
	}

	return s.findBoard(ctx, board.ID)
}

// DeleteBoard removes the board with all its lists, cards and memberships.
// Owner only.
func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID string) error {
	board, err := s.managedBoard(ctx, boardID, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listIDs := tx.Model(&models.List{}).Select("id").Where("board_id = ?", board.ID)
		if err := tx.Where("list_id IN (?)", listIDs).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.List{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.BoardMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Board{}, "id = ?", board.ID).Error
	})
	if err != nil {
		return storeErr("delete board", err)
	}

	s.cache.Evict(ctx, board.ID)
	s.logger.WithFields(log.Fields{"board_id": board.ID, "user_id": userID}).Info("board deleted")
	return nil
}

// AddMember grants memberID access to the board. Owner only. Adding an
// existing member is a no-op.
func (s *BoardService) AddMember(ctx context.Context, userID, boardID, memberID string) (*models.Board, error) {
	if memberID == "" {
		return nil, invalid("userId is required")
	}

	board, err := s.managedBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&models.User{}, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, storeErr("find user", err)
	}

	for _, m := range board.Memberships {
		if m.UserID == memberID {
			return board, nil
		}
	}

	if err := s.db.WithContext(ctx).Create(&models.BoardMembership{UserID: memberID, BoardID: board.ID}).Error; err != nil {
		return nil, storeErr("add member", err)
	}

	s.cache.Evict(ctx, board.ID)
	return s.findBoard(ctx, board.ID)
}

// RemoveMember revokes memberID's access. Owner only; the owner itself cannot
// be removed.
func (s *BoardService) RemoveMember(ctx context.Context, userID, boardID, memberID string) (*models.Board, error) {
	board, err := s.managedBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if memberID == board.OwnerID {
		return nil, invalid("the board owner cannot be removed")
	}

	res := s.db.WithContext(ctx).Where("board_id = ? AND user_id = ?", board.ID, memberID).Delete(&models.BoardMembership{})
	if res.Error != nil {
		return nil, storeErr("remove member", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("member")
	}

	s.cache.Evict(ctx, board.ID)
	return s.findBoard(ctx, board.ID)
}
