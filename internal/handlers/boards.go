package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func boardResponse(board *models.Board) types.BoardResponse {
	response := types.BoardResponse{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		OwnerID:     board.OwnerID,
		Members:     board.MemberIDs(),
		CreatedAt:   board.CreatedAt,
	}

	if board.Owner.ID != "" {
		response.Owner = &types.UserResponse{
			ID:    board.Owner.ID,
			Name:  board.Owner.Name,
			Email: board.Owner.Email,
		}
	}

	return response
}

func (h *Handler) CreateBoard(ctx *gin.Context) {
	var body CreateBoardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Title is required")
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	board, err := h.boards.CreateBoard(ctx.Request.Context(), userID, body.Title, body.Description)

	if err != nil {
		h.respondError(ctx, "create board", err)
		return
	}

	ctx.JSON(http.StatusCreated, boardResponse(board))
}

func (h *Handler) ListBoards(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boards, err := h.boards.ListBoards(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, "list boards", err)
		return
	}

	response := make([]types.BoardResponse, 0, len(boards))

	for i := range boards {
		response = append(response, boardResponse(&boards[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boardID, err := utils.GetPathID(ctx, "id", "Board")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	view, err := h.boards.GetBoardView(ctx.Request.Context(), userID, boardID)

	if err != nil {
		h.respondError(ctx, "get board", err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boardID, err := utils.GetPathID(ctx, "id", "Board")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body UpdateBoardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	board, err := h.boards.UpdateBoard(ctx.Request.Context(), userID, boardID, body.Title, body.Description)

	if err != nil {
		h.respondError(ctx, "update board", err)
		return
	}

	ctx.JSON(http.StatusOK, boardResponse(board))
}

func (h *Handler) DeleteBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boardID, err := utils.GetPathID(ctx, "id", "Board")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	if err := h.boards.DeleteBoard(ctx.Request.Context(), userID, boardID); err != nil {
		h.respondError(ctx, "delete board", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

func (h *Handler) AddMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boardID, err := utils.GetPathID(ctx, "id", "Board")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body AddMemberRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "userId is required")
		return
	}

	if err := utils.ValidID(body.UserID); err != nil {
		badRequest(ctx, "Invalid user ID")
		return
	}

	board, err := h.boards.AddMember(ctx.Request.Context(), userID, boardID, body.UserID)

	if err != nil {
		h.respondError(ctx, "add member", err)
		return
	}

	ctx.JSON(http.StatusOK, boardResponse(board))
}

func (h *Handler) RemoveMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	boardID, err := utils.GetPathID(ctx, "id", "Board")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	memberID, err := utils.GetPathID(ctx, "userId", "User")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	board, err := h.boards.RemoveMember(ctx.Request.Context(), userID, boardID, memberID)

	if err != nil {
		h.respondError(ctx, "remove member", err)
		return
	}

	ctx.JSON(http.StatusOK, boardResponse(board))
}
