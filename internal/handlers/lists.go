package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type CreateListRequest struct {
	Title   string `json:"title" binding:"required"`
	BoardID string `json:"boardId" binding:"required"`
}

type UpdateListRequest struct {
	Title *string `json:"title"`
}

type MoveListRequest struct {
	DestinationIndex *int `json:"destinationIndex" binding:"required"`
}

func listResponse(list *models.List) types.ListResponse {
	return types.ListResponse{
		ID:       list.ID,
		BoardID:  list.BoardID,
		Title:    list.Title,
		Position: list.Position,
	}
}

func (h *Handler) CreateList(ctx *gin.Context) {
	var body CreateListRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Title and boardId are required")
		return
	}

	if err := utils.ValidID(body.BoardID); err != nil {
		badRequest(ctx, "Invalid board ID")
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	list, err := h.boards.CreateList(ctx.Request.Context(), userID, body.BoardID, body.Title)

	if err != nil {
		h.respondError(ctx, "create list", err)
		return
	}

	ctx.JSON(http.StatusCreated, listResponse(list))
}

func (h *Handler) UpdateList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	listID, err := utils.GetPathID(ctx, "id", "List")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body UpdateListRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	list, err := h.boards.UpdateList(ctx.Request.Context(), userID, listID, body.Title)

	if err != nil {
		h.respondError(ctx, "update list", err)
		return
	}

	ctx.JSON(http.StatusOK, listResponse(list))
}

func (h *Handler) MoveList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	listID, err := utils.GetPathID(ctx, "id", "List")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body MoveListRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "destinationIndex is required")
		return
	}

	list, err := h.boards.MoveList(ctx.Request.Context(), userID, listID, *body.DestinationIndex)

	if err != nil {
		h.respondError(ctx, "move list", err)
		return
	}

	ctx.JSON(http.StatusOK, listResponse(list))
}

func (h *Handler) DeleteList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	listID, err := utils.GetPathID(ctx, "id", "List")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	if err := h.boards.DeleteList(ctx.Request.Context(), userID, listID); err != nil {
		h.respondError(ctx, "delete list", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "List deleted successfully"})
}
