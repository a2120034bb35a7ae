package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type CreateCardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ListID      string `json:"listId" binding:"required"`
}

type UpdateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Indices are pointers so that 0 satisfies the required tag.
type MoveCardRequest struct {
	SourceListID      string `json:"sourceListId" binding:"required"`
	DestinationListID string `json:"destinationListId" binding:"required"`
	SourceIndex       *int   `json:"sourceIndex" binding:"required"`
	DestinationIndex  *int   `json:"destinationIndex" binding:"required"`
}

func (h *Handler) CreateCard(ctx *gin.Context) {
	var body CreateCardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Title and listId are required")
		return
	}

	if err := utils.ValidID(body.ListID); err != nil {
		badRequest(ctx, "Invalid list ID")
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	card, err := h.boards.CreateCard(ctx.Request.Context(), userID, body.ListID, body.Title, body.Description)

	if err != nil {
		h.respondError(ctx, "create card", err)
		return
	}

	ctx.JSON(http.StatusCreated, services.NewCardView(*card))
}

func (h *Handler) UpdateCard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	cardID, err := utils.GetPathID(ctx, "id", "Card")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body UpdateCardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	card, err := h.boards.UpdateCard(ctx.Request.Context(), userID, cardID, body.Title, body.Description)

	if err != nil {
		h.respondError(ctx, "update card", err)
		return
	}

	ctx.JSON(http.StatusOK, services.NewCardView(*card))
}

func (h *Handler) MoveCard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	cardID, err := utils.GetPathID(ctx, "id", "Card")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body MoveCardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "sourceListId, destinationListId, sourceIndex and destinationIndex are required")
		return
	}

	if utils.ValidID(body.SourceListID) != nil || utils.ValidID(body.DestinationListID) != nil {
		badRequest(ctx, "Invalid list ID")
		return
	}

	card, err := h.boards.MoveCard(ctx.Request.Context(), userID, services.MoveCardRequest{
		CardID:            cardID,
		SourceListID:      body.SourceListID,
		DestinationListID: body.DestinationListID,
		SourceIndex:       *body.SourceIndex,
		DestinationIndex:  *body.DestinationIndex,
	})

	if err != nil {
		h.respondError(ctx, "move card", err)
		return
	}

	ctx.JSON(http.StatusOK, services.NewCardView(*card))
}

func (h *Handler) DeleteCard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	cardID, err := utils.GetPathID(ctx, "id", "Card")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	if err := h.boards.DeleteCard(ctx.Request.Context(), userID, cardID); err != nil {
		h.respondError(ctx, "delete card", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
