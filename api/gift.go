package api

import (
	"strings"

	"utsav/aggregate"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
)

// GiftHandler gifts to give and gifts received
type GiftHandler struct{}

// NewGiftHandler creates the gift handler
func NewGiftHandler() *GiftHandler {
	return &GiftHandler{}
}

// GiftToGiveRequest add gift-to-give form
type GiftToGiveRequest struct {
	RecipientName string   `json:"recipient_name" binding:"required,max=100" example:"Meera Aunty"`
	Budget        *float64 `json:"budget" binding:"required,gte=0" example:"2000"`
	GiftItem      string   `json:"gift_item" binding:"max=200" example:"Silver diya set"`
}

// GiftReceivedRequest add gift-received form
type GiftReceivedRequest struct {
	GiverName string   `json:"giver_name" binding:"required,max=100" example:"Sharma family"`
	GiftItem  string   `json:"gift_item" binding:"required,max=200" example:"Dinner set"`
	GiftValue *float64 `json:"gift_value" binding:"required,gte=0" example:"5000"`
}

// GiftsToGiveResponse summary and gifts, newest first
type GiftsToGiveResponse struct {
	Summary aggregate.GiftToGiveSummary `json:"summary"`
	Gifts   []models.GiftToGive         `json:"gifts"`
}

// GiftsReceivedResponse summary and gifts, newest first
type GiftsReceivedResponse struct {
	Summary aggregate.GiftReceivedSummary `json:"summary"`
	Gifts   []models.GiftReceived         `json:"gifts"`
}

func (h *GiftHandler) respondToGive(c *gin.Context, message string) {
	gifts, err := database.GiftsToGive.List(c.Request.Context(), database.Filter{"event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to load gifts")
		return
	}
	SuccessWithMessage(c, message, GiftsToGiveResponse{Summary: aggregate.GiftsToGive(gifts), Gifts: gifts})
}

func (h *GiftHandler) respondReceived(c *gin.Context, message string) {
	gifts, err := database.GiftsReceived.List(c.Request.Context(), database.Filter{"event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to load gifts")
		return
	}
	SuccessWithMessage(c, message, GiftsReceivedResponse{Summary: aggregate.GiftsReceived(gifts), Gifts: gifts})
}

// ListToGive gifts the host plans to give
// @Summary Gifts to give
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=GiftsToGiveResponse}
// @Router /api/v1/events/{eventId}/gifts-to-give [get]
func (h *GiftHandler) ListToGive(c *gin.Context) {
	h.respondToGive(c, "success")
}

// AddToGive plans a gift, initially pending
// @Summary Add gift to give
// @Tags Gifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param request body GiftToGiveRequest true "gift"
// @Success 200 {object} Response{data=GiftsToGiveResponse}
// @Failure 400 {object} Response
// @Router /api/v1/events/{eventId}/gifts-to-give [post]
func (h *GiftHandler) AddToGive(c *gin.Context) {
	var req GiftToGiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid gift"))
		return
	}
	recipient := strings.TrimSpace(req.RecipientName)
	if recipient == "" {
		BadRequest(c, "recipient_name is required")
		return
	}

	gift := models.GiftToGive{
		EventID:       middleware.GetEvent(c).ID,
		RecipientName: recipient,
		Budget:        *req.Budget,
		Status:        models.GiftStatusPending,
	}
	if item := strings.TrimSpace(req.GiftItem); item != "" {
		gift.GiftItem = &item
	}
	if err := database.GiftsToGive.Insert(c.Request.Context(), &gift); err != nil {
		storeError(c, err, "", "failed to add gift")
		return
	}

	h.respondToGive(c, "gift added")
}

// ToggleToGive flips pending and purchased
// @Summary Toggle gift to give
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "gift id"
// @Success 200 {object} Response{data=GiftsToGiveResponse}
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/events/{eventId}/gifts-to-give/{id}/toggle [patch]
func (h *GiftHandler) ToggleToGive(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	scope := database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID}

	gift, err := database.GiftsToGive.Get(ctx, scope)
	if err != nil {
		storeError(c, err, "gift not found", "failed to load gift")
		return
	}

	scope["status"] = gift.Status
	n, err := database.GiftsToGive.Update(ctx, map[string]any{"status": models.NextGiftStatus(gift.Status)}, scope)
	if err != nil {
		storeError(c, err, "", "failed to update gift")
		return
	}
	if n == 0 {
		Conflict(c, "gift was changed by another request, reload and try again")
		return
	}

	h.respondToGive(c, "gift updated")
}

// DeleteToGive removes a planned gift
// @Summary Delete gift to give
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "gift id"
// @Success 200 {object} Response{data=GiftsToGiveResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/gifts-to-give/{id} [delete]
func (h *GiftHandler) DeleteToGive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := database.GiftsToGive.Delete(c.Request.Context(), database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to delete gift")
		return
	}
	if n == 0 {
		NotFound(c, "gift not found")
		return
	}
	h.respondToGive(c, "gift deleted")
}

// ListReceived gifts received at the event
// @Summary Gifts received
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=GiftsReceivedResponse}
// @Router /api/v1/events/{eventId}/gifts-received [get]
func (h *GiftHandler) ListReceived(c *gin.Context) {
	h.respondReceived(c, "success")
}

// AddReceived records a received gift with its return gift pending
// @Summary Add gift received
// @Tags Gifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param request body GiftReceivedRequest true "gift"
// @Success 200 {object} Response{data=GiftsReceivedResponse}
// @Failure 400 {object} Response
// @Router /api/v1/events/{eventId}/gifts-received [post]
func (h *GiftHandler) AddReceived(c *gin.Context) {
	var req GiftReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid gift"))
		return
	}
	giver, item := strings.TrimSpace(req.GiverName), strings.TrimSpace(req.GiftItem)
	if giver == "" || item == "" {
		BadRequest(c, "giver_name and gift_item are required")
		return
	}

	gift := models.GiftReceived{
		EventID:      middleware.GetEvent(c).ID,
		GiverName:    giver,
		GiftItem:     item,
		GiftValue:    *req.GiftValue,
		ReturnStatus: models.ReturnStatusPending,
	}
	if err := database.GiftsReceived.Insert(c.Request.Context(), &gift); err != nil {
		storeError(c, err, "", "failed to add gift")
		return
	}

	h.respondReceived(c, "gift added")
}

// ToggleReceived flips the return gift between pending and done
// @Summary Toggle return gift
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "gift id"
// @Success 200 {object} Response{data=GiftsReceivedResponse}
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/events/{eventId}/gifts-received/{id}/toggle [patch]
func (h *GiftHandler) ToggleReceived(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	scope := database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID}

	gift, err := database.GiftsReceived.Get(ctx, scope)
	if err != nil {
		storeError(c, err, "gift not found", "failed to load gift")
		return
	}

	scope["return_status"] = gift.ReturnStatus
	n, err := database.GiftsReceived.Update(ctx, map[string]any{"return_status": models.NextReturnStatus(gift.ReturnStatus)}, scope)
	if err != nil {
		storeError(c, err, "", "failed to update gift")
		return
	}
	if n == 0 {
		Conflict(c, "gift was changed by another request, reload and try again")
		return
	}

	h.respondReceived(c, "gift updated")
}

// DeleteReceived removes a received gift
// @Summary Delete gift received
// @Tags Gifts
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "gift id"
// @Success 200 {object} Response{data=GiftsReceivedResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/gifts-received/{id} [delete]
func (h *GiftHandler) DeleteReceived(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := database.GiftsReceived.Delete(c.Request.Context(), database.Filter{"id": id, "event_id": middleware.GetEvent(c).ID})
	if err != nil {
		storeError(c, err, "", "failed to delete gift")
		return
	}
	if n == 0 {
		NotFound(c, "gift not found")
		return
	}
	h.respondReceived(c, "gift deleted")
}
