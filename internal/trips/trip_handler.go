package trips

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lance0/RubyRidge/internal/stocks"
	"github.com/lance0/RubyRidge/pkg/auditlog"
	"github.com/lance0/RubyRidge/pkg/security"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	Service  *TripService
	AuditLog auditlog.Sink
}

func NewHandler(service *TripService, a auditlog.Sink) *TripHandler {
	return &TripHandler{
		Service:  service,
		AuditLog: a,
	}
}

func (h *TripHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/trips", h.ListTrips)
	router.POST("/trips", h.CreateTrip)
	router.GET("/trips/:id", h.GetTrip)
	router.POST("/trips/:id/checkout", h.Checkout)
	router.PATCH("/trips/:id/lines/:line_id/checkin", h.Checkin)
	router.PATCH("/trips/:id/complete", h.CompleteTrip)
	router.PATCH("/trips/:id/notes", h.UpdateNotes)
	router.GET("/trips/:id/summary", h.Summarize)
	router.POST("/trips/:id/firearms", h.AddFirearmUsage)
}

func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	trip, err := h.Service.CreateTrip(req, security.OptionalUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create trip", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{"name": trip.Name, "msg": "Opened range trip"},
		trip,
	)

	c.JSON(http.StatusCreated, trip)
}

func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.Service.ListTrips(security.OptionalUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list trips", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trips)
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	trip, err := h.Service.GetTrip(tripID)
	if err != nil {
		h.renderError(c, err, "Unable to get trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) Checkout(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	line, err := h.Service.Checkout(tripID, req.StockItemID, req.Boxes)
	if err != nil {
		h.renderError(c, err, "Unable to check out boxes")
		return
	}

	go h.AuditLog.Log(
		"checkout",
		map[string]interface{}{
			"trip_id":       tripID,
			"stock_item_id": req.StockItemID,
			"boxes":         req.Boxes,
			"msg":           "Checked boxes out of inventory",
		},
		line,
	)

	c.JSON(http.StatusCreated, line)
}

func (h *TripHandler) Checkin(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	lineID, err := strconv.Atoi(c.Param("line_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line item ID"})
		return
	}

	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	line, err := h.Service.Checkin(tripID, lineID, *req.BoxesReturned)
	if err != nil {
		h.renderError(c, err, "Unable to check in boxes")
		return
	}

	go h.AuditLog.Log(
		"checkin",
		map[string]interface{}{
			"trip_id":        tripID,
			"boxes_returned": line.BoxesCheckedIn,
			"rounds_used":    line.RoundsUsed,
			"msg":            "Checked unused boxes back into inventory",
		},
		line,
	)

	c.JSON(http.StatusOK, line)
}

func (h *TripHandler) CompleteTrip(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	trip, err := h.Service.CompleteTrip(tripID)
	if err != nil {
		h.renderError(c, err, "Unable to complete trip")
		return
	}

	go h.AuditLog.Log(
		"complete",
		map[string]interface{}{"msg": "Closed range trip"},
		trip,
	)

	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) UpdateNotes(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	var req UpdateTripNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !req.HasChanges() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No changes provided"})
		return
	}

	trip, err := h.Service.UpdateNotes(tripID, req)
	if err != nil {
		h.renderError(c, err, "Unable to update trip notes")
		return
	}

	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) Summarize(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	summary, err := h.Service.Summarize(tripID)
	if err != nil {
		h.renderError(c, err, "Unable to summarize trip")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *TripHandler) AddFirearmUsage(c *gin.Context) {
	tripID, ok := h.tripParam(c)
	if !ok {
		return
	}

	var req FirearmUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	usage, err := h.Service.AddFirearmUsage(tripID, req)
	if err != nil {
		h.renderError(c, err, "Unable to record firearm usage")
		return
	}

	c.JSON(http.StatusCreated, usage)
}

func (h *TripHandler) tripParam(c *gin.Context) (int, bool) {
	tripID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return 0, false
	}
	return tripID, true
}

// renderError maps ledger errors onto HTTP statuses. Every precondition
// violation surfaces as its own message, never a silent no-op.
func (h *TripHandler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTripNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
	case errors.Is(err, ErrLineItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip line item not found"})
	case errors.Is(err, stocks.ErrStockItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
	case errors.Is(err, ErrTripClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Trip is already completed"})
	case errors.Is(err, ErrOverReturn):
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot return more boxes than were checked out"})
	case errors.Is(err, stocks.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough boxes on hand"})
	case errors.Is(err, ErrInvalidBoxes):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Box count must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
