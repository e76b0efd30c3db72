package stocks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lance0/RubyRidge/pkg/auditlog"
	"github.com/lance0/RubyRidge/pkg/models"
	"github.com/lance0/RubyRidge/pkg/security"

	"github.com/gin-gonic/gin"
)

// StockStore is the inventory surface the handler (and the trip ledger)
// depends on.
type StockStore interface {
	PersistStockItem(req StockItemRequest, userID *int) (*models.StockItem, error)
	GetStockItem(id int) (*models.StockItem, error)
	GetStockItems() ([]models.StockItem, error)
	GetCaliberTotals() ([]models.CaliberTotal, error)
	UpdateStockItem(id int, req UpdateStockItemRequest) error
	AdjustStock(id int, deltaBoxes int) error
	DeleteStockItem(id int) error
}

type StockHandler struct {
	Store    StockStore
	AuditLog auditlog.Sink
}

func NewStockHandler(store StockStore, a auditlog.Sink) *StockHandler {
	return &StockHandler{
		Store:    store,
		AuditLog: a,
	}
}

func (h *StockHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/stocks", h.ListStock)
	router.POST("/stocks", h.CreateStock)
	router.GET("/stocks/:id", h.GetStock)
	router.PATCH("/stocks/:id", h.UpdateStock)
	router.PATCH("/stocks/:id/adjust", h.AdjustStock)
	router.DELETE("/stocks/:id", h.DeleteStock)
}

func (h *StockHandler) CreateStock(c *gin.Context) {
	var stockRequest StockItemRequest

	if err := c.ShouldBindJSON(&stockRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if stockRequest.RoundsPerBox <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "rounds_per_box must be positive"})
		return
	}
	if stockRequest.BoxesOnHand < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "boxes_on_hand cannot be negative"})
		return
	}

	stockItem, err := h.Store.PersistStockItem(stockRequest, security.OptionalUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"boxes_on_hand": stockItem.BoxesOnHand,
			"caliber":       stockItem.Caliber,
			"msg":           "Registered ammunition box in inventory",
		},
		stockItem,
	)

	c.JSON(http.StatusCreated, stockItem)
}

func (h *StockHandler) ListStock(c *gin.Context) {
	items, err := h.Store.GetStockItems()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list stock items", "details": err.Error()})
		return
	}

	totals, err := h.Store.GetCaliberTotals()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to aggregate caliber totals", "details": err.Error()})
		return
	}

	overview := models.InventoryOverview{
		Items:         items,
		CaliberTotals: totals,
	}
	for _, t := range totals {
		overview.TotalRounds += t.TotalRounds
	}

	c.JSON(http.StatusOK, overview)
}

func (h *StockHandler) GetStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	item, err := h.Store.GetStockItem(id)
	if err != nil {
		if errors.Is(err, ErrStockItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get stock item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	var req UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !req.HasChanges() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No changes provided"})
		return
	}
	if req.RoundsPerBox != nil && *req.RoundsPerBox <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rounds_per_box must be positive"})
		return
	}
	if req.BoxesOnHand != nil && *req.BoxesOnHand < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boxes_on_hand cannot be negative"})
		return
	}

	if err := h.Store.UpdateStockItem(id, req); err != nil {
		if errors.Is(err, ErrStockItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock item", "details": err.Error()})
		return
	}

	item, err := h.Store.GetStockItem(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated stock item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"update",
		map[string]interface{}{
			"boxes_on_hand": item.BoxesOnHand,
			"msg":           "Edited inventory item",
		},
		item,
	)

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) AdjustStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Store.AdjustStock(id, req.DeltaBoxes); err != nil {
		switch {
		case errors.Is(err, ErrStockItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		case errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock for adjustment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock", "details": err.Error()})
		}
		return
	}

	item, err := h.Store.GetStockItem(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get adjusted stock item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"adjust",
		map[string]interface{}{
			"delta_boxes":   req.DeltaBoxes,
			"boxes_on_hand": item.BoxesOnHand,
			"msg":           "Adjusted boxes on hand",
		},
		item,
	)

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) DeleteStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return
	}

	if err := h.Store.DeleteStockItem(id); err != nil {
		switch {
		case errors.Is(err, ErrStockItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		case errors.Is(err, ErrSkuInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Stock item is referenced by range trip line items"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock item", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		"delete",
		map[string]interface{}{"msg": "Removed inventory item"},
		&models.StockItem{ID: id},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted successfully"})
}
