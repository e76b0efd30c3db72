package reports

import (
	"errors"
	"net/http"

	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Service *ReportService
}

func NewReportHandler(service *ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

func (h *ReportHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/calibers/thresholds", h.ListThresholds)
	router.GET("/calibers/thresholds/:caliber", h.GetThreshold)
	router.PUT("/calibers/thresholds", h.SetThreshold)
	router.GET("/reports/stock-status", h.StockStatus)
}

func (h *ReportHandler) ListThresholds(c *gin.Context) {
	thresholds, err := h.Service.ListThresholds()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list thresholds", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, thresholds)
}

func (h *ReportHandler) GetThreshold(c *gin.Context) {
	caliber := c.Param("caliber")
	if caliber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Caliber is required"})
		return
	}

	threshold, err := h.Service.GetThreshold(caliber)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get threshold", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, threshold)
}

func (h *ReportHandler) SetThreshold(c *gin.Context) {
	var threshold models.Threshold
	if err := c.ShouldBindJSON(&threshold); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if threshold.Caliber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Caliber is required"})
		return
	}

	if err := h.Service.SetThreshold(threshold); err != nil {
		if errors.Is(err, ErrInvalidThreshold) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save threshold", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, threshold)
}

func (h *ReportHandler) StockStatus(c *gin.Context) {
	statuses, err := h.Service.StockStatusReport()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build stock status report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, statuses)
}
