package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UpcHandler struct {
	Service *UpcService
}

func NewHandler(service *UpcService) *UpcHandler {
	return &UpcHandler{Service: service}
}

func (h *UpcHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/catalog/upc/:upc", h.LookupUpc)
}

func (h *UpcHandler) LookupUpc(c *gin.Context) {
	upc := c.Param("upc")
	if upc == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UPC is required"})
		return
	}

	data, err := h.Service.Lookup(c.Request.Context(), upc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to look up UPC", "details": err.Error()})
		return
	}

	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "UPC not found in database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
