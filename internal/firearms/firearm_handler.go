package firearms

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lance0/RubyRidge/pkg/auditlog"
	"github.com/lance0/RubyRidge/pkg/models"
	"github.com/lance0/RubyRidge/pkg/security"

	"github.com/gin-gonic/gin"
)

type FirearmHandler struct {
	Repository *FirearmRepository
	AuditLog   auditlog.Sink
}

func NewHandler(r *FirearmRepository, a auditlog.Sink) *FirearmHandler {
	return &FirearmHandler{
		Repository: r,
		AuditLog:   a,
	}
}

func (h *FirearmHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/firearms", h.ListFirearms)
	router.POST("/firearms", h.CreateFirearm)
	router.GET("/firearms/:id", h.GetFirearm)
	router.PATCH("/firearms/:id", h.UpdateFirearm)
	router.DELETE("/firearms/:id", h.DeleteFirearm)
}

func (h *FirearmHandler) CreateFirearm(c *gin.Context) {
	var req FirearmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	firearm, err := h.Repository.PersistFirearm(req, security.OptionalUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add firearm", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{"name": firearm.Name, "msg": "Added firearm to GunSafe"},
		firearm,
	)

	c.JSON(http.StatusCreated, firearm)
}

func (h *FirearmHandler) ListFirearms(c *gin.Context) {
	userID := security.OptionalUserID(c)

	firearms, err := h.Repository.GetFirearms(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list firearms", "details": err.Error()})
		return
	}

	calibers, err := h.Repository.GetFilterValues("caliber", userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list calibers", "details": err.Error()})
		return
	}

	makes, err := h.Repository.GetFilterValues("make", userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list makes", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"firearms": firearms,
		"calibers": calibers,
		"makes":    makes,
	})
}

func (h *FirearmHandler) GetFirearm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid firearm ID"})
		return
	}

	firearm, err := h.Repository.GetFirearm(id)
	if err != nil {
		if errors.Is(err, ErrFirearmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Firearm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get firearm", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, firearm)
}

func (h *FirearmHandler) UpdateFirearm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid firearm ID"})
		return
	}

	var req UpdateFirearmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !req.HasChanges() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No changes provided"})
		return
	}

	if err := h.Repository.UpdateFirearm(id, req); err != nil {
		if errors.Is(err, ErrFirearmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Firearm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update firearm", "details": err.Error()})
		return
	}

	firearm, err := h.Repository.GetFirearm(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated firearm", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, firearm)
}

func (h *FirearmHandler) DeleteFirearm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid firearm ID"})
		return
	}

	if err := h.Repository.DeleteFirearm(id); err != nil {
		switch {
		case errors.Is(err, ErrFirearmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Firearm not found"})
		case errors.Is(err, ErrFirearmInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Firearm is referenced by range trip records"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete firearm", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		"delete",
		map[string]interface{}{"msg": "Removed firearm from GunSafe"},
		&models.Firearm{ID: id},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Firearm deleted successfully"})
}
