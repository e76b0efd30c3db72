package importer

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/lance0/RubyRidge/pkg/security"

	"github.com/gin-gonic/gin"
)

type CsvHandler struct {
	Service *CsvService
}

func NewCsvHandler(service *CsvService) *CsvHandler {
	return &CsvHandler{Service: service}
}

func (h *CsvHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/stocks/export/csv", h.ExportCsv)
	router.GET("/stocks/export/template", h.ExportTemplate)
	router.POST("/stocks/import/csv", h.ImportCsv)
}

func (h *CsvHandler) ExportCsv(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Service.Export(&buf); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to export inventory", "details": err.Error()})
		return
	}

	filename := "ammo-inventory-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *CsvHandler) ExportTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Service.Template(&buf); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ammo-import-template.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *CsvHandler) ImportCsv(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "CSV file is required in the 'file' field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to open uploaded file", "details": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.Service.Import(file, security.OptionalUserID(c))
	if err != nil {
		if errors.Is(err, ErrInvalidHeader) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Import failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
