package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

const defaultLogLimit = 100

type AuditLogHandler struct {
	Repository *AuditLogRepository
}

func NewAuditLogHandler(r *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs", security.RequireRole(roles.Admin), h.GetLogs)
	router.GET("/logs/:resource_type/:resource_id", security.RequireRole(roles.Admin), h.GetResourceLog)
}

func (h *AuditLogHandler) GetLogs(c *gin.Context) {
	limit := uint(defaultLogLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = uint(parsed)
	}

	logs, err := h.Repository.GetLogs(limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	logs, err := h.Repository.GetResourceLog(c.Param("resource_id"), c.Param("resource_type"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list resource logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
