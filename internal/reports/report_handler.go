package reports

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

type ReportHandler struct {
	Repository *ReportRepository
}

func NewReportHandler(r *ReportRepository) *ReportHandler {
	return &ReportHandler{Repository: r}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reportViewers := security.RequireRole(roles.Admin, roles.WarehouseManager, roles.BranchManager)
	router.GET("/reports/stock", reportViewers, h.GetStockSummary)
	router.GET("/reports/sales", reportViewers, h.GetSalesSummary)
}

func (h *ReportHandler) GetStockSummary(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.Repository.GetStockSummary(actor.Scope())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not build stock report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSalesSummary defaults to the last 30 days; from/to accept YYYY-MM-DD.
func (h *ReportHandler) GetSalesSummary(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		// inclusive end date
		to = parsed.AddDate(0, 0, 1)
	}

	rows, err := h.Repository.GetSalesSummary(actor.Scope(), from, to)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not build sales report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}
