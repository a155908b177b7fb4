package sales

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/pkg/auditlog"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

type SaleHandler struct {
	service  *SaleService
	AuditLog *auditlog.Auditlog
}

func NewHandler(service *SaleService, a *auditlog.Auditlog) *SaleHandler {
	return &SaleHandler{service: service, AuditLog: a}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sales", h.GetSales)
	router.GET("/sales/:id", h.GetSale)
	router.POST("/sales",
		security.RequireRole(roles.Admin, roles.BranchManager, roles.SalesOfficer), h.RecordSale)
	router.PATCH("/sales/:id",
		security.RequireRole(roles.Admin, roles.BranchManager, roles.SalesOfficer), h.UpdateSale)
	router.DELETE("/sales/:id",
		security.RequireRole(roles.Admin, roles.BranchManager, roles.SalesOfficer), h.DeleteSale)
}

func (h *SaleHandler) GetSales(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sales, err := h.service.GetSales(actor)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list sales", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) GetSale(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.service.GetSale(actor, c.Param("id"))
	if err != nil {
		abortWithSaleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req models.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)

	sale, err := h.service.Record(actor, req)
	if err != nil {
		abortWithSaleError(c, err)
		return
	}

	go h.AuditLog.Log("create", actor.UserID, "Recorded sale of "+sale.ChassisNumber, sale)

	c.JSON(http.StatusCreated, sale)
}

func (h *SaleHandler) UpdateSale(c *gin.Context) {
	var req models.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)

	sale, err := h.service.Update(actor, c.Param("id"), req)
	if err != nil {
		abortWithSaleError(c, err)
		return
	}

	go h.AuditLog.Log("update", actor.UserID, "Updated sale of "+sale.ChassisNumber, sale)

	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	actor, _ := security.ActorFromContext(c)

	sale, err := h.service.Delete(actor, c.Param("id"))
	if err != nil {
		abortWithSaleError(c, err)
		return
	}

	go h.AuditLog.Log("delete", actor.UserID, "Deleted sale of "+sale.ChassisNumber, sale)

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}

func abortWithSaleError(c *gin.Context, err error) {
	switch {
	case custom_error.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case custom_error.IsPrecondition(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case custom_error.IsForbidden(err):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case custom_error.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Sale operation failed", "details": err.Error()})
	}
}
