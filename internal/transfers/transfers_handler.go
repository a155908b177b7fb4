package transfers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/pkg/auditlog"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

type TransferHandler struct {
	service  *TransferService
	AuditLog *auditlog.Auditlog
}

func NewHandler(service *TransferService, a *auditlog.Auditlog) *TransferHandler {
	return &TransferHandler{service: service, AuditLog: a}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/transfers", h.GetTransfers)
	router.GET("/transfers/:id", h.GetTransfer)
	router.POST("/transfers",
		security.RequireRole(roles.Admin, roles.WarehouseManager, roles.BranchManager), h.CreateTransfer)
	router.POST("/transfers/:id/approve",
		security.RequireRole(roles.Admin, roles.WarehouseManager), h.ApproveTransfer)
	router.POST("/transfers/:id/receive",
		security.RequireRole(roles.Admin, roles.WarehouseManager, roles.BranchManager), h.ReceiveTransfer)
	router.POST("/transfers/:id/cancel",
		security.RequireRole(roles.Admin, roles.WarehouseManager, roles.BranchManager), h.CancelTransfer)
}

func (h *TransferHandler) GetTransfers(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transfers, err := h.service.GetTransfers(actor)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list transfers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) GetTransfer(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transfer, err := h.service.GetTransfer(actor, c.Param("id"))
	if err != nil {
		abortWithTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)

	transfer, err := h.service.Initiate(actor, req)
	if err != nil {
		abortWithTransferError(c, err)
		return
	}

	go h.AuditLog.Log("create", actor.UserID, "Created transfer "+transfer.Reference, transfer)

	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	actor, _ := security.ActorFromContext(c)

	transfer, err := h.service.Approve(actor, c.Param("id"))
	if err != nil {
		abortWithTransferError(c, err)
		return
	}

	go h.AuditLog.Log("approve", actor.UserID, "Approved transfer "+transfer.Reference, transfer)

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) ReceiveTransfer(c *gin.Context) {
	actor, _ := security.ActorFromContext(c)

	transfer, err := h.service.Receive(actor, c.Param("id"))
	if err != nil {
		abortWithTransferError(c, err)
		return
	}

	go h.AuditLog.Log("receive", actor.UserID, "Received transfer "+transfer.Reference, transfer)

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	actor, _ := security.ActorFromContext(c)

	transfer, err := h.service.Cancel(actor, c.Param("id"))
	if err != nil {
		abortWithTransferError(c, err)
		return
	}

	go h.AuditLog.Log("cancel", actor.UserID, "Cancelled transfer "+transfer.Reference, transfer)

	c.JSON(http.StatusOK, transfer)
}

func abortWithTransferError(c *gin.Context, err error) {
	switch {
	case custom_error.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case custom_error.IsPrecondition(err):
		// stale selection or a concurrent actor won; client should refresh
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case custom_error.IsForbidden(err):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case custom_error.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Transfer operation failed", "details": err.Error()})
	}
}
