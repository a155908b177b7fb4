package motorcycles

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/internal/repository"
	"github.com/AsonyaGh/Bina/pkg/auditlog"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

// LocationDirectory resolves location ids to their records so import can
// check the target exists and derive the initial status from its type.
type LocationDirectory interface {
	GetLocation(locationID string) (*models.Location, error)
}

type MotorcycleHandler struct {
	r          *MotorcycleRepository
	repository *repository.Repository
	locations  LocationDirectory
	AuditLog   *auditlog.Auditlog
}

func NewMotorcycleHandler(repo *repository.Repository, r *MotorcycleRepository, locations LocationDirectory, a *auditlog.Auditlog) *MotorcycleHandler {
	return &MotorcycleHandler{
		r:          r,
		repository: repo,
		locations:  locations,
		AuditLog:   a,
	}
}

func (h *MotorcycleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/motorcycles", h.GetMotorcycles)
	router.GET("/motorcycles/:chassis", h.GetMotorcycle)
	router.POST("/motorcycles", security.RequireRole(roles.Admin, roles.WarehouseManager), h.ImportMotorcycle)
	router.POST("/motorcycles/bulk", security.RequireRole(roles.Admin, roles.WarehouseManager), h.BulkImportMotorcycles)
	router.PATCH("/motorcycles/:chassis", security.RequireRole(roles.Admin, roles.WarehouseManager), h.UpdateMotorcycle)
	router.DELETE("/motorcycles/:chassis", security.RequireRole(roles.Admin), h.RemoveMotorcycle)
}

func (h *MotorcycleHandler) GetMotorcycles(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	scope := actor.Scope()
	if scope == "" {
		// admins may narrow the unrestricted view
		scope = c.Query("location_id")
	}

	bikes, err := h.r.GetMotorcycles(scope)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list motorcycles", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bikes)
}

func (h *MotorcycleHandler) GetMotorcycle(c *gin.Context) {
	bike, err := h.r.GetMotorcycle(c.Param("chassis"))
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Motorcycle not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get motorcycle", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bike)
}

func (h *MotorcycleHandler) ImportMotorcycle(c *gin.Context) {
	var req models.ImportMotorcycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)

	bike, err := h.buildImport(actor, req.ChassisNumber, req.Type, req.Color, req.LocationID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid import", "details": err.Error()})
		return
	}

	if err := h.r.PersistMotorcycle(bike); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Chassis number already registered"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to import motorcycle"})
		return
	}

	go h.AuditLog.Log("create", actor.UserID,
		fmt.Sprintf("Imported motorcycle %s", bike.ChassisNumber), bike)

	c.JSON(http.StatusCreated, bike)
}

func (h *MotorcycleHandler) BulkImportMotorcycles(c *gin.Context) {
	var req models.BulkImportMotorcycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)

	bikes := make([]models.Motorcycle, 0, len(req.ChassisNumbers))
	for _, chassisNumber := range req.ChassisNumbers {
		bike, err := h.buildImport(actor, chassisNumber, req.Type, req.Color, req.LocationID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid import", "details": err.Error()})
			return
		}
		bikes = append(bikes, *bike)
	}

	err := h.repository.WithTransaction(func(tx *goqu.TxDatabase) error {
		return h.r.PersistMotorcycleBatch(tx, bikes)
	})
	if err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Chassis number already registered", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to import motorcycles"})
		return
	}

	for i := range bikes {
		go h.AuditLog.Log("create", actor.UserID,
			fmt.Sprintf("Imported motorcycle %s", bikes[i].ChassisNumber), &bikes[i])
	}

	c.JSON(http.StatusCreated, bikes)
}

func (h *MotorcycleHandler) UpdateMotorcycle(c *gin.Context) {
	var req models.UpdateMotorcycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	bike, err := h.r.UpdateDetails(c.Param("chassis"), req)
	if err != nil {
		switch {
		case custom_error.IsNotFound(err):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Motorcycle not found"})
		case custom_error.IsValidation(err):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update motorcycle", "details": err.Error()})
		}
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("update", actor.UserID,
		fmt.Sprintf("Updated motorcycle %s", bike.ChassisNumber), bike)

	c.JSON(http.StatusOK, bike)
}

func (h *MotorcycleHandler) RemoveMotorcycle(c *gin.Context) {
	chassisNumber := c.Param("chassis")

	if err := h.r.SoftDelete(chassisNumber); err != nil {
		if custom_error.IsPrecondition(err) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete motorcycle", "details": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	bike := models.Motorcycle{ChassisNumber: chassisNumber}
	go h.AuditLog.Log("delete", actor.UserID,
		fmt.Sprintf("Retired motorcycle %s", chassisNumber), &bike)

	c.JSON(http.StatusOK, gin.H{"message": "Motorcycle deleted successfully"})
}

// buildImport validates the import target and derives the initial status
// from the location's type. Warehouse managers may only import into their
// own warehouse.
func (h *MotorcycleHandler) buildImport(actor models.Actor, chassisNumber, bikeType, color, locationID string) (*models.Motorcycle, error) {
	if actor.Role == roles.WarehouseManager && locationID != actor.LocationID {
		return nil, custom_error.NewValidation("cannot import stock into another location")
	}

	location, err := h.locations.GetLocation(locationID)
	if err != nil {
		return nil, err
	}

	bike := &models.Motorcycle{
		ChassisNumber:     chassisNumber,
		Type:              bikeType,
		Color:             color,
		Status:            location.Type.ExpectedStatus(),
		CurrentLocationID: location.ID,
		ImportDate:        time.Now(),
	}

	if err := bike.Validate(); err != nil {
		return nil, err
	}

	return bike, nil
}
