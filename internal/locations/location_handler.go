package locations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AsonyaGh/Bina/pkg/auditlog"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

type LocationHandler struct {
	Repository *LocationRepository
	AuditLog   *auditlog.Auditlog
}

func NewLocationHandler(r *LocationRepository, a *auditlog.Auditlog) *LocationHandler {
	return &LocationHandler{Repository: r, AuditLog: a}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/locations", h.GetLocations)
	router.POST("/locations", security.RequireRole(roles.Admin), h.CreateLocation)
	router.PATCH("/locations/:id", security.RequireRole(roles.Admin), h.UpdateLocation)
	router.DELETE("/locations/:id", security.RequireRole(roles.Admin), h.RemoveLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Repository.GetLocations()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	locationType, err := metadata.NewLocationType(req.Type)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location type", "details": err.Error()})
		return
	}

	location := models.Location{
		Name:    req.Name,
		Type:    locationType,
		Address: req.Address,
	}

	if err := h.Repository.PersistLocation(&location); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert location, name not unique", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert location"})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("create", actor.UserID, "Created location "+location.Name, &location)

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	location, err := h.Repository.UpdateLocation(c.Param("id"), req)
	if err != nil {
		switch {
		case custom_error.IsNotFound(err):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		case custom_error.IsValidation(err):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update location", "details": err.Error()})
		}
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("update", actor.UserID, "Updated location "+location.Name, location)

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	locationID := c.Param("id")

	if err := h.Repository.RemoveLocation(locationID); err != nil {
		switch {
		case custom_error.IsNotFound(err):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		case custom_error.IsValidation(err):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete location", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete location", "details": err.Error()})
		}
		return
	}

	actor, _ := security.ActorFromContext(c)
	location := models.Location{ID: locationID}
	go h.AuditLog.Log("delete", actor.UserID, "Deleted location "+locationID, &location)

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
