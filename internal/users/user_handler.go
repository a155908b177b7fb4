package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/AsonyaGh/Bina/pkg/auditlog"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
	"github.com/AsonyaGh/Bina/pkg/security"
)

// LocationDirectory verifies location assignments against real locations.
type LocationDirectory interface {
	GetLocation(locationID string) (*models.Location, error)
}

type UserHandler struct {
	Repository *UserRepository
	Locations  LocationDirectory
	AuditLog   *auditlog.Auditlog
}

func NewUserHandler(r *UserRepository, locations LocationDirectory, a *auditlog.Auditlog) *UserHandler {
	return &UserHandler{Repository: r, Locations: locations, AuditLog: a}
}

// User administration is admin-only across the board.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", security.RequireRole(roles.Admin), h.GetUsers)
	router.GET("/users/:id", security.RequireRole(roles.Admin), h.GetUser)
	router.POST("/users", security.RequireRole(roles.Admin), h.CreateUser)
	router.PATCH("/users/:id", security.RequireRole(roles.Admin), h.UpdateUser)
	router.DELETE("/users/:id", security.RequireRole(roles.Admin), h.DeactivateUser)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Repository.GetUser(c.Param("id"))
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	role, err := roles.NewRole(req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid role", "details": err.Error()})
		return
	}

	var locationID *string
	if role.RequiresLocation() {
		if req.LocationID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Role " + string(role) + " requires a location assignment"})
			return
		}
		if _, err := h.Locations.GetLocation(req.LocationID); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown location", "details": err.Error()})
			return
		}
		locationID = &req.LocationID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		LocationID:   locationID,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := h.Repository.PersistUser(&user); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert user"})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("create", actor.UserID, "Created user "+user.Email, &user)

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	changes := models.UserChanges{
		Name:       req.Name,
		LocationID: req.LocationID,
		IsActive:   req.IsActive,
	}

	if req.Role != nil {
		role, err := roles.NewRole(*req.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid role", "details": err.Error()})
			return
		}
		roleValue := string(role)
		changes.Role = &roleValue
	}

	if req.LocationID != nil && *req.LocationID != "" {
		if _, err := h.Locations.GetLocation(*req.LocationID); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown location", "details": err.Error()})
			return
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}
		hashValue := string(hash)
		changes.PasswordHash = &hashValue
	}

	if !changes.HasChanges() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No changes submitted"})
		return
	}

	user, err := h.Repository.UpdateUser(c.Param("id"), changes)
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update user", "details": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("update", actor.UserID, "Updated user "+user.Email, user)

	c.JSON(http.StatusOK, user)
}

// DeactivateUser disables the account instead of deleting it: past
// transfers, sales and audit entries keep pointing at a real user.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	inactive := false
	user, err := h.Repository.UpdateUser(c.Param("id"), models.UserChanges{IsActive: &inactive})
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate user", "details": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.AuditLog.Log("delete", actor.UserID, "Deactivated user "+user.Email, user)

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
