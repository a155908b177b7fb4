package users

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AsonyaGh/Bina/internal/repository"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
)

type UserRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *UserRepository {
	return &UserRepository{repository: r}
}

var userColumns = []interface{}{
	"id", "name", "email", "role", "location_id", "password_hash", "is_active",
}

func (r *UserRepository) GetUsers() ([]models.User, error) {
	query := r.repository.GoquDBWrapper.
		From("users").
		Select(userColumns...).
		Order(goqu.I("name").Asc())

	var flatUsers []models.FlatUserRecord
	if err := query.Executor().ScanStructs(&flatUsers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	users := make([]models.User, 0, len(flatUsers))
	for i := range flatUsers {
		users = append(users, flatUsers[i].TransformToUser())
	}

	return users, nil
}

func (r *UserRepository) GetUser(userID string) (*models.User, error) {
	query := r.repository.GoquDBWrapper.
		From("users").
		Select(userColumns...).
		Where(goqu.Ex{"id": userID})

	var flatUser models.FlatUserRecord
	found, err := query.Executor().ScanStruct(&flatUser)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("user", userID)
	}

	user := flatUser.TransformToUser()
	return &user, nil
}

func (r *UserRepository) PersistUser(user *models.User) error {
	user.ID = "u_" + uuid.NewString()[:8]

	record := goqu.Record{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          user.Role,
		"password_hash": user.PasswordHash,
		"is_active":     user.IsActive,
	}
	if user.LocationID != nil {
		record["location_id"] = *user.LocationID
	}

	query := r.repository.GoquDBWrapper.Insert("users").Rows(record)

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("email already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateUser(userID string, changes models.UserChanges) (*models.User, error) {
	record := goqu.Record{}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}
	if changes.LocationID != nil {
		if *changes.LocationID == "" {
			record["location_id"] = nil
		} else {
			record["location_id"] = *changes.LocationID
		}
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.IsActive != nil {
		record["is_active"] = *changes.IsActive
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(record).
		Where(goqu.Ex{"id": userID}).
		Returning(userColumns...)

	var flatUser models.FlatUserRecord
	found, err := query.Executor().ScanStruct(&flatUser)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("email already registered", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("user", userID)
	}

	user := flatUser.TransformToUser()
	return &user, nil
}
