package locations

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AsonyaGh/Bina/internal/repository"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
)

type LocationRepository struct {
	Repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

func (r *LocationRepository) GetLocations() ([]models.Location, error) {
	var locations = []models.Location{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "type", "address").
		From("locations").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) GetLocation(locationID string) (*models.Location, error) {
	var location models.Location
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "type", "address").
		From("locations").
		Where(goqu.Ex{"id": locationID})

	found, err := query.Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("location", locationID)
	}

	return &location, nil
}

func (r *LocationRepository) PersistLocation(location *models.Location) error {
	location.ID = "loc_" + uuid.NewString()[:8]

	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"id":      location.ID,
			"name":    location.Name,
			"type":    location.Type,
			"address": location.Address,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("location name already in use", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert location record: %w", err)
	}

	return nil
}

// UpdateLocation only touches name and address. Type is immutable: the
// transfer and sale engines derive expected motorcycle statuses from it.
func (r *LocationRepository) UpdateLocation(locationID string, req models.UpdateLocationRequest) (*models.Location, error) {
	updates := goqu.Record{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		return nil, custom_error.NewValidation("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("locations").
		Set(updates).
		Where(goqu.Ex{"id": locationID}).
		Returning("id", "name", "type", "address")

	var location models.Location
	found, err := query.Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("location", locationID)
	}

	return &location, nil
}

// RemoveLocation refuses while stock or staff still reference the location.
// The store has no foreign keys on location references (the TRANSIT
// sentinel is not a row), so the check lives here.
func (r *LocationRepository) RemoveLocation(locationID string) error {
	motorcycleCount, err := r.countReferences("motorcycles", "current_location_id", locationID)
	if err != nil {
		return err
	}
	if motorcycleCount > 0 {
		return custom_error.NewValidation("location %s still holds %d motorcycles", locationID, motorcycleCount)
	}

	userCount, err := r.countReferences("users", "location_id", locationID)
	if err != nil {
		return err
	}
	if userCount > 0 {
		return custom_error.NewValidation("location %s still has %d assigned users", locationID, userCount)
	}

	result, err := r.Repository.GoquDBWrapper.
		Delete("locations").
		Where(goqu.Ex{"id": locationID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("location", locationID)
	}

	return nil
}

func (r *LocationRepository) countReferences(table, column, locationID string) (int64, error) {
	var count int64
	query := r.Repository.GoquDBWrapper.
		From(table).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{column: locationID})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s references: %w", table, err)
	}

	return count, nil
}
