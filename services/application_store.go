package services

import (
	"errors"
	"time"

	"citizen-portal-api/models"

	"gorm.io/gorm"
)

// ApplicationStore is the persistence boundary for application rows.
// The gorm implementation is the production store; tests may substitute
// their own.
type ApplicationStore interface {
	FindActive(userID int, serviceKey string) (*models.Application, error)
	FindOwned(id string, userID int) (*models.Application, error)
	FindByID(id string) (*models.Application, error)
	Create(app *models.Application) error
	Updates(app *models.Application, fields map[string]interface{}) error
}

type gormApplicationStore struct {
	db *gorm.DB
}

// NewApplicationStore builds the gorm-backed store.
func NewApplicationStore(db *gorm.DB) ApplicationStore {
	return &gormApplicationStore{db: db}
}

// FindActive returns the single row for (user, service), or nil when none exists.
func (s *gormApplicationStore) FindActive(userID int, serviceKey string) (*models.Application, error) {
	var app models.Application
	err := s.db.Where("user_id = ? AND service_key = ?", userID, serviceKey).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FindOwned returns the row only when it belongs to the given user.
// A row owned by somebody else is reported as not found, never as forbidden,
// so callers cannot probe for foreign application ids.
func (s *gormApplicationStore) FindOwned(id string, userID int) (*models.Application, error) {
	var app models.Application
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *gormApplicationStore) FindByID(id string) (*models.Application, error) {
	var app models.Application
	err := s.db.Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *gormApplicationStore) Create(app *models.Application) error {
	return s.db.Create(app).Error
}

// Updates applies a partial mutation in one statement and always refreshes
// updated_at, then mirrors the change back into the struct.
func (s *gormApplicationStore) Updates(app *models.Application, fields map[string]interface{}) error {
	now := time.Now()
	fields["updated_at"] = now

	if err := s.db.Model(&models.Application{}).Where("id = ?", app.ID).Updates(fields).Error; err != nil {
		return err
	}

	applyFields(app, fields)
	app.UpdatedAt = now
	return nil
}

// applyFields keeps the in-memory row consistent with what was persisted.
func applyFields(app *models.Application, fields map[string]interface{}) {
	for column, value := range fields {
		switch column {
		case "step_index":
			app.StepIndex = value.(int)
		case "progress_percent":
			app.ProgressPercent = value.(int)
		case "document_status":
			app.DocumentStatus = value.(string)
		case "document_url":
			app.DocumentURL = toStringPtr(value)
		case "admin_notes":
			app.AdminNotes = toStringPtr(value)
		case "completed_at":
			app.CompletedAt = toTimePtr(value)
		case "reference_number":
			app.ReferenceNumber = value.(string)
		}
	}
}

func toStringPtr(value interface{}) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case *string:
		return v
	}
	return nil
}

func toTimePtr(value interface{}) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		return v
	}
	return nil
}
