package models

import "time"

// Document review lifecycle for an application's final proof document.
// Distinct from step progress: an application walks its steps while the
// document stays in draft, then the upload moves it to pending.
const (
	DocumentStatusDraft    = "draft"
	DocumentStatusPending  = "pending"
	DocumentStatusVerified = "verified"
	DocumentStatusRejected = "rejected"
)

// Application is a citizen's request for one city service. At most one row
// exists per (user_id, service_key); restarts recycle the row instead of
// creating a new one.
type Application struct {
	ID              string     `gorm:"primaryKey;column:id;size:36" json:"application_id"`
	UserID          int        `gorm:"column:user_id;uniqueIndex:idx_app_user_service" json:"user_id"`
	ServiceKey      string     `gorm:"column:service_key;size:100;uniqueIndex:idx_app_user_service" json:"service_key"`
	ReferenceNumber string     `gorm:"column:reference_number;size:40" json:"reference_number"`
	StepIndex       int        `gorm:"column:step_index" json:"step_index"`
	ProgressPercent int        `gorm:"column:progress_percent" json:"progress_percent"`
	DocumentStatus  string     `gorm:"column:document_status;size:16;default:draft" json:"document_status"`
	DocumentURL     *string    `gorm:"column:document_url" json:"document_url,omitempty"`
	AdminNotes      *string    `gorm:"column:admin_notes" json:"admin_notes,omitempty"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Service Service `gorm:"foreignKey:ServiceKey;references:ServiceKey" json:"service,omitempty"`
}

// IsTerminal reports whether the document review reached a final state.
// Only a forced restart moves an application out of a terminal state.
func (a *Application) IsTerminal() bool {
	return a.DocumentStatus == DocumentStatusVerified || a.DocumentStatus == DocumentStatusRejected
}

// IsZeroState reports whether the row still holds a fresh, untouched start.
func (a *Application) IsZeroState() bool {
	return a.StepIndex == 0 && a.ProgressPercent == 0 &&
		a.DocumentStatus == DocumentStatusDraft && a.DocumentURL == nil
}

func (Application) TableName() string {
	return "applications"
}
