package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a JSON-encoded list column (service steps, requirements).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Service is an administrator-maintained definition of a city service
// (business permit, barangay clearance, ...) and its ordered steps.
type Service struct {
	ServiceKey     string     `gorm:"primaryKey;column:service_key;size:100" json:"service_key"`
	Title          string     `gorm:"column:title" json:"title"`
	Subtitle       *string    `gorm:"column:subtitle" json:"subtitle,omitempty"`
	Description    *string    `gorm:"column:description" json:"description,omitempty"`
	Requirements   StringList `gorm:"column:requirements;type:json" json:"requirements"`
	Steps          StringList `gorm:"column:steps;type:json" json:"steps"`
	StepDetails    StringList `gorm:"column:step_details;type:json" json:"step_details"`
	AdditionalInfo *string    `gorm:"column:additional_info" json:"additional_info,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TotalSteps reports the number of steps, never less than one. A service
// with no defined steps behaves as a single implicit step so progress
// arithmetic never divides by zero.
func (s *Service) TotalSteps() int {
	if len(s.Steps) == 0 {
		return 1
	}
	return len(s.Steps)
}

// StepDetail returns the description for a step, or empty when the
// step_details list is shorter than steps.
func (s *Service) StepDetail(index int) string {
	if index < 0 || index >= len(s.StepDetails) {
		return ""
	}
	return s.StepDetails[index]
}

func (Service) TableName() string {
	return "services"
}
