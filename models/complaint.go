package models

import "time"

// Complaint lifecycle states.
const (
	ComplaintStatusInProgress = "in_progress"
	ComplaintStatusInReview   = "in_review"
	ComplaintStatusResolved   = "resolved"
	ComplaintStatusRejected   = "rejected"
)

// Complaint is a citizen report tracked by a public GOV-YYYY-NNNN code.
// Anonymous complaints carry no submitter identity.
type Complaint struct {
	ComplaintID  int        `gorm:"primaryKey;column:complaint_id" json:"complaint_id"`
	TrackingCode string     `gorm:"column:tracking_code;size:20;uniqueIndex" json:"tracking_code"`
	UserID       *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	Category     string     `gorm:"column:category" json:"category"`
	Subcategory  string     `gorm:"column:subcategory" json:"subcategory"`
	Subject      string     `gorm:"column:subject;size:120" json:"subject"`
	Location     string     `gorm:"column:location" json:"location"`
	Description  string     `gorm:"column:description" json:"description"`
	Anonymous    bool       `gorm:"column:anonymous" json:"anonymous"`
	Name         *string    `gorm:"column:name" json:"name,omitempty"`
	Email        *string    `gorm:"column:email" json:"email,omitempty"`
	Phone        *string    `gorm:"column:phone" json:"phone,omitempty"`
	Status       string     `gorm:"column:status;size:16;default:in_progress" json:"status"`
	AdminNotes   *string    `gorm:"column:admin_notes" json:"admin_notes,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}
