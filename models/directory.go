package models

import "time"

type Official struct {
	OfficialID    int        `gorm:"primaryKey;column:official_id" json:"official_id"`
	Name          string     `gorm:"column:name" json:"name"`
	Position      string     `gorm:"column:position" json:"position"`
	Office        string     `gorm:"column:office" json:"office"`
	ContactNumber *string    `gorm:"column:contact_number" json:"contact_number,omitempty"`
	Email         *string    `gorm:"column:email" json:"email,omitempty"`
	PhotoURL      *string    `gorm:"column:photo_url" json:"photo_url,omitempty"`
	DisplayOrder  int        `gorm:"column:display_order" json:"display_order"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Department struct {
	DepartmentID  int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	Name          string     `gorm:"column:name" json:"name"`
	Description   *string    `gorm:"column:description" json:"description,omitempty"`
	Location      *string    `gorm:"column:location" json:"location,omitempty"`
	HeadName      *string    `gorm:"column:head_name" json:"head_name,omitempty"`
	ContactNumber *string    `gorm:"column:contact_number" json:"contact_number,omitempty"`
	Email         *string    `gorm:"column:email" json:"email,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type EmergencyContact struct {
	ContactID   int        `gorm:"primaryKey;column:contact_id" json:"contact_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Category    string     `gorm:"column:category" json:"category"` // police|fire|medical|disaster|utility
	Hotline     string     `gorm:"column:hotline" json:"hotline"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Official) TableName() string {
	return "officials"
}

func (Department) TableName() string {
	return "departments"
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}
