package models

import "time"

type Ordinance struct {
	OrdinanceID     int        `gorm:"primaryKey;column:ordinance_id" json:"ordinance_id"`
	OrdinanceNumber string     `gorm:"column:ordinance_number;size:60;uniqueIndex" json:"ordinance_number"`
	Title           string     `gorm:"column:title" json:"title"`
	Category        string     `gorm:"column:category" json:"category"`
	Year            int        `gorm:"column:year" json:"year"`
	Description     *string    `gorm:"column:description" json:"description,omitempty"`
	FileURL         *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Ordinance) TableName() string {
	return "ordinances"
}
