package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a repair/shopping client. Name and phone are the
// only hard requirements; everything else is optional billing detail.
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string         `gorm:"type:varchar(50);not null;index" json:"phone"`
	Email       string         `gorm:"type:varchar(255)" json:"email"`
	Address     string         `gorm:"type:text" json:"address"`
	GSTNumber   string         `gorm:"type:varchar(50)" json:"gst_number"`
	CompanyName string         `gorm:"type:varchar(255)" json:"company_name"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
