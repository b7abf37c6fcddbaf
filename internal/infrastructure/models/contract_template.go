package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Variables   string    `gorm:"type:jsonb;not null"` // JSON-encoded []VariableDef
	Body        string    `gorm:"type:text;not null"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ContractTemplate) TableName() string {
	return "contract_templates"
}
