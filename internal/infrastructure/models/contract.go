package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contract struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code           string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SKU            string    `gorm:"type:varchar(100);not null;index"`
	TemplateID     uuid.UUID `gorm:"type:uuid;not null;index"`
	VariableValues string    `gorm:"type:jsonb;not null"` // JSON-encoded VariableValues snapshot
	RenderedBody   string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(50);not null;index"`
	AccessToken    string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	SignedByName   string    `gorm:"type:varchar(255)"`
	SignedByEmail  string    `gorm:"type:varchar(255)"`
	SignedAt       *time.Time
	RelatedType    string `gorm:"type:varchar(100);index:idx_contracts_related"`
	RelatedID      string `gorm:"type:varchar(100);index:idx_contracts_related"`
	CancelReason   string `gorm:"type:text"`
	ExpiresAt      *time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Contract) TableName() string {
	return "contracts"
}
