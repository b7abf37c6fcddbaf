package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusDraft       ContractStatus = "draft"
	ContractStatusPending     ContractStatus = "pending"
	ContractStatusPendingSign ContractStatus = "pending_sign"
	ContractStatusSigned      ContractStatus = "signed"
	ContractStatusExpired     ContractStatus = "expired"
	ContractStatusCancelled   ContractStatus = "cancelled"
)

// Terminal reports whether no transition leaves s
func (s ContractStatus) Terminal() bool {
	switch s {
	case ContractStatusSigned, ContractStatusExpired, ContractStatusCancelled:
		return true
	}
	return false
}

// Signable reports whether a sign call is accepted in status s
func (s ContractStatus) Signable() bool {
	return s == ContractStatusPending || s == ContractStatusPendingSign
}

// Contract is a concrete instance issued from a template. The rendered body
// and the variable values are snapshots taken at issuance and never change,
// even if the source template is edited afterwards.
type Contract struct {
	ID             uuid.UUID      `json:"id"`
	Code           string         `json:"code"`
	SKU            string         `json:"sku"`
	TemplateID     uuid.UUID      `json:"templateId"`
	VariableValues VariableValues `json:"variableValues"`
	RenderedBody   string         `json:"renderedBody"`
	Status         ContractStatus `json:"status"`
	AccessToken    string         `json:"-"` // bearer credential, exposed only at issuance
	SignedByName   null.String    `json:"signedByName,omitempty"`
	SignedByEmail  null.String    `json:"signedByEmail,omitempty"`
	SignedAt       null.Time      `json:"signedAt,omitempty"`
	RelatedType    null.String    `json:"relatedType,omitempty"`
	RelatedID      null.String    `json:"relatedId,omitempty"`
	CancelReason   null.String    `json:"cancelReason,omitempty"`
	ExpiresAt      null.Time      `json:"expiresAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// EffectiveStatus is the status as of now. A pending_sign contract whose
// deadline has passed reads as expired even before the sweep persists it.
// Terminal stored statuses are always returned as-is.
func (c *Contract) EffectiveStatus(now time.Time) ContractStatus {
	if c.Status == ContractStatusPendingSign && c.ExpiresAt.Valid && !now.Before(c.ExpiresAt.Time) {
		return ContractStatusExpired
	}
	return c.Status
}

// IsExpired reports whether the contract deadline has passed without a signature
func (c *Contract) IsExpired(now time.Time) bool {
	return c.EffectiveStatus(now) == ContractStatusExpired
}

// Deletable reports whether deletion preserves the audit trail
func (c *Contract) Deletable() bool {
	return c.Status == ContractStatusDraft || c.Status == ContractStatusCancelled
}

// ContractFilter narrows contract list queries
type ContractFilter struct {
	Status      ContractStatus
	SKU         string
	TemplateID  uuid.UUID
	RelatedType string
	RelatedID   string
	Limit       int
	Offset      int
}
