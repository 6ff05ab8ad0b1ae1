package models

import "time"

// Audit carries the who/when stamps every stored entity shares
type Audit struct {
	CreatedBy   string    `json:"createdBy" db:"CREATED_BY"`
	CreatedDate time.Time `json:"createdDate" db:"CREATED_DATE"`
	UpdatedBy   string    `json:"updatedBy" db:"UPDATED_BY"`
	UpdatedDate time.Time `json:"updatedDate" db:"UPDATED_DATE"`
}

// Entity is implemented by every persisted model
type Entity interface {
	GetID() string
	AuditInfo() *Audit
}
