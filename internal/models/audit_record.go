package models

import "time"

// AuditRecord is a structured audit log entry
type AuditRecord struct {
	ID            string    `json:"id" db:"ID"`
	CorrelationID string    `json:"correlationId" db:"CORRELATION_ID"`
	AuditType     string    `json:"auditType" db:"AUDIT_TYPE"`
	Title         string    `json:"title" db:"TITLE"`
	Message       string    `json:"message" db:"MESSAGE"`
	Data          *string   `json:"data,omitempty" db:"DATA"`
	LogLevel      string    `json:"logLevel" db:"LOG_LEVEL"`
	CreatedBy     string    `json:"createdBy" db:"CREATED_BY"`
	CreatedDate   time.Time `json:"createdDate" db:"CREATED_DATE"`
}
