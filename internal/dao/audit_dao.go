package dao

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

// AuditDAO handles database operations for audit records
type AuditDAO struct {
	db *sqlx.DB
}

// NewAuditDAO creates a new AuditDAO
func NewAuditDAO(db *sqlx.DB) *AuditDAO {
	return &AuditDAO{db: db}
}

// Insert stores an audit record
func (dao *AuditDAO) Insert(ctx context.Context, record *models.AuditRecord) error {
	query := `
		INSERT INTO AUDIT (ID, CORRELATION_ID, AUDIT_TYPE, TITLE, MESSAGE, DATA, LOG_LEVEL, CREATED_BY, CREATED_DATE)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		record.ID,
		record.CorrelationID,
		record.AuditType,
		record.Title,
		record.Message,
		record.Data,
		record.LogLevel,
		record.CreatedBy,
		record.CreatedDate,
	)

	return classifyError("insert audit record", err)
}
