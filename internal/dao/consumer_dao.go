package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

const consumerColumns = `ID, NAME, ENTRA_ID, CONTACT_PERSON, CONTACT_EMAIL, CONTACT_TELEPHONE,
		CREATED_BY, CREATED_DATE, UPDATED_BY, UPDATED_DATE`

// ConsumerDAO handles database operations for consumers
type ConsumerDAO struct {
	db *sqlx.DB
}

// NewConsumerDAO creates a new ConsumerDAO
func NewConsumerDAO(db *sqlx.DB) *ConsumerDAO {
	return &ConsumerDAO{db: db}
}

// Insert stores a new consumer
func (dao *ConsumerDAO) Insert(ctx context.Context, consumer *models.Consumer) error {
	query := `
		INSERT INTO CONSUMER (` + consumerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		consumer.ID,
		consumer.Name,
		consumer.EntraID,
		consumer.ContactPerson,
		consumer.ContactEmail,
		consumer.ContactTelephone,
		consumer.CreatedBy,
		consumer.CreatedDate,
		consumer.UpdatedBy,
		consumer.UpdatedDate,
	)

	return classifyError("insert consumer", err)
}

// SelectAll returns every consumer
func (dao *ConsumerDAO) SelectAll(ctx context.Context) ([]*models.Consumer, error) {
	query := `SELECT ` + consumerColumns + ` FROM CONSUMER ORDER BY NAME ASC`

	var consumers []*models.Consumer
	if err := dao.db.SelectContext(ctx, &consumers, query); err != nil {
		return nil, classifyError("select consumers", err)
	}

	return consumers, nil
}

// SelectByID returns the consumer with id, or nil when there is none
func (dao *ConsumerDAO) SelectByID(ctx context.Context, id string) (*models.Consumer, error) {
	query := `SELECT ` + consumerColumns + ` FROM CONSUMER WHERE ID = ?`

	var consumer models.Consumer
	err := dao.db.GetContext(ctx, &consumer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("select consumer", err)
	}

	return &consumer, nil
}

// Update writes consumer back, provided nobody changed it since previousUpdatedDate
func (dao *ConsumerDAO) Update(ctx context.Context, consumer *models.Consumer, previousUpdatedDate time.Time) error {
	query := `
		UPDATE CONSUMER
		SET NAME = ?, ENTRA_ID = ?, CONTACT_PERSON = ?, CONTACT_EMAIL = ?, CONTACT_TELEPHONE = ?,
			UPDATED_BY = ?, UPDATED_DATE = ?
		WHERE ID = ? AND UPDATED_DATE = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		consumer.Name,
		consumer.EntraID,
		consumer.ContactPerson,
		consumer.ContactEmail,
		consumer.ContactTelephone,
		consumer.UpdatedBy,
		consumer.UpdatedDate,
		consumer.ID,
		previousUpdatedDate,
	)
	if err != nil {
		return classifyError("update consumer", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("update consumer", err)
	}

	return expectOneRow("update consumer", rowsAffected)
}

// Delete removes the consumer with id
func (dao *ConsumerDAO) Delete(ctx context.Context, id string) error {
	_, err := dao.db.ExecContext(ctx, `DELETE FROM CONSUMER WHERE ID = ?`, id)
	return classifyError("delete consumer", err)
}
