package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

const consumerAdoptionColumns = `ID, CONSUMER_ID, DECISION_ID, ADOPTION_DATE,
		CREATED_BY, CREATED_DATE, UPDATED_BY, UPDATED_DATE`

// ConsumerAdoptionDAO handles database operations for consumer adoptions
type ConsumerAdoptionDAO struct {
	db *sqlx.DB
}

// NewConsumerAdoptionDAO creates a new ConsumerAdoptionDAO
func NewConsumerAdoptionDAO(db *sqlx.DB) *ConsumerAdoptionDAO {
	return &ConsumerAdoptionDAO{db: db}
}

// Insert stores a new adoption; (CONSUMER_ID, DECISION_ID) is unique
func (dao *ConsumerAdoptionDAO) Insert(ctx context.Context, adoption *models.ConsumerAdoption) error {
	query := `
		INSERT INTO CONSUMER_ADOPTION (` + consumerAdoptionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		adoption.ID,
		adoption.ConsumerID,
		adoption.DecisionID,
		adoption.AdoptionDate,
		adoption.CreatedBy,
		adoption.CreatedDate,
		adoption.UpdatedBy,
		adoption.UpdatedDate,
	)

	return classifyError("insert consumer adoption", err)
}

// SelectAll returns every adoption
func (dao *ConsumerAdoptionDAO) SelectAll(ctx context.Context) ([]*models.ConsumerAdoption, error) {
	query := `SELECT ` + consumerAdoptionColumns + ` FROM CONSUMER_ADOPTION ORDER BY ADOPTION_DATE ASC`

	var adoptions []*models.ConsumerAdoption
	if err := dao.db.SelectContext(ctx, &adoptions, query); err != nil {
		return nil, classifyError("select consumer adoptions", err)
	}

	return adoptions, nil
}

// SelectByID returns the adoption with id, or nil when there is none
func (dao *ConsumerAdoptionDAO) SelectByID(ctx context.Context, id string) (*models.ConsumerAdoption, error) {
	query := `SELECT ` + consumerAdoptionColumns + ` FROM CONSUMER_ADOPTION WHERE ID = ?`

	var adoption models.ConsumerAdoption
	err := dao.db.GetContext(ctx, &adoption, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("select consumer adoption", err)
	}

	return &adoption, nil
}

// Update writes adoption back, provided nobody changed it since previousUpdatedDate
func (dao *ConsumerAdoptionDAO) Update(ctx context.Context, adoption *models.ConsumerAdoption, previousUpdatedDate time.Time) error {
	query := `
		UPDATE CONSUMER_ADOPTION
		SET CONSUMER_ID = ?, DECISION_ID = ?, ADOPTION_DATE = ?, UPDATED_BY = ?, UPDATED_DATE = ?
		WHERE ID = ? AND UPDATED_DATE = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		adoption.ConsumerID,
		adoption.DecisionID,
		adoption.AdoptionDate,
		adoption.UpdatedBy,
		adoption.UpdatedDate,
		adoption.ID,
		previousUpdatedDate,
	)
	if err != nil {
		return classifyError("update consumer adoption", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("update consumer adoption", err)
	}

	return expectOneRow("update consumer adoption", rowsAffected)
}

// Delete removes the adoption with id
func (dao *ConsumerAdoptionDAO) Delete(ctx context.Context, id string) error {
	_, err := dao.db.ExecContext(ctx, `DELETE FROM CONSUMER_ADOPTION WHERE ID = ?`, id)
	return classifyError("delete consumer adoption", err)
}
