package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

const decisionSelect = `
		SELECT d.ID, d.PATIENT_ID, d.DECISION_TYPE_ID, d.DECISION_CHOICE,
			d.RESPONSIBLE_PERSON_GIVEN_NAME, d.RESPONSIBLE_PERSON_SURNAME, d.RESPONSIBLE_PERSON_RELATIONSHIP,
			d.CREATED_BY, d.CREATED_DATE, d.UPDATED_BY, d.UPDATED_DATE,
			COALESCE(dt.NAME, '') AS DECISION_TYPE_NAME
		FROM DECISION d
		LEFT JOIN DECISION_TYPE dt ON dt.ID = d.DECISION_TYPE_ID
	`

// decisionRow is the flattened DECISION + DECISION_TYPE projection
type decisionRow struct {
	ID                            string         `db:"ID"`
	PatientID                     string         `db:"PATIENT_ID"`
	DecisionTypeID                string         `db:"DECISION_TYPE_ID"`
	DecisionChoice                string         `db:"DECISION_CHOICE"`
	ResponsiblePersonGivenName    sql.NullString `db:"RESPONSIBLE_PERSON_GIVEN_NAME"`
	ResponsiblePersonSurname      sql.NullString `db:"RESPONSIBLE_PERSON_SURNAME"`
	ResponsiblePersonRelationship sql.NullString `db:"RESPONSIBLE_PERSON_RELATIONSHIP"`
	DecisionTypeName              string         `db:"DECISION_TYPE_NAME"`
	models.Audit
}

func (r *decisionRow) toModel() *models.Decision {
	return &models.Decision{
		ID:                            r.ID,
		PatientID:                     r.PatientID,
		DecisionTypeID:                r.DecisionTypeID,
		DecisionChoice:                r.DecisionChoice,
		ResponsiblePersonGivenName:    r.ResponsiblePersonGivenName.String,
		ResponsiblePersonSurname:      r.ResponsiblePersonSurname.String,
		ResponsiblePersonRelationship: r.ResponsiblePersonRelationship.String,
		DecisionType: &models.DecisionType{
			ID:   r.DecisionTypeID,
			Name: r.DecisionTypeName,
		},
		Audit: r.Audit,
	}
}

// DecisionDAO handles database operations for decisions
type DecisionDAO struct {
	db *sqlx.DB
}

// NewDecisionDAO creates a new DecisionDAO
func NewDecisionDAO(db *sqlx.DB) *DecisionDAO {
	return &DecisionDAO{db: db}
}

// Insert stores a new decision
func (dao *DecisionDAO) Insert(ctx context.Context, decision *models.Decision) error {
	query := `
		INSERT INTO DECISION (ID, PATIENT_ID, DECISION_TYPE_ID, DECISION_CHOICE,
			RESPONSIBLE_PERSON_GIVEN_NAME, RESPONSIBLE_PERSON_SURNAME, RESPONSIBLE_PERSON_RELATIONSHIP,
			CREATED_BY, CREATED_DATE, UPDATED_BY, UPDATED_DATE)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		decision.ID,
		decision.PatientID,
		decision.DecisionTypeID,
		decision.DecisionChoice,
		nullIfEmpty(decision.ResponsiblePersonGivenName),
		nullIfEmpty(decision.ResponsiblePersonSurname),
		nullIfEmpty(decision.ResponsiblePersonRelationship),
		decision.CreatedBy,
		decision.CreatedDate,
		decision.UpdatedBy,
		decision.UpdatedDate,
	)

	return classifyError("insert decision", err)
}

// SelectAll returns every decision with its type name
func (dao *DecisionDAO) SelectAll(ctx context.Context) ([]*models.Decision, error) {
	var rows []decisionRow
	if err := dao.db.SelectContext(ctx, &rows, decisionSelect+` ORDER BY d.CREATED_DATE ASC`); err != nil {
		return nil, classifyError("select decisions", err)
	}

	decisions := make([]*models.Decision, 0, len(rows))
	for i := range rows {
		decisions = append(decisions, rows[i].toModel())
	}
	return decisions, nil
}

// SelectByID returns the decision with id, or nil when there is none
func (dao *DecisionDAO) SelectByID(ctx context.Context, id string) (*models.Decision, error) {
	var row decisionRow
	err := dao.db.GetContext(ctx, &row, decisionSelect+` WHERE d.ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("select decision", err)
	}

	return row.toModel(), nil
}

// Update writes decision back, provided nobody changed it since previousUpdatedDate
func (dao *DecisionDAO) Update(ctx context.Context, decision *models.Decision, previousUpdatedDate time.Time) error {
	query := `
		UPDATE DECISION
		SET PATIENT_ID = ?, DECISION_TYPE_ID = ?, DECISION_CHOICE = ?,
			RESPONSIBLE_PERSON_GIVEN_NAME = ?, RESPONSIBLE_PERSON_SURNAME = ?, RESPONSIBLE_PERSON_RELATIONSHIP = ?,
			UPDATED_BY = ?, UPDATED_DATE = ?
		WHERE ID = ? AND UPDATED_DATE = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		decision.PatientID,
		decision.DecisionTypeID,
		decision.DecisionChoice,
		nullIfEmpty(decision.ResponsiblePersonGivenName),
		nullIfEmpty(decision.ResponsiblePersonSurname),
		nullIfEmpty(decision.ResponsiblePersonRelationship),
		decision.UpdatedBy,
		decision.UpdatedDate,
		decision.ID,
		previousUpdatedDate,
	)
	if err != nil {
		return classifyError("update decision", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("update decision", err)
	}

	return expectOneRow("update decision", rowsAffected)
}

// Delete removes the decision with id
func (dao *DecisionDAO) Delete(ctx context.Context, id string) error {
	_, err := dao.db.ExecContext(ctx, `DELETE FROM DECISION WHERE ID = ?`, id)
	return classifyError("delete decision", err)
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
