package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhs-decisions/decision-management-api/internal/models"
)

const patientColumns = `ID, NHS_NUMBER, TITLE, GIVEN_NAME, SURNAME, DATE_OF_BIRTH, GENDER, EMAIL, PHONE,
		ADDRESS, POST_CODE, VALIDATION_CODE, VALIDATION_CODE_EXPIRES_ON, VALIDATION_CODE_MATCHED_ON,
		RETRY_COUNT, NOTIFICATION_PREFERENCE, CREATED_BY, CREATED_DATE, UPDATED_BY, UPDATED_DATE`

// PatientDAO handles database operations for patients
type PatientDAO struct {
	db *sqlx.DB
}

// NewPatientDAO creates a new PatientDAO
func NewPatientDAO(db *sqlx.DB) *PatientDAO {
	return &PatientDAO{db: db}
}

// Insert stores a new patient
func (dao *PatientDAO) Insert(ctx context.Context, patient *models.Patient) error {
	query := `
		INSERT INTO PATIENT (` + patientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		patient.ID,
		patient.NhsNumber,
		patient.Title,
		patient.GivenName,
		patient.Surname,
		patient.DateOfBirth,
		patient.Gender,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.PostCode,
		patient.ValidationCode,
		patient.ValidationCodeExpiresOn,
		patient.ValidationCodeMatchedOn,
		patient.RetryCount,
		patient.NotificationPreference,
		patient.CreatedBy,
		patient.CreatedDate,
		patient.UpdatedBy,
		patient.UpdatedDate,
	)

	return classifyError("insert patient", err)
}

// SelectAll returns every patient
func (dao *PatientDAO) SelectAll(ctx context.Context) ([]*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM PATIENT ORDER BY CREATED_DATE ASC`

	var patients []*models.Patient
	if err := dao.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, classifyError("select patients", err)
	}

	return patients, nil
}

// SelectByID returns the patient with id, or nil when there is none
func (dao *PatientDAO) SelectByID(ctx context.Context, id string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM PATIENT WHERE ID = ?`

	var patient models.Patient
	err := dao.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("select patient", err)
	}

	return &patient, nil
}

// Update writes patient back, provided nobody changed it since previousUpdatedDate
func (dao *PatientDAO) Update(ctx context.Context, patient *models.Patient, previousUpdatedDate time.Time) error {
	query := `
		UPDATE PATIENT
		SET NHS_NUMBER = ?, TITLE = ?, GIVEN_NAME = ?, SURNAME = ?, DATE_OF_BIRTH = ?, GENDER = ?,
			EMAIL = ?, PHONE = ?, ADDRESS = ?, POST_CODE = ?, VALIDATION_CODE = ?,
			VALIDATION_CODE_EXPIRES_ON = ?, VALIDATION_CODE_MATCHED_ON = ?, RETRY_COUNT = ?,
			NOTIFICATION_PREFERENCE = ?, UPDATED_BY = ?, UPDATED_DATE = ?
		WHERE ID = ? AND UPDATED_DATE = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		patient.NhsNumber,
		patient.Title,
		patient.GivenName,
		patient.Surname,
		patient.DateOfBirth,
		patient.Gender,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.PostCode,
		patient.ValidationCode,
		patient.ValidationCodeExpiresOn,
		patient.ValidationCodeMatchedOn,
		patient.RetryCount,
		patient.NotificationPreference,
		patient.UpdatedBy,
		patient.UpdatedDate,
		patient.ID,
		previousUpdatedDate,
	)
	if err != nil {
		return classifyError("update patient", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("update patient", err)
	}

	return expectOneRow("update patient", rowsAffected)
}

// Delete removes the patient with id
func (dao *PatientDAO) Delete(ctx context.Context, id string) error {
	_, err := dao.db.ExecContext(ctx, `DELETE FROM PATIENT WHERE ID = ?`, id)
	return classifyError("delete patient", err)
}
