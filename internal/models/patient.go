package models

import "time"

// NotificationPreference selects the channel used to contact a patient
type NotificationPreference string

const (
	NotificationPreferenceEmail  NotificationPreference = "Email"
	NotificationPreferenceSms    NotificationPreference = "Sms"
	NotificationPreferenceLetter NotificationPreference = "Letter"
)

// IsValid reports whether p is one of the supported channels
func (p NotificationPreference) IsValid() bool {
	switch p {
	case NotificationPreferenceEmail, NotificationPreferenceSms, NotificationPreferenceLetter:
		return true
	}
	return false
}

// Patient is a person who can record a decision once their identity is verified
type Patient struct {
	ID                      string                 `json:"id" db:"ID"`
	NhsNumber               string                 `json:"nhsNumber" db:"NHS_NUMBER"`
	Title                   string                 `json:"title,omitempty" db:"TITLE"`
	GivenName               string                 `json:"givenName" db:"GIVEN_NAME"`
	Surname                 string                 `json:"surname" db:"SURNAME"`
	DateOfBirth             time.Time              `json:"dateOfBirth" db:"DATE_OF_BIRTH"`
	Gender                  string                 `json:"gender,omitempty" db:"GENDER"`
	Email                   string                 `json:"email,omitempty" db:"EMAIL"`
	Phone                   string                 `json:"phone,omitempty" db:"PHONE"`
	Address                 string                 `json:"address,omitempty" db:"ADDRESS"`
	PostCode                string                 `json:"postCode,omitempty" db:"POST_CODE"`
	ValidationCode          string                 `json:"validationCode,omitempty" db:"VALIDATION_CODE"`
	ValidationCodeExpiresOn time.Time              `json:"validationCodeExpiresOn" db:"VALIDATION_CODE_EXPIRES_ON"`
	ValidationCodeMatchedOn *time.Time             `json:"validationCodeMatchedOn,omitempty" db:"VALIDATION_CODE_MATCHED_ON"`
	RetryCount              int                    `json:"retryCount" db:"RETRY_COUNT"`
	NotificationPreference  NotificationPreference `json:"notificationPreference" db:"NOTIFICATION_PREFERENCE"`
	Audit
}

// GetID returns the patient id
func (p *Patient) GetID() string { return p.ID }

// AuditInfo returns the patient's audit stamps
func (p *Patient) AuditInfo() *Audit { return &p.Audit }
