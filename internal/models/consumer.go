package models

import "time"

// Consumer is a downstream system that pulls recorded decisions
type Consumer struct {
	ID               string `json:"id" db:"ID"`
	Name             string `json:"name" db:"NAME"`
	EntraID          string `json:"entraId" db:"ENTRA_ID"`
	ContactPerson    string `json:"contactPerson,omitempty" db:"CONTACT_PERSON"`
	ContactEmail     string `json:"contactEmail,omitempty" db:"CONTACT_EMAIL"`
	ContactTelephone string `json:"contactTelephone,omitempty" db:"CONTACT_TELEPHONE"`
	Audit
}

// GetID returns the consumer id
func (c *Consumer) GetID() string { return c.ID }

// AuditInfo returns the consumer's audit stamps
func (c *Consumer) AuditInfo() *Audit { return &c.Audit }

// ConsumerAdoption records that a consumer has processed a decision
type ConsumerAdoption struct {
	ID           string    `json:"id" db:"ID"`
	ConsumerID   string    `json:"consumerId" db:"CONSUMER_ID"`
	DecisionID   string    `json:"decisionId" db:"DECISION_ID"`
	AdoptionDate time.Time `json:"adoptionDate" db:"ADOPTION_DATE"`
	Audit
}

// GetID returns the adoption id
func (a *ConsumerAdoption) GetID() string { return a.ID }

// AuditInfo returns the adoption's audit stamps
func (a *ConsumerAdoption) AuditInfo() *Audit { return &a.Audit }
