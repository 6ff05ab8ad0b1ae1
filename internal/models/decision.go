package models

// DecisionType names a kind of decision, e.g. "Opt-In" or "Opt-Out"
type DecisionType struct {
	ID   string `json:"id" db:"ID"`
	Name string `json:"name" db:"NAME"`
}

// Decision is a patient's recorded choice, optionally made by a responsible person on their behalf
type Decision struct {
	ID                            string        `json:"id"`
	PatientID                     string        `json:"patientId"`
	DecisionTypeID                string        `json:"decisionTypeId"`
	DecisionChoice                string        `json:"decisionChoice"`
	ResponsiblePersonGivenName    string        `json:"responsiblePersonGivenName,omitempty"`
	ResponsiblePersonSurname      string        `json:"responsiblePersonSurname,omitempty"`
	ResponsiblePersonRelationship string        `json:"responsiblePersonRelationship,omitempty"`
	DecisionType                  *DecisionType `json:"decisionType,omitempty"`
	Patient                       *Patient      `json:"patient,omitempty"`
	Audit
}

// GetID returns the decision id
func (d *Decision) GetID() string { return d.ID }

// AuditInfo returns the decision's audit stamps
func (d *Decision) AuditInfo() *Audit { return &d.Audit }

// DecisionTypeName returns the joined type name, or "" when the type was not loaded
func (d *Decision) DecisionTypeName() string {
	if d.DecisionType == nil {
		return ""
	}
	return d.DecisionType.Name
}
