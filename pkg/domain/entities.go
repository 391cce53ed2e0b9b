// Package domain defines the persistent clinic entities, value types, and
// lookup errors shared by the cliniccore stores.
package domain

import (
	"fmt"
	"time"
)

// Role identifies the access level of a credential record.
type Role string

// Supported roles. The directory is seeded once; no role management exists.
const (
	// RoleAdmin can manage patients and incidents.
	RoleAdmin Role = "Admin"
	// RolePatient can view its own profile and appointment history.
	RolePatient Role = "Patient"
)

// IncidentStatus enumerates the lifecycle states of a treatment incident.
type IncidentStatus string

// Canonical incident statuses used by scheduling and revenue reporting.
const (
	StatusScheduled IncidentStatus = "Scheduled"
	StatusCompleted IncidentStatus = "Completed"
	StatusCancelled IncidentStatus = "Cancelled"
	StatusPending   IncidentStatus = "Pending"
)

// UserAccount is a credential directory record.
//
// Password is stored and compared in plaintext for parity with the system of
// record. This is not a credential store fit for real deployments; the
// directory exists only to gate the single-user dashboard.
type UserAccount struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	// PatientID links a patient login to its Patient record. Empty for admins.
	PatientID string `json:"patientId,omitempty"`
}

// Session is the active identity: a UserAccount with the password stripped.
// It is persisted so a restart resumes the session without re-authenticating.
type Session struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	PatientID string `json:"patientId,omitempty"`
}

// NewSession projects an account into a session record, omitting the password.
func NewSession(account UserAccount) Session {
	return Session{
		ID:        account.ID,
		Role:      account.Role,
		Email:     account.Email,
		PatientID: account.PatientID,
	}
}

// Patient is a clinic patient record.
type Patient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DOB     string `json:"dob"` // calendar date, YYYY-MM-DD
	Contact string `json:"contact"`
	// HealthInfo is free-text clinical notes (allergies, preferences).
	HealthInfo string `json:"healthInfo"`
}

// FileAttachment is a file carried inline on an incident. URL holds the full
// payload as a data URI (data:<mime>;base64,...).
type FileAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Incident is a single treatment/appointment record tied to one patient.
// Cost and Treatment are set once the visit completes; Cost is only
// meaningful while Status is Completed.
type Incident struct {
	ID                  string           `json:"id"`
	PatientID           string           `json:"patientId"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Comments            string           `json:"comments"`
	AppointmentDate     time.Time        `json:"appointmentDate"`
	Cost                *float64         `json:"cost,omitempty"`
	Treatment           string           `json:"treatment,omitempty"`
	Status              IncidentStatus   `json:"status"`
	NextAppointmentDate *time.Time       `json:"nextAppointmentDate,omitempty"`
	Files               []FileAttachment `json:"files"`
}

// Clone returns a deep copy of the incident, including its attachment list.
func (i Incident) Clone() Incident {
	cp := i
	if i.Cost != nil {
		v := *i.Cost
		cp.Cost = &v
	}
	if i.NextAppointmentDate != nil {
		v := *i.NextAppointmentDate
		cp.NextAppointmentDate = &v
	}
	if i.Files != nil {
		cp.Files = append([]FileAttachment(nil), i.Files...)
	}
	return cp
}

// EntityKind names an entity collection in lookup errors.
type EntityKind string

// Entity kinds referenced by NotFoundError.
const (
	KindUser     EntityKind = "user"
	KindPatient  EntityKind = "patient"
	KindIncident EntityKind = "incident"
)

// NotFoundError reports a failed strict lookup. The stores themselves treat
// unknown IDs as absent values or silent no-ops; callers that need a signaled
// error (the CLI, for one) wrap lookups with this type.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
