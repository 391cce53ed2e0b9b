// Package store owns the patient and incident collections: ordered CRUD with
// cascade delete, monotonic ID assignment, and a persisted snapshot rewritten
// after every mutation.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cliniccore/internal/kv"
	"cliniccore/pkg/domain"
)

// Persisted record keys. Each collection is one independent value.
const (
	keyPatients  = "patients"
	keyIncidents = "incidents"
)

// DataStore holds the clinical collections in memory and mirrors every
// mutation into the backing kv store before the call returns, so readers
// never observe the two diverging. Collection order is insertion order.
type DataStore struct {
	mu        sync.RWMutex
	kv        kv.Store
	patients  []domain.Patient
	incidents []domain.Incident
	// ID sequences are monotonic for the process lifetime and primed past
	// every loaded ID, so deleted IDs are never reissued.
	patientSeq  uint64
	incidentSeq uint64
	loading     bool
	nowFn       func() time.Time
}

// New constructs a data store backed by the provided kv store. Call
// Initialize before use.
func New(store kv.Store) *DataStore {
	return &DataStore{
		kv:    store,
		nowFn: func() time.Time { return time.Now() },
	}
}

// Initialize loads each collection from persistence, falling back to (and
// persisting) the seed dataset for any collection that is absent or
// unreadable. Idempotent; safe to call once per process start.
func (s *DataStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	defer func() { s.loading = false }()

	var patients []domain.Patient
	if kv.Load(s.kv, keyPatients, &patients) {
		s.patients = patients
	} else {
		s.patients = domain.SeedPatients()
		if err := s.kv.Set(keyPatients, s.patients); err != nil {
			return fmt.Errorf("seed patients: %w", err)
		}
	}

	var incidents []domain.Incident
	if kv.Load(s.kv, keyIncidents, &incidents) {
		s.incidents = incidents
	} else {
		s.incidents = domain.SeedIncidents(s.nowFn())
		if err := s.kv.Set(keyIncidents, s.incidents); err != nil {
			return fmt.Errorf("seed incidents: %w", err)
		}
	}

	for _, p := range s.patients {
		bumpSeq(&s.patientSeq, p.ID, "p")
	}
	for _, i := range s.incidents {
		bumpSeq(&s.incidentSeq, i.ID, "i")
	}
	return nil
}

// Loading reports whether Initialize is currently executing. Consumers use it
// to gate rendering; it is not a synchronization primitive.
func (s *DataStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func bumpSeq(seq *uint64, id, prefix string) {
	n, err := strconv.ParseUint(strings.TrimPrefix(id, prefix), 10, 64)
	if err != nil {
		return
	}
	if n > *seq {
		*seq = n
	}
}

func (s *DataStore) nextPatientID() string {
	s.patientSeq++
	return fmt.Sprintf("p%d", s.patientSeq)
}

func (s *DataStore) nextIncidentID() string {
	s.incidentSeq++
	return fmt.Sprintf("i%d", s.incidentSeq)
}

// Patients returns the patient collection in insertion order.
func (s *DataStore) Patients() []domain.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Patient(nil), s.patients...)
}

// Incidents returns the incident collection in insertion order.
func (s *DataStore) Incidents() []domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneIncidents(s.incidents)
}

func cloneIncidents(in []domain.Incident) []domain.Incident {
	out := make([]domain.Incident, len(in))
	for i, inc := range in {
		out[i] = inc.Clone()
	}
	return out
}

// GetPatientByID retrieves a patient from the current snapshot.
func (s *DataStore) GetPatientByID(id string) (domain.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Patient{}, false
}

// IncidentsByPatientID returns the incidents referencing patientID in
// collection order. Sorting is a consumer concern.
func (s *DataStore) IncidentsByPatientID(patientID string) []domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Incident
	for _, inc := range s.incidents {
		if inc.PatientID == patientID {
			out = append(out, inc.Clone())
		}
	}
	return out
}

// AddPatient assigns a fresh ID, appends the patient, and persists the
// collection. Any ID on the input is ignored.
func (s *DataStore) AddPatient(p domain.Patient) (domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextPatientID()
	s.patients = append(s.patients, p)
	if err := s.kv.Set(keyPatients, s.patients); err != nil {
		return domain.Patient{}, fmt.Errorf("persist patients: %w", err)
	}
	return p, nil
}

// UpdatePatient replaces the patient with the matching ID. Unknown IDs are a
// silent no-op; the collection is left untouched and nothing is persisted.
func (s *DataStore) UpdatePatient(p domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID == p.ID {
			s.patients[i] = p
			if err := s.kv.Set(keyPatients, s.patients); err != nil {
				return fmt.Errorf("persist patients: %w", err)
			}
			return nil
		}
	}
	return nil
}

// DeletePatient removes the patient and cascades to every incident whose
// PatientID matches, keeping incident references live. Unknown IDs are a
// silent no-op.
func (s *DataStore) DeletePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients := s.patients[:0:0]
	removed := false
	for _, p := range s.patients {
		if p.ID == id {
			removed = true
			continue
		}
		patients = append(patients, p)
	}
	if !removed {
		return nil
	}
	s.patients = patients
	if err := s.kv.Set(keyPatients, s.patients); err != nil {
		return fmt.Errorf("persist patients: %w", err)
	}

	incidents := s.incidents[:0:0]
	for _, inc := range s.incidents {
		if inc.PatientID == id {
			continue
		}
		incidents = append(incidents, inc)
	}
	s.incidents = incidents
	if err := s.kv.Set(keyIncidents, s.incidents); err != nil {
		return fmt.Errorf("persist incidents: %w", err)
	}
	return nil
}

// AddIncident assigns a fresh ID, appends the incident, and persists the
// collection. PatientID is deliberately not validated against the patient
// collection; cascade delete is the only referential-integrity mechanism.
func (s *DataStore) AddIncident(inc domain.Incident) (domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc.ID = s.nextIncidentID()
	if inc.Files == nil {
		inc.Files = []domain.FileAttachment{}
	}
	s.incidents = append(s.incidents, inc.Clone())
	if err := s.kv.Set(keyIncidents, s.incidents); err != nil {
		return domain.Incident{}, fmt.Errorf("persist incidents: %w", err)
	}
	return inc, nil
}

// UpdateIncident replaces the incident with the matching ID. Unknown IDs are
// a silent no-op.
func (s *DataStore) UpdateIncident(inc domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incidents {
		if s.incidents[i].ID == inc.ID {
			s.incidents[i] = inc.Clone()
			if err := s.kv.Set(keyIncidents, s.incidents); err != nil {
				return fmt.Errorf("persist incidents: %w", err)
			}
			return nil
		}
	}
	return nil
}

// DeleteIncident removes the incident with the matching ID. No cascade;
// unknown IDs are a silent no-op.
func (s *DataStore) DeleteIncident(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	incidents := s.incidents[:0:0]
	removed := false
	for _, inc := range s.incidents {
		if inc.ID == id {
			removed = true
			continue
		}
		incidents = append(incidents, inc)
	}
	if !removed {
		return nil
	}
	s.incidents = incidents
	if err := s.kv.Set(keyIncidents, s.incidents); err != nil {
		return fmt.Errorf("persist incidents: %w", err)
	}
	return nil
}
