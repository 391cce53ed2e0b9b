package store

import (
	"testing"
	"time"

	"cliniccore/internal/kv"
	"cliniccore/pkg/domain"
)

func newInitialized(t *testing.T, backing kv.Store) *DataStore {
	t.Helper()
	s := New(backing)
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func TestInitializeAdoptsSeedOnce(t *testing.T) {
	mem := kv.NewMemory()
	s := newInitialized(t, mem)

	if got := len(s.Patients()); got != 3 {
		t.Fatalf("expected 3 seed patients, got %d", got)
	}
	if got := len(s.Incidents()); got != 7 {
		t.Fatalf("expected 7 seed incidents, got %d", got)
	}
	if s.Loading() {
		t.Fatalf("loading must be false after Initialize")
	}

	// The seed must have been persisted, so a second store over the same
	// backing sees identical state, not a fresh seed.
	var persisted []domain.Patient
	if !kv.Load(mem, "patients", &persisted) {
		t.Fatalf("seed patients were not persisted")
	}
	if len(persisted) != 3 {
		t.Fatalf("persisted seed mismatch: %d", len(persisted))
	}
}

func TestAddPatientAssignsUniqueIDs(t *testing.T) {
	s := newInitialized(t, kv.NewMemory())

	added, err := s.AddPatient(domain.Patient{Name: "Ana Ray", DOB: "1999-01-01", Contact: "555"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != "p4" {
		t.Fatalf("expected p4 after seed p1..p3, got %s", added.ID)
	}
	got, ok := s.GetPatientByID(added.ID)
	if !ok || got != added {
		t.Fatalf("lookup after add: ok=%v got=%#v", ok, got)
	}

	// Deleted IDs are never reused within the process.
	if err := s.DeletePatient(added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	next, err := s.AddPatient(domain.Patient{Name: "Ben Ode"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if next.ID == added.ID {
		t.Fatalf("ID %s was reused after delete", next.ID)
	}

	seen := map[string]bool{}
	for _, p := range s.Patients() {
		if seen[p.ID] {
			t.Fatalf("duplicate patient id %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestDeletePatientCascades(t *testing.T) {
	mem := kv.NewMemory()
	s := newInitialized(t, mem)

	// Seed: i1, i2, i7 belong to p1; i3, i5 to p2; i4, i6 to p3.
	if err := s.DeletePatient("p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := s.GetPatientByID("p1"); ok {
		t.Fatalf("p1 still present after delete")
	}
	if got := s.IncidentsByPatientID("p1"); len(got) != 0 {
		t.Fatalf("expected cascade to remove p1 incidents, got %d", len(got))
	}
	if got := len(s.Incidents()); got != 4 {
		t.Fatalf("expected 4 surviving incidents, got %d", got)
	}
	if got := s.IncidentsByPatientID("p2"); len(got) != 2 {
		t.Fatalf("p2 incidents must be untouched, got %d", len(got))
	}

	// Persisted snapshot matches the in-memory one.
	var persisted []domain.Incident
	if !kv.Load(mem, "incidents", &persisted) {
		t.Fatalf("incidents not persisted")
	}
	if len(persisted) != 4 {
		t.Fatalf("persisted incidents after cascade: %d", len(persisted))
	}
}

func TestUpdateAndDeleteUnknownIDsAreNoOps(t *testing.T) {
	s := newInitialized(t, kv.NewMemory())
	beforePatients := s.Patients()
	beforeIncidents := s.Incidents()

	if err := s.UpdatePatient(domain.Patient{ID: "p999", Name: "Ghost"}); err != nil {
		t.Fatalf("update unknown patient: %v", err)
	}
	if err := s.DeletePatient("p999"); err != nil {
		t.Fatalf("delete unknown patient: %v", err)
	}
	if err := s.UpdateIncident(domain.Incident{ID: "i999", Status: domain.StatusCancelled}); err != nil {
		t.Fatalf("update unknown incident: %v", err)
	}
	if err := s.DeleteIncident("i999"); err != nil {
		t.Fatalf("delete unknown incident: %v", err)
	}

	if got := s.Patients(); len(got) != len(beforePatients) {
		t.Fatalf("patient collection changed by no-op: %d != %d", len(got), len(beforePatients))
	}
	if got := s.Incidents(); len(got) != len(beforeIncidents) {
		t.Fatalf("incident collection changed by no-op: %d != %d", len(got), len(beforeIncidents))
	}
}

func TestUpdateIncidentReplacesInPlace(t *testing.T) {
	s := newInitialized(t, kv.NewMemory())
	cost := 300.0
	inc := domain.Incident{
		ID:              "i6",
		PatientID:       "p3",
		Title:           "Crown Fitting",
		AppointmentDate: time.Now().AddDate(0, 0, 3),
		Cost:            &cost,
		Treatment:       "Crown fitted.",
		Status:          domain.StatusCompleted,
	}
	if err := s.UpdateIncident(inc); err != nil {
		t.Fatalf("update: %v", err)
	}

	all := s.Incidents()
	if all[5].ID != "i6" {
		t.Fatalf("update changed collection order: %v", all[5].ID)
	}
	if all[5].Status != domain.StatusCompleted || all[5].Cost == nil || *all[5].Cost != 300 {
		t.Fatalf("update not applied: %#v", all[5])
	}
}

func TestReloadRestoresMutatedState(t *testing.T) {
	mem := kv.NewMemory()
	s := newInitialized(t, mem)

	added, err := s.AddPatient(domain.Patient{Name: "Ana Ray"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.DeleteIncident("i1"); err != nil {
		t.Fatalf("delete incident: %v", err)
	}

	// Simulated reload: a fresh store over the same backing.
	reloaded := newInitialized(t, mem)
	if _, ok := reloaded.GetPatientByID(added.ID); !ok {
		t.Fatalf("added patient lost across reload")
	}
	if got := len(reloaded.Incidents()); got != 6 {
		t.Fatalf("deleted incident resurrected: %d incidents", got)
	}

	// The generator must also be primed past persisted IDs.
	next, err := reloaded.AddPatient(domain.Patient{Name: "Ben Ode"})
	if err != nil {
		t.Fatalf("add after reload: %v", err)
	}
	if next.ID == added.ID {
		t.Fatalf("reloaded store reissued id %s", next.ID)
	}
}

func TestInitializeFallsBackOnCorruption(t *testing.T) {
	mem := kv.NewMemory()
	first := newInitialized(t, mem)
	if err := first.DeletePatient("p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mem.Corrupt("patients")

	s := newInitialized(t, mem)
	if got := len(s.Patients()); got != 3 {
		t.Fatalf("corrupt collection must fall back to seed, got %d patients", got)
	}
	// Incidents were intact and must not be reseeded.
	if got := len(s.Incidents()); got != 4 {
		t.Fatalf("intact collection was reseeded, got %d incidents", got)
	}
}

func TestAddIncidentDoesNotValidatePatientID(t *testing.T) {
	s := newInitialized(t, kv.NewMemory())
	inc, err := s.AddIncident(domain.Incident{
		PatientID:       "p404",
		Title:           "Orphan",
		AppointmentDate: time.Now(),
		Status:          domain.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.IncidentsByPatientID("p404"); len(got) != 1 || got[0].ID != inc.ID {
		t.Fatalf("orphan incident not stored: %#v", got)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := newInitialized(t, kv.NewMemory())
	snap := s.Incidents()
	snap[0].Title = "mutated"
	if s.Incidents()[0].Title == "mutated" {
		t.Fatalf("reader snapshot aliases store state")
	}
}
