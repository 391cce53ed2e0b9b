package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestIncidentJSONRoundTrip(t *testing.T) {
	cost := 120.0
	next := time.Date(2026, time.September, 20, 9, 30, 0, 0, time.UTC)
	in := Incident{
		ID:                  "i42",
		PatientID:           "p7",
		Title:               "Root Canal",
		Description:         "Stage two.",
		Comments:            "Local anaesthetic only.",
		AppointmentDate:     time.Date(2026, time.September, 1, 14, 0, 0, 0, time.UTC),
		Cost:                &cost,
		Treatment:           "Canal cleaned and sealed.",
		Status:              StatusCompleted,
		NextAppointmentDate: &next,
		Files: []FileAttachment{
			{Name: "xray.png", URL: "data:image/png;base64,aGVsbG8=", Type: "image/png"},
		},
	}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Incident
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%#v\nout=%#v", in, out)
	}
}

func TestIncidentOptionalFieldsOmitted(t *testing.T) {
	raw, err := json.Marshal(Incident{ID: "i1", PatientID: "p1", Status: StatusScheduled})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"cost", "treatment", "nextAppointmentDate"} {
		if containsKey(t, raw, field) {
			t.Errorf("expected %q to be omitted when unset, got %s", field, raw)
		}
	}
}

func containsKey(t *testing.T, raw []byte, key string) bool {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	_, ok := m[key]
	return ok
}

func TestIncidentCloneIsDeep(t *testing.T) {
	cost := 50.0
	next := time.Now().UTC()
	in := Incident{
		ID:                  "i1",
		Cost:                &cost,
		NextAppointmentDate: &next,
		Files:               []FileAttachment{{Name: "a", URL: "data:", Type: "text/plain"}},
	}
	cp := in.Clone()
	*cp.Cost = 999
	*cp.NextAppointmentDate = next.AddDate(1, 0, 0)
	cp.Files[0].Name = "b"

	if *in.Cost != 50 {
		t.Errorf("clone shares Cost pointer")
	}
	if !in.NextAppointmentDate.Equal(next) {
		t.Errorf("clone shares NextAppointmentDate pointer")
	}
	if in.Files[0].Name != "a" {
		t.Errorf("clone shares Files backing array")
	}
}

func TestNewSessionStripsPassword(t *testing.T) {
	account := UserAccount{ID: "2", Role: RolePatient, Email: "john@entnt.in", Password: "patient123", PatientID: "p1"}
	session := NewSession(account)

	if session.ID != "2" || session.Role != RolePatient || session.Email != "john@entnt.in" || session.PatientID != "p1" {
		t.Fatalf("unexpected session: %#v", session)
	}
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if containsKey(t, raw, "password") {
		t.Fatalf("session JSON must not carry a password field: %s", raw)
	}
}

func TestSeedDataShape(t *testing.T) {
	users := SeedUsers()
	if len(users) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(users))
	}
	if users[0].Role != RoleAdmin || users[0].Email != "admin@entnt.in" {
		t.Errorf("unexpected admin seed: %#v", users[0])
	}
	patients := SeedPatients()
	if len(patients) != 3 {
		t.Fatalf("expected 3 seed patients, got %d", len(patients))
	}
	ids := map[string]bool{}
	for _, p := range patients {
		ids[p.ID] = true
	}

	now := time.Now()
	incidents := SeedIncidents(now)
	if len(incidents) != 7 {
		t.Fatalf("expected 7 seed incidents, got %d", len(incidents))
	}
	seen := map[string]bool{}
	for _, inc := range incidents {
		if seen[inc.ID] {
			t.Errorf("duplicate seed incident id %s", inc.ID)
		}
		seen[inc.ID] = true
		if !ids[inc.PatientID] {
			t.Errorf("incident %s references unknown patient %s", inc.ID, inc.PatientID)
		}
		if inc.Status == StatusCompleted && inc.Cost == nil {
			t.Errorf("completed seed incident %s has no cost", inc.ID)
		}
	}

	var upcoming int
	for _, inc := range incidents {
		if inc.Status == StatusScheduled && inc.AppointmentDate.After(now) {
			upcoming++
		}
	}
	if upcoming != 2 {
		t.Errorf("expected 2 upcoming scheduled seed incidents, got %d", upcoming)
	}
}

func TestSeedIncidentsReturnsFreshCopies(t *testing.T) {
	now := time.Now()
	a := SeedIncidents(now)
	b := SeedIncidents(now)
	*a[1].Cost = 9999
	if *b[1].Cost != 120 {
		t.Fatalf("seed incidents share cost pointers across calls")
	}
}
