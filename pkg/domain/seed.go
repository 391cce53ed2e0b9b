package domain

import "time"

// Seed data mirrors the fixed dataset the dashboard ships with. The stores
// adopt it on first run only; afterwards the persisted collections win.

// SeedUsers returns the fixed credential directory.
func SeedUsers() []UserAccount {
	return []UserAccount{
		{ID: "1", Role: RoleAdmin, Email: "admin@entnt.in", Password: "admin123"},
		{ID: "2", Role: RolePatient, Email: "john@entnt.in", Password: "patient123", PatientID: "p1"},
		{ID: "3", Role: RolePatient, Email: "jane@entnt.in", Password: "patient123", PatientID: "p2"},
	}
}

// SeedPatients returns the fixed starter patients.
func SeedPatients() []Patient {
	return []Patient{
		{
			ID:         "p1",
			Name:       "John Doe",
			DOB:        "1990-05-10",
			Contact:    "1234567890",
			HealthInfo: "No known allergies. Prefers morning appointments.",
		},
		{
			ID:         "p2",
			Name:       "Jane Smith",
			DOB:        "1985-11-22",
			Contact:    "0987654321",
			HealthInfo: "Allergic to penicillin.",
		},
		{
			ID:         "p3",
			Name:       "Mike Williams",
			DOB:        "2001-02-15",
			Contact:    "5551234567",
			HealthInfo: "History of dental anxiety.",
		},
	}
}

// SeedIncidents returns the fixed starter incidents. Appointment dates are
// offsets from now so the seeded dashboard always shows a mix of upcoming and
// historical visits, matching the system of record.
func SeedIncidents(now time.Time) []Incident {
	cost := func(v float64) *float64 { return &v }
	nextVisit := now.AddDate(0, 0, 20)
	return []Incident{
		{
			ID:              "i1",
			PatientID:       "p1",
			Title:           "Annual Check-up & Cleaning",
			Description:     "Routine examination and professional cleaning.",
			Comments:        "Patient reports no issues.",
			AppointmentDate: now.AddDate(0, 0, 5),
			Status:          StatusScheduled,
			Files:           []FileAttachment{},
		},
		{
			ID:                  "i2",
			PatientID:           "p1",
			Title:               "Toothache Investigation",
			Description:         "Pain in upper right molar.",
			Comments:            "Sensitive to cold fluids.",
			AppointmentDate:     time.Date(2024, time.May, 15, 14, 0, 0, 0, time.UTC),
			Cost:                cost(120),
			Treatment:           "X-ray taken, filling required.",
			Status:              StatusCompleted,
			NextAppointmentDate: &nextVisit,
			Files:               []FileAttachment{},
		},
		{
			ID:              "i3",
			PatientID:       "p2",
			Title:           "Wisdom Tooth Consultation",
			Description:     "Discomfort from lower wisdom tooth.",
			Comments:        "Area is swollen.",
			AppointmentDate: now.AddDate(0, 0, 12),
			Status:          StatusScheduled,
			Files:           []FileAttachment{},
		},
		{
			ID:              "i4",
			PatientID:       "p3",
			Title:           "Broken Filling Repair",
			Description:     "Filling on lower left premolar broke off.",
			Comments:        "Patient is not in pain but has sharp edge.",
			AppointmentDate: now.AddDate(0, 0, -2),
			Cost:            cost(250),
			Treatment:       "Replaced composite filling.",
			Status:          StatusCompleted,
			Files:           []FileAttachment{},
		},
		{
			ID:              "i5",
			PatientID:       "p2",
			Title:           "Teeth Whitening",
			Description:     "In-office whitening procedure.",
			Comments:        "Patient happy with results.",
			AppointmentDate: now.AddDate(0, 0, -30),
			Cost:            cost(450),
			Treatment:       "Completed whitening treatment.",
			Status:          StatusCompleted,
			Files:           []FileAttachment{},
		},
		{
			ID:              "i6",
			PatientID:       "p3",
			Title:           "Crown Fitting Prep",
			Description:     "Preparation for a new crown on upper premolar.",
			Comments:        "Awaiting lab work.",
			AppointmentDate: now.AddDate(0, 0, -7),
			Status:          StatusPending,
			Files:           []FileAttachment{},
		},
		{
			ID:              "i7",
			PatientID:       "p1",
			Title:           "Follow-up on Filling",
			Description:     "Checking sensitivity after new filling.",
			Comments:        "Patient reports improvement.",
			AppointmentDate: now.AddDate(0, 0, -1),
			Cost:            cost(50),
			Treatment:       "Minor adjustment to filling.",
			Status:          StatusCompleted,
			Files:           []FileAttachment{},
		},
	}
}
