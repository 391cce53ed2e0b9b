// Package report computes the dashboard's derived views. Every function is a
// pure computation over a snapshot of the clinical collections and is
// recomputed per call; there is no caching to invalidate.
package report

import (
	"sort"
	"time"

	"cliniccore/pkg/domain"
)

// Summary holds the dashboard KPI tiles.
type Summary struct {
	TotalPatients        int     `json:"totalPatients"`
	UpcomingAppointments int     `json:"upcomingAppointments"`
	TotalRevenue         float64 `json:"totalRevenue"`
	CompletedTreatments  int     `json:"completedTreatments"`
	PendingTreatments    int     `json:"pendingTreatments"`
}

// Summarize computes the KPI summary. Upcoming means Scheduled with an
// appointment date strictly after now; revenue sums the defined costs of
// Completed incidents only.
func Summarize(patients []domain.Patient, incidents []domain.Incident, now time.Time) Summary {
	s := Summary{TotalPatients: len(patients)}
	for _, inc := range incidents {
		switch inc.Status {
		case domain.StatusScheduled:
			if inc.AppointmentDate.After(now) {
				s.UpcomingAppointments++
			}
		case domain.StatusCompleted:
			s.CompletedTreatments++
			if inc.Cost != nil {
				s.TotalRevenue += *inc.Cost
			}
		case domain.StatusPending:
			s.PendingTreatments++
		}
	}
	return s
}

// NextAppointments returns the first n upcoming scheduled incidents,
// ascending by appointment date.
func NextAppointments(incidents []domain.Incident, now time.Time, n int) []domain.Incident {
	var upcoming []domain.Incident
	for _, inc := range incidents {
		if inc.Status == domain.StatusScheduled && inc.AppointmentDate.After(now) {
			upcoming = append(upcoming, inc)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].AppointmentDate.Before(upcoming[j].AppointmentDate)
	})
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// MonthRevenue is one bar of the monthly revenue chart.
type MonthRevenue struct {
	Month   string  `json:"month"` // "Jan 2006" in the appointment's location
	Revenue float64 `json:"revenue"`
}

// RevenueByMonth groups the defined costs of Completed incidents by calendar
// month of the appointment date. Output order is first encounter.
func RevenueByMonth(incidents []domain.Incident) []MonthRevenue {
	index := map[string]int{}
	var out []MonthRevenue
	for _, inc := range incidents {
		if inc.Status != domain.StatusCompleted || inc.Cost == nil {
			continue
		}
		month := inc.AppointmentDate.Format("Jan 2006")
		i, ok := index[month]
		if !ok {
			i = len(out)
			index[month] = i
			out = append(out, MonthRevenue{Month: month})
		}
		out[i].Revenue += *inc.Cost
	}
	return out
}

// PatientVisits pairs a patient with its total incident count (any status).
type PatientVisits struct {
	domain.Patient
	Visits int `json:"visits"`
}

// TopPatientsByVisits ranks patients by incident count, descending, keeping
// collection order for ties, and returns the first n.
func TopPatientsByVisits(patients []domain.Patient, incidents []domain.Incident, n int) []PatientVisits {
	counts := map[string]int{}
	for _, inc := range incidents {
		counts[inc.PatientID]++
	}
	ranked := make([]PatientVisits, 0, len(patients))
	for _, p := range patients {
		ranked = append(ranked, PatientVisits{Patient: p, Visits: counts[p.ID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Visits > ranked[j].Visits
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

const dayKeyLayout = "2006-01-02"

// DayKey formats t as the calendar-day bucket key used by the calendar view.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// AppointmentsByDay buckets Scheduled incidents by the local calendar day of
// their appointment date. Within a bucket the collection order is preserved.
func AppointmentsByDay(incidents []domain.Incident) map[string][]domain.Incident {
	buckets := map[string][]domain.Incident{}
	for _, inc := range incidents {
		if inc.Status != domain.StatusScheduled {
			continue
		}
		key := DayKey(inc.AppointmentDate)
		buckets[key] = append(buckets[key], inc)
	}
	return buckets
}

// DayAppointments returns the Scheduled incidents on day's calendar date,
// ascending by time of day.
func DayAppointments(incidents []domain.Incident, day time.Time) []domain.Incident {
	out := AppointmentsByDay(incidents)[DayKey(day)]
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	return out
}
