package report

import (
	"expvar"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cliniccore/pkg/domain"
)

// SnapshotSource supplies the collections the exporters summarize. The data
// store satisfies it.
type SnapshotSource interface {
	Patients() []domain.Patient
	Incidents() []domain.Incident
}

// Collector exports the KPI summary as prometheus gauges, recomputed from the
// current snapshot on every scrape.
type Collector struct {
	source SnapshotSource
	nowFn  func() time.Time

	patients  *prometheus.Desc
	upcoming  *prometheus.Desc
	revenue   *prometheus.Desc
	completed *prometheus.Desc
	pending   *prometheus.Desc
}

// NewCollector builds a collector over the given source. Register it with a
// prometheus registry to expose the dashboard KPIs.
func NewCollector(source SnapshotSource) *Collector {
	return &Collector{
		source: source,
		nowFn:  time.Now,
		patients: prometheus.NewDesc(
			"cliniccore_patients_total", "Number of registered patients.", nil, nil),
		upcoming: prometheus.NewDesc(
			"cliniccore_upcoming_appointments", "Scheduled incidents with an appointment date in the future.", nil, nil),
		revenue: prometheus.NewDesc(
			"cliniccore_revenue_total", "Sum of costs across completed incidents.", nil, nil),
		completed: prometheus.NewDesc(
			"cliniccore_completed_treatments_total", "Incidents with status Completed.", nil, nil),
		pending: prometheus.NewDesc(
			"cliniccore_pending_treatments_total", "Incidents with status Pending.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.patients
	ch <- c.upcoming
	ch <- c.revenue
	ch <- c.completed
	ch <- c.pending
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := Summarize(c.source.Patients(), c.source.Incidents(), c.nowFn())
	ch <- prometheus.MustNewConstMetric(c.patients, prometheus.GaugeValue, float64(s.TotalPatients))
	ch <- prometheus.MustNewConstMetric(c.upcoming, prometheus.GaugeValue, float64(s.UpcomingAppointments))
	ch <- prometheus.MustNewConstMetric(c.revenue, prometheus.GaugeValue, s.TotalRevenue)
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.GaugeValue, float64(s.CompletedTreatments))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.PendingTreatments))
}

var expvarSeq uint64

// PublishExpvar exposes the live KPI summary under name via expvar, for
// deployments that prefer process-local metrics without a scrape endpoint.
// When name is empty a unique identifier is generated. Returns the name used.
func PublishExpvar(name string, source SnapshotSource) string {
	if name == "" {
		name = fmt.Sprintf("cliniccore_summary_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	expvar.Publish(name, expvar.Func(func() any {
		return Summarize(source.Patients(), source.Incidents(), time.Now())
	}))
	return name
}
