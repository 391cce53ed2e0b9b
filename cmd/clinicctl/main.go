// Command clinicctl is an operator tool for the clinic data store: it seeds
// the configured key-value backend, verifies credentials, and prints the
// dashboard summary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"cliniccore/internal/kv"
	"cliniccore/internal/report"
	"cliniccore/internal/session"
	"cliniccore/internal/store"
	"cliniccore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: clinicctl <summary|seed|login|patient> [flags]")
		return 2
	}
	var err error
	switch args[0] {
	case "summary":
		err = runSummary(args[1:], stdout, stderr)
	case "seed":
		err = runSeed(args[1:], stdout, stderr)
	case "login":
		err = runLogin(args[1:], stdout, stderr)
	case "patient":
		err = runPatient(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "clinicctl %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func openStore() (*store.DataStore, kv.Store, error) {
	backend, err := kv.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open kv backend: %w", err)
	}
	ds := store.New(backend)
	if err := ds.Initialize(); err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("initialize store: %w", err)
	}
	return ds, backend, nil
}

func runSummary(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var next int
	fs.IntVar(&next, "next", 10, "number of upcoming appointments to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, backend, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	now := time.Now()
	incidents := ds.Incidents()
	summary := report.Summarize(ds.Patients(), incidents, now)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "upcoming appointments:")
	for _, inc := range report.NextAppointments(incidents, now, next) {
		fmt.Fprintf(stdout, "  %s  %-24s  %s\n", inc.AppointmentDate.Format("2006-01-02 15:04"), inc.Title, inc.PatientID)
	}

	fmt.Fprintln(stdout, "revenue by month:")
	for _, m := range report.RevenueByMonth(incidents) {
		fmt.Fprintf(stdout, "  %-8s  %.2f\n", m.Month, m.Revenue)
	}
	return nil
}

func runSeed(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := kv.Open()
	if err != nil {
		return fmt.Errorf("open kv backend: %w", err)
	}
	defer func() { _ = backend.Close() }()

	ds := store.New(backend)
	if err := ds.Initialize(); err != nil {
		return fmt.Errorf("initialize data store: %w", err)
	}
	sessions := session.New(backend)
	if err := sessions.Initialize(); err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}

	fmt.Fprintf(stdout, "seeded: %d patients, %d incidents\n", len(ds.Patients()), len(ds.Incidents()))
	return nil
}

func runPatient(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("patient", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var id string
	fs.StringVar(&id, "id", "", "patient ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("-id is required")
	}

	ds, backend, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	patient, ok := ds.GetPatientByID(id)
	if !ok {
		return domain.NotFoundError{Kind: domain.KindPatient, ID: id}
	}
	out := struct {
		Patient   domain.Patient    `json:"patient"`
		Incidents []domain.Incident `json:"incidents"`
	}{Patient: patient, Incidents: ds.IncidentsByPatientID(id)}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runLogin(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var email, password string
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if email == "" || password == "" {
		return fmt.Errorf("both -email and -password are required")
	}

	backend, err := kv.Open()
	if err != nil {
		return fmt.Errorf("open kv backend: %w", err)
	}
	defer func() { _ = backend.Close() }()

	sessions := session.New(backend)
	if err := sessions.Initialize(); err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}
	if !sessions.Login(email, password) {
		return fmt.Errorf("invalid credentials for %s", email)
	}
	current, _ := sessions.Current()
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(current)
}
