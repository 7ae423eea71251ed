package event

import (
	"log"
	"os"
	"time"
)

// Appointments are stored as naive clinic-local times. The clinic zone is
// fixed for the whole deployment so scheduling stays consistent no matter
// where a request comes from.
var clinicTZ = loadClinicTZ()

func loadClinicTZ() *time.Location {
	name := os.Getenv("APP_TIMEZONE")
	if name == "" {
		name = "Europe/Bucharest"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Invalid APP_TIMEZONE %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseToLocalNaive accepts an ISO timestamp with or without a zone offset.
// Aware inputs are converted to clinic-local time; naive inputs are taken as
// clinic-local already. The result carries the UTC location so the naive
// wall-clock value round-trips through the database unchanged.
func parseToLocalNaive(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		local := t.In(clinicTZ)
		return stripZone(local), nil
	}
	var lastErr error
	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func formatLocalNaive(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
