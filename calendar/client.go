package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the appointment backend. Any non-2xx response is treated
// uniformly as failure; response error bodies are never parsed.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type CreateEventRequest struct {
	PatientID uint   `json:"patient_id"`
	DoctorID  uint   `json:"doctor_id,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Service   string `json:"service,omitempty"`
	Note      string `json:"note,omitempty"`
}

// UpdateEventRequest carries the editable subset of an appointment. The
// patient and doctor are not editable through this form, so an update never
// includes them.
type UpdateEventRequest struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Service *string `json:"service,omitempty"`
	Note    *string `json:"note,omitempty"`
}

func (c *Client) Patients(ctx context.Context) ([]Patient, error) {
	var records []struct {
		ID       uint   `json:"id"`
		FullName string `json:"full_name"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/patients", nil, &records); err != nil {
		return nil, err
	}
	patients := make([]Patient, 0, len(records))
	for _, rec := range records {
		patients = append(patients, Patient{ID: rec.ID, FullName: rec.FullName})
	}
	return patients, nil
}

func (c *Client) Services(ctx context.Context) ([]string, error) {
	var services []string
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Events fetches the appointments overlapping the visible range, optionally
// narrowed to one doctor.
func (c *Client) Events(ctx context.Context, start, end time.Time, doctorID uint) ([]Event, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	if doctorID != 0 {
		params.Set("doctor_id", fmt.Sprint(doctorID))
	}

	var records []struct {
		ID            uint   `json:"id"`
		Title         string `json:"title"`
		Start         string `json:"start"`
		End           string `json:"end"`
		ExtendedProps struct {
			Note    string `json:"note"`
			Service string `json:"service"`
		} `json:"extendedProps"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/events?"+params.Encode(), nil, &records); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(records))
	for _, rec := range records {
		start, err := parseEventTime(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", rec.ID, err)
		}
		end, err := parseEventTime(rec.End)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", rec.ID, err)
		}
		events = append(events, Event{
			ID:      rec.ID,
			Title:   rec.Title,
			Start:   start,
			End:     end,
			Service: rec.ExtendedProps.Service,
			Note:    rec.ExtendedProps.Note,
		})
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) error {
	return c.do(ctx, http.MethodPost, "/api/events", req, nil)
}

func (c *Client) UpdateEvent(ctx context.Context, id uint, req UpdateEventRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/events/%d", id), req, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/events/%d", id), nil, nil)
}

func (c *Client) SendReminder(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/events/%d/send_reminder", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// parseEventTime reads a backend timestamp. Naive values are clinic-local
// wall-clock times and are interpreted in the local zone, the same way the
// calendar widget would.
func parseEventTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventTimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
