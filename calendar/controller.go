package calendar

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Controller is the explicit component behind the calendar page: it holds
// the rendering-engine handle, the API client and the reference data, and
// translates grid gestures into backend calls. The backend stays the sole
// source of truth; after every successful mutation the visible events are
// refetched rather than patched in place.
type Controller struct {
	client *Client
	engine Engine
	ui     UI

	modal    *Modal
	services []string

	doctorFilter uint
}

// New loads the reference data and builds the controller. Both lists must be
// fully loaded before the calendar is constructed: the modal fills its
// selectors from them synchronously at open time, and an empty patient list
// would make the create path unusable.
func New(ctx context.Context, client *Client, engine Engine, ui UI) (*Controller, error) {
	var (
		patients []Patient
		services []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patients, err = client.Patients(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = client.Services(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Controller{
		client:   client,
		engine:   engine,
		ui:       ui,
		modal:    NewModal(patients),
		services: services,
	}, nil
}

func (c *Controller) Modal() *Modal { return c.modal }

// Services returns the service categories for the modal's selector.
func (c *Controller) Services() []string { return c.services }

// SetDoctorFilter narrows the calendar to one doctor (zero clears the
// filter) and reloads the visible events.
func (c *Controller) SetDoctorFilter(doctorID uint) {
	c.doctorFilter = doctorID
	c.engine.Refetch()
}

func (c *Controller) DoctorFilter() uint { return c.doctorFilter }

// defaultEnd implements the default-duration rule: a gesture with no end
// gets one exactly 60 minutes after the start. Literally start plus one
// hour, never a duration copied from the original event.
func defaultEnd(start time.Time) time.Time {
	return start.Add(60 * time.Minute)
}

// FetchEvents is the event source: it returns the appointments overlapping
// the visible range, honoring the current doctor filter.
func (c *Controller) FetchEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	return c.client.Events(ctx, start, end, c.doctorFilter)
}

// EventSourceFunc adapts FetchEvents to the success/failure callback
// convention rendering widgets use for remote event sources. The widget
// decides how a failure is surfaced.
func (c *Controller) EventSourceFunc() func(ctx context.Context, r FetchRange, success func([]Event), failure func(error)) {
	return func(ctx context.Context, r FetchRange, success func([]Event), failure func(error)) {
		events, err := c.FetchEvents(ctx, r.Start, r.End)
		if err != nil {
			failure(err)
			return
		}
		success(events)
	}
}

// HandleSelect opens the create dialog for a range selection. A point click
// gets the default one-hour duration.
func (c *Controller) HandleSelect(sel Selection) {
	end := sel.End
	if end.IsZero() {
		end = defaultEnd(sel.Start)
	}
	c.modal.OpenCreate(sel.Start, end)
	c.modal.Form().DoctorID = c.doctorFilter
}

// HandleEventClick opens the edit dialog for an existing event.
func (c *Controller) HandleEventClick(ev Event) {
	c.modal.OpenEdit(ev)
}

// Submit saves the drafted appointment: POST when the draft has no id yet,
// PUT otherwise. On failure the dialog stays open with the draft intact so
// the user can correct and resubmit.
func (c *Controller) Submit(ctx context.Context) {
	f := c.modal.Form()

	if f.EventID == 0 {
		start, end, err := parseFormRange(f)
		if err != nil {
			c.ui.Alert("Eroare creare")
			return
		}
		req := CreateEventRequest{
			PatientID: f.PatientID,
			DoctorID:  f.DoctorID,
			Start:     start.UTC().Format(time.RFC3339),
			End:       end.UTC().Format(time.RFC3339),
			Service:   f.Service,
			Note:      f.Note,
		}
		if err := c.client.CreateEvent(ctx, req); err != nil {
			c.ui.Alert("Eroare creare")
			return
		}
	} else {
		start, end, err := parseFormRange(f)
		if err != nil {
			c.ui.Alert("Eroare salvare")
			return
		}
		// Patient and doctor cannot be changed through this form.
		service := f.Service
		note := f.Note
		req := UpdateEventRequest{
			Start:   start.UTC().Format(time.RFC3339),
			End:     end.UTC().Format(time.RFC3339),
			Service: &service,
			Note:    &note,
		}
		if err := c.client.UpdateEvent(ctx, f.EventID, req); err != nil {
			c.ui.Alert("Eroare salvare")
			return
		}
	}

	c.modal.Close()
	c.engine.Refetch()
}

// Delete removes the open appointment after a confirmation prompt. If the
// user declines, no request is issued and the dialog keeps its content.
func (c *Controller) Delete(ctx context.Context) {
	f := c.modal.Form()
	if f.EventID == 0 {
		return
	}
	if !c.ui.Confirm("Sigur doriți să ștergeți această programare?") {
		return
	}
	if err := c.client.DeleteEvent(ctx, f.EventID); err != nil {
		c.ui.Alert("Eroare ștergere")
		return
	}
	c.modal.Close()
	c.engine.Refetch()
}

// HandleEventDrop reschedules a dragged event. The widget already shows the
// event in its new slot, so nothing is refetched on success; on failure the
// visual change is reverted.
func (c *Controller) HandleEventDrop(ctx context.Context, change EventChange) {
	end := change.End
	if end.IsZero() {
		end = defaultEnd(change.Start)
	}
	req := UpdateEventRequest{
		Start: change.Start.UTC().Format(time.RFC3339),
		End:   end.UTC().Format(time.RFC3339),
	}
	if err := c.client.UpdateEvent(ctx, change.EventID, req); err != nil {
		c.ui.Alert("Eroare reprogramare")
		if change.Revert != nil {
			change.Revert()
		}
	}
}

// HandleEventResize saves a resized event. The engine always supplies both
// ends of a resize.
func (c *Controller) HandleEventResize(ctx context.Context, change EventChange) {
	req := UpdateEventRequest{
		Start: change.Start.UTC().Format(time.RFC3339),
		End:   change.End.UTC().Format(time.RFC3339),
	}
	if err := c.client.UpdateEvent(ctx, change.EventID, req); err != nil {
		c.ui.Alert("Eroare modificare durată")
		if change.Revert != nil {
			change.Revert()
		}
	}
}

// SendReminder asks the backend to email the patient now. The event set does
// not change, so nothing is refetched.
func (c *Controller) SendReminder(ctx context.Context) {
	f := c.modal.Form()
	if f.EventID == 0 {
		return
	}
	if err := c.client.SendReminder(ctx, f.EventID); err != nil {
		c.ui.Alert("Eroare trimitere reminder")
		return
	}
	c.ui.Alert("Reminder trimis")
}

func parseFormRange(f *Form) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(minuteLayout, f.Start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(minuteLayout, f.End, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
