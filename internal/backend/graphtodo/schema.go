package graphtodo

import (
	"time"

	"mstodo/internal/service"
)

// Wire schemas for the Graph To Do endpoints. Raw JSON never leaves
// this package; everything is converted to service types at the
// boundary.

type listCollection struct {
	Value    []listResource `json:"value"`
	NextLink string         `json:"@odata.nextLink"`
}

type listResource struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	WellknownListName string `json:"wellknownListName,omitempty"`
}

type taskCollection struct {
	Value    []taskResource `json:"value"`
	NextLink string         `json:"@odata.nextLink"`
}

type taskResource struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title,omitempty"`
	Status      string            `json:"status,omitempty"`
	DueDateTime *dateTimeTimeZone `json:"dueDateTime,omitempty"`
}

type listPatch struct {
	DisplayName string `json:"displayName"`
}

// dateTimeTimeZone is Graph's split date-time representation. DateTime
// carries no offset; TimeZone names the zone it is local to.
type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

const dateTimeLayout = "2006-01-02T15:04:05.0000000"

func newDateTimeTimeZone(t time.Time) *dateTimeTimeZone {
	return &dateTimeTimeZone{
		DateTime: t.Format(dateTimeLayout),
		TimeZone: PreferTimeZone,
	}
}

func (d *dateTimeTimeZone) toTime() *time.Time {
	if d == nil {
		return nil
	}
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateTimeLayout, d.DateTime, loc)
	if err != nil {
		return nil
	}
	return &t
}

// toItem converts a wire task to the domain type. Any status other than
// completed collapses to not started; callers never see raw wire
// statuses.
func (t taskResource) toItem() service.TaskItem {
	status := service.StatusNotStarted
	if t.Status == "completed" {
		status = service.StatusCompleted
	}
	return service.TaskItem{
		ID:      t.ID,
		Title:   t.Title,
		Status:  status,
		DueDate: t.DueDateTime.toTime(),
	}
}
