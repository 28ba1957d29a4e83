package services

import (
	"strings"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/pkg/errs"
)

// scheduledDateTimeLayout is the combined date+time string the scheduling
// webhook consumer expects.
const scheduledDateTimeLayout = "2006-01-02 15:04"

// ScheduledPayload is the body of the "delivery scheduled" webhook.
// CustomerPhone, Address, and ScheduledDateTime are hard requirements of
// the external contract; dispatch aborts when any is missing.
type ScheduledPayload struct {
	Event             string `json:"event"`
	DeliveryID        string `json:"deliveryId"`
	CustomerName      string `json:"customerName"`
	CustomerPhone     string `json:"customerPhone"`
	Address           string `json:"address"`
	ScheduledDateTime string `json:"scheduledDateTime"`
	InvoiceNumber     string `json:"invoiceNumber"`
	Store             string `json:"store"`
	ExecutionID       string `json:"executionId"`
}

// GettingLoadPayload is the body of the "getting load" webhook.
// The consumer tolerates empty strings; no field gates dispatch.
type GettingLoadPayload struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Invoice   string `json:"invoice"`
	Status    string `json:"status"`
}

// NotificationPolicy is a domain service deciding which outbound event a
// record change produces and building the corresponding webhook payloads.
//
// The policy reacts to observed state, not to the operation that caused it:
// the update rule compares previous and new status rather than hooking the
// Advance call, so any path into GettingLoad produces the event exactly once.
type NotificationPolicy struct{}

// NewNotificationPolicy creates a NotificationPolicy instance.
func NewNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{}
}

// EventForCreate returns the event a newly created record gives rise to.
// Only pending delivery entries announce scheduling; internal events and
// maintenance records never dispatch.
func (p NotificationPolicy) EventForCreate(j *job.Job) (job.EventType, bool) {
	if j == nil || j.Validate() != nil {
		return job.EventUnknown, false
	}
	if j.Kind() != job.Delivery || j.Status() != job.Pending {
		return job.EventUnknown, false
	}
	return job.EventScheduled, true
}

// EventForUpdate returns the event an observed status change gives rise to.
// Only the transition into GettingLoad from any other state dispatches.
func (p NotificationPolicy) EventForUpdate(previous, current job.Status) (job.EventType, bool) {
	if previous != job.GettingLoad && current == job.GettingLoad {
		return job.EventGettingLoad, true
	}
	return job.EventUnknown, false
}

// BuildScheduledPayload assembles the scheduling webhook body.
// Missing phone, address, or scheduled time fails with a required-value
// error; the caller records it and makes no HTTP call.
func (p NotificationPolicy) BuildScheduledPayload(j *job.Job, executionID string) (ScheduledPayload, error) {
	if err := j.Validate(); err != nil {
		return ScheduledPayload{}, err
	}

	details := j.Details()
	if details.CustomerPhone == "" {
		return ScheduledPayload{}, errs.NewValueIsRequiredError("customerPhone")
	}
	if details.Address == "" {
		return ScheduledPayload{}, errs.NewValueIsRequiredError("address")
	}
	if details.ScheduledAt.IsZero() {
		return ScheduledPayload{}, errs.NewValueIsRequiredError("scheduledDateTime")
	}

	return ScheduledPayload{
		Event:             "delivery_scheduled",
		DeliveryID:        j.ID().String(),
		CustomerName:      details.CustomerName,
		CustomerPhone:     details.CustomerPhone,
		Address:           details.Address,
		ScheduledDateTime: details.ScheduledAt.Format(scheduledDateTimeLayout),
		InvoiceNumber:     details.InvoiceNumber,
		Store:             details.Depot,
		ExecutionID:       executionID,
	}, nil
}

// BuildGettingLoadPayload assembles the getting-load webhook body.
func (p NotificationPolicy) BuildGettingLoadPayload(j *job.Job) (GettingLoadPayload, error) {
	if err := j.Validate(); err != nil {
		return GettingLoadPayload{}, err
	}

	details := j.Details()
	return GettingLoadPayload{
		FirstName: firstName(details.CustomerName),
		Phone:     details.CustomerPhone,
		Address:   details.Address,
		Invoice:   details.InvoiceNumber,
		Status:    j.Status().String(),
	}, nil
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// PayloadForEvent builds the payload for the given event type as an
// arbitrary JSON-marshalable value, validating required fields.
func (p NotificationPolicy) PayloadForEvent(j *job.Job, event job.EventType, executionID string) (any, error) {
	switch event {
	case job.EventScheduled:
		return p.BuildScheduledPayload(j, executionID)
	case job.EventGettingLoad:
		return p.BuildGettingLoadPayload(j)
	default:
		return nil, errs.NewValueIsInvalidError("eventType")
	}
}
