package job

import (
	"errors"
	"fmt"
	"time"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"
)

// Details carries the delivery metadata captured at scheduling time.
// The fields feed the outbound notification payloads; none of them gate the
// lifecycle itself. TravelEstimate is advisory metadata supplied by the
// travel-time collaborator.
type Details struct {
	CustomerName   string
	CustomerPhone  string
	Address        string
	Depot          string
	ScheduledAt    time.Time
	InvoiceNumber  string
	TravelEstimate time.Duration
}

// Job is the aggregate root for one delivery job. It owns the status state
// machine, driver ownership, the trip sub-state, per-event notification
// marks, and the append-only edit history.
//
// Invariants:
//   - status only moves forward along Pending -> GettingLoad -> OnTheWay ->
//     Complete, except for the OnHold detour which always resumes to Pending
//   - ownership, once set, is only ever overwritten by the same actor or an
//     administrator
//   - a notification mark's Sent flag flips false->true at most once
//   - Complete is only reachable with non-empty photo evidence
//   - every successful mutation appends exactly one history entry
//
// All mutating methods are pure in-memory operations; the caller is
// responsible for wrapping re-read and persist in one store transaction so
// that concurrent mutations serialize.
type Job struct {
	id            kernel.UUID
	entryKind     EntryKind
	details       Details
	status        Status
	startedBy     *kernel.UUID
	claimedAt     *time.Time
	truck         string
	numberOfTrips int
	currentTrip   *int
	notifications map[EventType]NotificationMark
	history       []HistoryEntry
	photos        []string

	isConstructed bool
}

// NewJob creates a freshly scheduled job in Pending status with an initial
// "created" history entry. Only sales and admin actors schedule jobs.
func NewJob(id kernel.UUID, kind EntryKind, details Details, numberOfTrips int, createdBy kernel.Actor) (*Job, error) {
	if err := errors.Join(
		id.Validate(),
		kind.Validate(),
		createdBy.Validate(),
	); err != nil {
		return nil, err
	}

	if !createdBy.Role().IsStaff() {
		return nil, errs.NewValueIsInvalidErrorWithCause("createdBy",
			fmt.Errorf("%s actors cannot schedule jobs", createdBy.Role()))
	}
	if numberOfTrips < 1 {
		return nil, errs.NewValueIsOutOfRangeError("numberOfTrips", numberOfTrips, 1, 1)
	}
	if details.Depot == "" {
		return nil, errs.NewValueIsRequiredError("depot")
	}

	j := &Job{
		id:            id,
		entryKind:     kind,
		details:       details,
		status:        Pending,
		numberOfTrips: numberOfTrips,
		notifications: make(map[EventType]NotificationMark),
		isConstructed: true,
	}
	j.appendHistory(createdBy, ActionCreated, "job created")

	return j, nil
}

// RestoreJobParams carries the persisted state needed to rehydrate a Job.
type RestoreJobParams struct {
	ID            kernel.UUID
	EntryKind     EntryKind
	Details       Details
	Status        Status
	StartedBy     *kernel.UUID
	ClaimedAt     *time.Time
	Truck         string
	NumberOfTrips int
	CurrentTrip   *int
	Notifications map[EventType]NotificationMark
	History       []HistoryEntry
	Photos        []string
}

// RestoreJob reconstructs a Job from persistence. Used only by repository
// implementations; it trusts the stored state beyond basic enum validity.
func RestoreJob(p RestoreJobParams) (*Job, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.EntryKind.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	notifications := p.Notifications
	if notifications == nil {
		notifications = make(map[EventType]NotificationMark)
	}

	return &Job{
		id:            p.ID,
		entryKind:     p.EntryKind,
		details:       p.Details,
		status:        p.Status,
		startedBy:     p.StartedBy,
		claimedAt:     p.ClaimedAt,
		truck:         p.Truck,
		numberOfTrips: p.NumberOfTrips,
		currentTrip:   p.CurrentTrip,
		notifications: notifications,
		history:       p.History,
		photos:        p.Photos,
		isConstructed: true,
	}, nil
}

// Validate ensures the Job was created via NewJob or RestoreJob.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// IsEqual compares two jobs by identifier.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// Kind returns the entry kind of the record.
func (j *Job) Kind() EntryKind {
	return j.entryKind
}

// Details returns the delivery metadata.
func (j *Job) Details() Details {
	return j.details
}

// Status returns the current lifecycle status.
func (j *Job) Status() Status {
	return j.status
}

// Owner returns the claiming driver's ID, or nil while unclaimed.
func (j *Job) Owner() *kernel.UUID {
	if j.startedBy == nil {
		return nil
	}
	owner := *j.startedBy
	return &owner
}

// ClaimedAt returns when the job was claimed, or nil while unclaimed.
func (j *Job) ClaimedAt() *time.Time {
	if j.claimedAt == nil {
		return nil
	}
	at := *j.claimedAt
	return &at
}

// AssignedTruck returns the truck chosen at claim time.
func (j *Job) AssignedTruck() string {
	return j.truck
}

// NumberOfTrips returns how many physical trips the job requires.
func (j *Job) NumberOfTrips() int {
	return j.numberOfTrips
}

// CurrentTrip returns the trip currently being executed, or nil if none was
// selected yet. Meaningless once the job is Complete.
func (j *Job) CurrentTrip() *int {
	if j.currentTrip == nil {
		return nil
	}
	trip := *j.currentTrip
	return &trip
}

// Notification returns the dispatch mark for an event type.
// The zero mark is returned for events never touched.
func (j *Job) Notification(event EventType) NotificationMark {
	return j.notifications[event]
}

// Notifications returns a copy of all dispatch marks.
func (j *Job) Notifications() map[EventType]NotificationMark {
	marks := make(map[EventType]NotificationMark, len(j.notifications))
	for event, mark := range j.notifications {
		marks[event] = mark
	}
	return marks
}

// History returns a copy of the append-only edit history.
func (j *Job) History() []HistoryEntry {
	history := make([]HistoryEntry, len(j.history))
	copy(history, j.history)
	return history
}

// Photos returns a copy of the photo evidence URIs.
func (j *Job) Photos() []string {
	photos := make([]string, len(j.photos))
	copy(photos, j.photos)
	return photos
}

// Claim makes actor the exclusive owner of the job.
//
// Claiming is idempotent for the current owner, so a retried claim after a
// dropped acknowledgment succeeds without side effects. A claim against a
// job owned by a different driver fails with AlreadyClaimedError naming the
// current owner.
func (j *Job) Claim(actor kernel.Actor, truck string) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := j.validateClaimable(actor); err != nil {
		return err
	}

	if j.startedBy != nil {
		if j.startedBy.IsEqual(actor.ID()) {
			return nil
		}
		return NewAlreadyClaimedError(j.id, *j.startedBy)
	}

	j.setOwnership(actor, truck)
	j.appendHistory(actor, ActionEdited, fmt.Sprintf("claimed with truck %s", truck))
	return nil
}

// Advance moves the job to the successor of its current status.
//
// Advancing a Complete job is a terminal no-op, never an error. The first
// move out of Pending claims ownership for the actor as part of the same
// change, closing the race window between checking and setting ownership,
// provided the caller persists the whole mutation in one transaction.
// Transitioning into Complete requires non-empty photo evidence.
func (j *Job) Advance(actor kernel.Actor, truck string, photos []string) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := j.validateClaimable(actor); err != nil {
		return err
	}

	if j.status == Complete {
		return nil
	}
	if j.status == OnHold {
		return NewInvalidTransitionError(OnHold, OnHold, "held jobs cannot be advanced; resume the job first")
	}

	if j.startedBy != nil && !j.startedBy.IsEqual(actor.ID()) && actor.Role() != kernel.RoleAdmin {
		return NewOwnershipConflictError(j.id, *j.startedBy)
	}

	next, ok := j.status.Successor()
	if !ok {
		return NewInvalidTransitionError(j.status, Unknown, "status has no successor")
	}
	if next == Complete && len(photos) == 0 {
		return NewInvalidTransitionError(j.status, Complete, "photo evidence is required to complete")
	}

	if j.startedBy == nil {
		j.setOwnership(actor, truck)
	}

	previous := j.status
	j.status = next
	if next == Complete {
		j.photos = append([]string(nil), photos...)
	}
	j.appendHistory(actor, ActionStatusChanged, fmt.Sprintf("%s -> %s", previous, next))

	return nil
}

// PutOnHold parks the job outside the normal progression.
// Permitted for sales and admin actors while the job is not Complete and
// not already on hold. When requiresConfirmation is set, the history entry
// records that the hold must be confirmed with the customer before the job
// is resumed.
func (j *Job) PutOnHold(actor kernel.Actor, requiresConfirmation bool) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := j.validateStaff(actor); err != nil {
		return err
	}

	next, err := j.status.Hold()
	if err != nil {
		return err
	}

	previous := j.status
	j.status = next
	note := fmt.Sprintf("%s -> %s", previous, next)
	if requiresConfirmation {
		note += " (confirmation required to resume)"
	}
	j.appendHistory(actor, ActionStatusChanged, note)
	return nil
}

// Resume returns a held job to Pending. The claiming driver, if any,
// retains ownership across the hold.
func (j *Job) Resume(actor kernel.Actor) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := j.validateStaff(actor); err != nil {
		return err
	}

	next, err := j.status.Resume()
	if err != nil {
		return err
	}

	previous := j.status
	j.status = next
	j.appendHistory(actor, ActionStatusChanged, fmt.Sprintf("%s -> %s", previous, next))
	return nil
}

// SelectTrip records which physical trip the driver is executing.
//
// Only the current trip (idempotent no-op) or the immediately next trip is
// selectable; skipping forward or jumping backward is rejected. Selection
// is independent of status but rejected once the job is Complete.
func (j *Job) SelectTrip(actor kernel.Actor, tripNumber int) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	if j.status == Complete {
		return NewInvalidTransitionError(Complete, Complete, "completed jobs cannot change trips")
	}
	if tripNumber < 1 || tripNumber > j.numberOfTrips {
		return errs.NewValueIsOutOfRangeError("tripNumber", tripNumber, 1, j.numberOfTrips)
	}

	current := 0
	if j.currentTrip != nil {
		current = *j.currentTrip
	}

	if tripNumber == current {
		return nil
	}
	if tripNumber != current+1 {
		return NewTripSelectionError(tripNumber, current, j.numberOfTrips)
	}

	j.currentTrip = &tripNumber
	j.appendHistory(actor, ActionTripSelected, fmt.Sprintf("selected trip %d of %d", tripNumber, j.numberOfTrips))
	return nil
}

// BeginDispatch claims the notification flag for an event type on behalf of
// one dispatch invocation. The flag flips at most once per job; a second
// call fails with AlreadyDispatchedError carrying the winning execution ID.
func (j *Job) BeginDispatch(event EventType, executionID string) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if executionID == "" {
		return errs.NewValueIsRequiredError("executionID")
	}

	mark := j.notifications[event]
	if mark.Sent {
		return NewAlreadyDispatchedError(event, mark.ExecutionID)
	}

	now := time.Now().UTC()
	j.notifications[event] = NotificationMark{
		Sent:        true,
		SentAt:      &now,
		ExecutionID: executionID,
	}
	return nil
}

// RecordDispatchOutcome stores the best-effort result of the outbound call
// for an event. Failures here never influence the lifecycle.
func (j *Job) RecordDispatchOutcome(event EventType, delivered bool, reason string) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}

	mark := j.notifications[event]
	mark.Delivered = &delivered
	if delivered {
		mark.FailureReason = ""
		mark.FailedAt = nil
	} else {
		now := time.Now().UTC()
		mark.FailureReason = reason
		mark.FailedAt = &now
	}
	j.notifications[event] = mark
	return nil
}

// validateClaimable guards claim/advance entry: only drivers and admins
// operate on delivery entries; other entry kinds never enter the core.
func (j *Job) validateClaimable(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != kernel.RoleDriver && actor.Role() != kernel.RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("actor",
			fmt.Errorf("%s actors cannot progress jobs", actor.Role()))
	}
	if j.entryKind != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("entryKind",
			fmt.Errorf("%s entries do not have a delivery lifecycle", j.entryKind))
	}
	return nil
}

func (j *Job) validateStaff(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Role().IsStaff() {
		return errs.NewValueIsInvalidErrorWithCause("actor",
			fmt.Errorf("%s actors cannot hold or resume jobs", actor.Role()))
	}
	return nil
}

func (j *Job) setOwnership(actor kernel.Actor, truck string) {
	owner := actor.ID()
	now := time.Now().UTC()
	j.startedBy = &owner
	j.claimedAt = &now
	j.truck = truck
}

func (j *Job) appendHistory(actor kernel.Actor, action HistoryAction, note string) {
	j.history = append(j.history, HistoryEntry{
		Seq:       len(j.history),
		ActorID:   actor.ID(),
		ActorName: actor.Name(),
		At:        time.Now().UTC(),
		Action:    action,
		Note:      note,
	})
}
