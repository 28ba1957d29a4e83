package services_test

import (
	"testing"
	"time"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/core/domain/services"
	"haulboard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createJob(t *testing.T, kind job.EntryKind, details job.Details) *job.Job {
	t.Helper()
	creator, err := kernel.NewActor(kernel.NewUUID(), "Sam Seller", kernel.RoleSales)
	require.NoError(t, err)
	j, err := job.NewJob(kernel.NewUUID(), kind, details, 1, creator)
	require.NoError(t, err)
	return j
}

func deliveryDetails() job.Details {
	return job.Details{
		CustomerName:  "Jordan Smith",
		CustomerPhone: "+1 555 0100",
		Address:       "12 Harbor Rd",
		Depot:         "north",
		ScheduledAt:   time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		InvoiceNumber: "INV-1001",
	}
}

func TestNotificationPolicy_EventForCreate(t *testing.T) {
	policy := services.NewNotificationPolicy()

	t.Run("should announce pending delivery entries", func(t *testing.T) {
		j := createJob(t, job.Delivery, deliveryDetails())

		event, ok := policy.EventForCreate(j)

		require.True(t, ok)
		assert.Equal(t, job.EventScheduled, event)
	})

	t.Run("should ignore non-delivery entries", func(t *testing.T) {
		for _, kind := range []job.EntryKind{job.InternalEvent, job.EquipmentMaintenance} {
			t.Run(kind.String(), func(t *testing.T) {
				j := createJob(t, kind, deliveryDetails())

				_, ok := policy.EventForCreate(j)

				assert.False(t, ok)
			})
		}
	})

	t.Run("should ignore non-pending records", func(t *testing.T) {
		j := createJob(t, job.Delivery, deliveryDetails())
		driver, err := kernel.NewActor(kernel.NewUUID(), "Dana Driver", kernel.RoleDriver)
		require.NoError(t, err)
		require.NoError(t, j.Advance(driver, "truck-7", nil))

		_, ok := policy.EventForCreate(j)

		assert.False(t, ok)
	})

	t.Run("should ignore nil and unconstructed jobs", func(t *testing.T) {
		_, ok := policy.EventForCreate(nil)
		assert.False(t, ok)

		_, ok = policy.EventForCreate(&job.Job{})
		assert.False(t, ok)
	})
}

func TestNotificationPolicy_EventForUpdate(t *testing.T) {
	policy := services.NewNotificationPolicy()

	t.Run("should fire on any transition into GettingLoad", func(t *testing.T) {
		for _, previous := range []job.Status{job.Pending, job.OnHold} {
			t.Run(previous.String(), func(t *testing.T) {
				event, ok := policy.EventForUpdate(previous, job.GettingLoad)

				require.True(t, ok)
				assert.Equal(t, job.EventGettingLoad, event)
			})
		}
	})

	t.Run("should not fire when already in GettingLoad", func(t *testing.T) {
		_, ok := policy.EventForUpdate(job.GettingLoad, job.GettingLoad)

		assert.False(t, ok)
	})

	t.Run("should not fire on other transitions", func(t *testing.T) {
		transitions := []struct{ previous, current job.Status }{
			{job.GettingLoad, job.OnTheWay},
			{job.OnTheWay, job.Complete},
			{job.Pending, job.OnHold},
			{job.OnHold, job.Pending},
		}

		for _, tr := range transitions {
			_, ok := policy.EventForUpdate(tr.previous, tr.current)

			assert.False(t, ok, "%s -> %s must not dispatch", tr.previous, tr.current)
		}
	})
}

func TestNotificationPolicy_BuildScheduledPayload(t *testing.T) {
	policy := services.NewNotificationPolicy()

	t.Run("should assemble the full payload", func(t *testing.T) {
		j := createJob(t, job.Delivery, deliveryDetails())

		payload, err := policy.BuildScheduledPayload(j, "exec-1")

		require.NoError(t, err)
		assert.Equal(t, "delivery_scheduled", payload.Event)
		assert.Equal(t, j.ID().String(), payload.DeliveryID)
		assert.Equal(t, "Jordan Smith", payload.CustomerName)
		assert.Equal(t, "+1 555 0100", payload.CustomerPhone)
		assert.Equal(t, "12 Harbor Rd", payload.Address)
		assert.Equal(t, "2026-09-01 10:30", payload.ScheduledDateTime)
		assert.Equal(t, "INV-1001", payload.InvoiceNumber)
		assert.Equal(t, "north", payload.Store)
		assert.Equal(t, "exec-1", payload.ExecutionID)
	})

	t.Run("should require phone, address, and scheduled time", func(t *testing.T) {
		tests := map[string]func(*job.Details){
			"customerPhone":     func(d *job.Details) { d.CustomerPhone = "" },
			"address":           func(d *job.Details) { d.Address = "" },
			"scheduledDateTime": func(d *job.Details) { d.ScheduledAt = time.Time{} },
		}

		for field, clear := range tests {
			t.Run(field, func(t *testing.T) {
				details := deliveryDetails()
				clear(&details)
				j := createJob(t, job.Delivery, details)

				_, err := policy.BuildScheduledPayload(j, "exec-1")

				require.ErrorIs(t, err, errs.ErrValueIsRequired)
				assert.Contains(t, err.Error(), field)
			})
		}
	})
}

func TestNotificationPolicy_BuildGettingLoadPayload(t *testing.T) {
	policy := services.NewNotificationPolicy()

	t.Run("should use the customer's first name and current status", func(t *testing.T) {
		j := createJob(t, job.Delivery, deliveryDetails())

		payload, err := policy.BuildGettingLoadPayload(j)

		require.NoError(t, err)
		assert.Equal(t, "Jordan", payload.FirstName)
		assert.Equal(t, "+1 555 0100", payload.Phone)
		assert.Equal(t, "12 Harbor Rd", payload.Address)
		assert.Equal(t, "INV-1001", payload.Invoice)
		assert.Equal(t, "Pending", payload.Status)
	})

	t.Run("should tolerate missing fields", func(t *testing.T) {
		details := deliveryDetails()
		details.CustomerName = ""
		details.CustomerPhone = ""
		j := createJob(t, job.Delivery, details)

		payload, err := policy.BuildGettingLoadPayload(j)

		require.NoError(t, err)
		assert.Empty(t, payload.FirstName)
		assert.Empty(t, payload.Phone)
	})
}

func TestNotificationPolicy_PayloadForEvent(t *testing.T) {
	policy := services.NewNotificationPolicy()
	j := createJob(t, job.Delivery, deliveryDetails())

	t.Run("should build the payload matching the event", func(t *testing.T) {
		payload, err := policy.PayloadForEvent(j, job.EventScheduled, "exec-1")
		require.NoError(t, err)
		assert.IsType(t, services.ScheduledPayload{}, payload)

		payload, err = policy.PayloadForEvent(j, job.EventGettingLoad, "exec-1")
		require.NoError(t, err)
		assert.IsType(t, services.GettingLoadPayload{}, payload)
	})

	t.Run("should reject unknown events", func(t *testing.T) {
		_, err := policy.PayloadForEvent(j, job.EventUnknown, "exec-1")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
