package booking

import (
	"context"
	"encoding/json"
	"time"

	"stayflow/models"

	"github.com/hibiken/asynq"
)

const TypeCheckInReminder = "booking:checkin_reminder"

// reminderLeadTime is how long before check-in the reminder fires.
const reminderLeadTime = 24 * time.Hour

// ReminderPayload is the queued task body for a pre-check-in reminder.
type ReminderPayload struct {
	BookingID string           `json:"booking_id"`
	UnitID    string           `json:"unit_id"`
	UnitName  string           `json:"unit_name"`
	CheckIn   string           `json:"check_in"`
	Guest     models.GuestInfo `json:"guest"`
}

// ReminderScheduler enqueues pre-check-in reminders. Scheduling is a
// best-effort side effect of the booking transaction.
type ReminderScheduler interface {
	ScheduleCheckInReminder(ctx context.Context, payload ReminderPayload) error
}

// AsynqReminderScheduler queues reminders on the shared Redis-backed queue;
// the worker in cron/ consumes them.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func (s *AsynqReminderScheduler) ScheduleCheckInReminder(ctx context.Context, payload ReminderPayload) error {
	checkIn, err := models.ParseDate(payload.CheckIn)
	if err != nil {
		return err
	}
	fireAt := checkIn.Add(-reminderLeadTime)
	if fireAt.Before(time.Now()) {
		// Last-minute booking: nothing to remind about.
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeCheckInReminder, body)
	_, err = s.Client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}
