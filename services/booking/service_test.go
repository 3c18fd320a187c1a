package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"stayflow/models"
)

// fakeStay backs both the availability check and the ledger commit with one
// in-memory block list, so a committed block is visible to the next check.
type fakeStay struct {
	mu     sync.Mutex
	blocks []models.Interval
	adds   int
}

func (f *fakeStay) Check(ctx context.Context, unitID, checkIn, checkOut string) (models.AvailabilityResult, error) {
	requested, err := parseTestRange(checkIn, checkOut)
	if err != nil {
		return models.AvailabilityResult{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	conflicts := []models.Interval{}
	for _, iv := range f.blocks {
		if requested.Overlaps(iv) {
			conflicts = append(conflicts, iv)
		}
	}
	return models.AvailabilityResult{
		UnitID:    unitID,
		UnitName:  "Seaview Loft",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (f *fakeStay) Add(ctx context.Context, unitID, start, end string) (models.ManualBlock, error) {
	iv, err := parseTestRange(start, end)
	if err != nil {
		return models.ManualBlock{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks = append(f.blocks, iv)
	f.adds++
	return models.ManualBlock{
		UnitID: unitID,
		Start:  start,
		End:    end,
		UID:    fmt.Sprintf("blk-%d", f.adds),
	}, nil
}

func (f *fakeStay) Remove(ctx context.Context, unitID, start string) (bool, error) { return false, nil }
func (f *fakeStay) List(ctx context.Context, unitID string) ([]models.ManualBlock, error) {
	return nil, nil
}
func (f *fakeStay) RegenerateFeed(ctx context.Context, unitID string) error { return nil }

func parseTestRange(start, end string) (models.Interval, error) {
	s, err := models.ParseDate(start)
	if err != nil {
		return models.Interval{}, err
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return models.Interval{}, err
	}
	return models.Interval{Start: s, End: e}, nil
}

type fakeRecords struct {
	mu      sync.Mutex
	created []models.BookingRecord
	fail    bool
}

func (f *fakeRecords) Create(ctx context.Context, record models.BookingRecord) (string, error) {
	if f.fail {
		return "", errors.New("mongo down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, record)
	return record.ID, nil
}

func (f *fakeRecords) GetByUnitID(ctx context.Context, unitID string) ([]models.BookingRecord, error) {
	return nil, nil
}

func (f *fakeRecords) CountByGuestPhone(ctx context.Context, phone string) (int64, error) {
	return 0, nil
}

type fakeNotifier struct {
	confirmations int
	fail          bool
}

func (f *fakeNotifier) SendBookingConfirmation(ctx context.Context, guest models.GuestInfo, unitName, checkIn, checkOut string) error {
	if f.fail {
		return errors.New("webhook timeout")
	}
	f.confirmations++
	return nil
}

func (f *fakeNotifier) SendCheckInReminder(ctx context.Context, guest models.GuestInfo, unitName, checkIn string) error {
	return nil
}

type fakeReminders struct {
	scheduled []ReminderPayload
	fail      bool
}

func (f *fakeReminders) ScheduleCheckInReminder(ctx context.Context, payload ReminderPayload) error {
	if f.fail {
		return errors.New("redis down")
	}
	f.scheduled = append(f.scheduled, payload)
	return nil
}

var testGuest = models.GuestInfo{Name: "Ada", Phone: "+15550001111", Email: "ada@example.com"}

func TestConfirmHappyPath(t *testing.T) {
	stay := &fakeStay{}
	records := &fakeRecords{}
	notifier := &fakeNotifier{}
	reminders := &fakeReminders{}
	svc := NewDefaultBookingService(stay, stay, records, notifier, reminders)

	outcome, err := svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if outcome.BookingID == "" {
		t.Error("no booking id")
	}
	if outcome.BlockUID != "blk-1" {
		t.Errorf("BlockUID = %q", outcome.BlockUID)
	}
	if !outcome.RecordPersisted || !outcome.GuestNotified {
		t.Errorf("flags = persisted:%v notified:%v, want both true", outcome.RecordPersisted, outcome.GuestNotified)
	}
	if len(records.created) != 1 || records.created[0].Guest.Phone != testGuest.Phone {
		t.Errorf("booking record not persisted correctly: %+v", records.created)
	}
	if notifier.confirmations != 1 {
		t.Errorf("confirmations = %d", notifier.confirmations)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0].BookingID != outcome.BookingID {
		t.Errorf("reminder not scheduled: %+v", reminders.scheduled)
	}
}

func TestConfirmRejectsOverlap(t *testing.T) {
	stay := &fakeStay{}
	svc := NewDefaultBookingService(stay, stay, &fakeRecords{}, &fakeNotifier{}, &fakeReminders{})

	if _, err := svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}

	_, err := svc.Confirm(context.Background(), "seaview", "2026-03-04", "2026-03-08", testGuest)
	var unavailable *DatesUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want DatesUnavailableError", err)
	}
	if len(unavailable.Conflicts) != 1 {
		t.Errorf("got %d conflicts, want 1", len(unavailable.Conflicts))
	}
	if stay.adds != 1 {
		t.Errorf("ledger committed %d blocks, want 1", stay.adds)
	}
}

func TestConfirmBackToBackStays(t *testing.T) {
	stay := &fakeStay{}
	svc := NewDefaultBookingService(stay, stay, &fakeRecords{}, &fakeNotifier{}, &fakeReminders{})

	if _, err := svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	// Checkout day equals the next check-in day; no conflict.
	if _, err := svc.Confirm(context.Background(), "seaview", "2026-03-05", "2026-03-08", testGuest); err != nil {
		t.Fatalf("back-to-back Confirm: %v", err)
	}
	if stay.adds != 2 {
		t.Errorf("ledger committed %d blocks, want 2", stay.adds)
	}
}

func TestConfirmConcurrentOverlapAdmitsOne(t *testing.T) {
	stay := &fakeStay{}
	svc := NewDefaultBookingService(stay, stay, &fakeRecords{}, &fakeNotifier{}, &fakeReminders{})

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var unavailable *DatesUnavailableError
		if !errors.As(err, &unavailable) {
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("%d confirmations succeeded, want exactly 1", successes)
	}
	if stay.adds != 1 {
		t.Errorf("ledger committed %d blocks, want 1", stay.adds)
	}
}

func TestConfirmSideEffectFailuresDowngradeToFlags(t *testing.T) {
	stay := &fakeStay{}
	svc := NewDefaultBookingService(stay, stay,
		&fakeRecords{fail: true},
		&fakeNotifier{fail: true},
		&fakeReminders{fail: true})

	outcome, err := svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest)
	if err != nil {
		t.Fatalf("Confirm must succeed despite side-effect failures, got %v", err)
	}
	if outcome.RecordPersisted {
		t.Error("RecordPersisted = true, want false")
	}
	if outcome.GuestNotified {
		t.Error("GuestNotified = true, want false")
	}
	if stay.adds != 1 {
		t.Errorf("block not committed: adds = %d", stay.adds)
	}
}

func TestConfirmWithoutReminderScheduler(t *testing.T) {
	stay := &fakeStay{}
	svc := NewDefaultBookingService(stay, stay, &fakeRecords{}, &fakeNotifier{}, nil)

	if _, err := svc.Confirm(context.Background(), "seaview", "2026-03-01", "2026-03-05", testGuest); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
}
