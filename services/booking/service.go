package booking

import (
	"context"
	"sync"

	recordsRepo "stayflow/database/repository/records"
	"stayflow/models"
	"stayflow/services/availability"
	"stayflow/services/ledger"
	"stayflow/services/notification"
	"stayflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the check-then-commit booking transaction.
type Service interface {
	Confirm(ctx context.Context, unitID, checkIn, checkOut string, guest models.GuestInfo) (models.BookingOutcome, error)
}

// DefaultBookingService holds a per-unit mutex across the availability
// check and the ledger commit so two concurrent confirmations for
// overlapping ranges cannot both pass the check.
type DefaultBookingService struct {
	Availability availability.Service
	Ledger       ledger.Service
	Records      recordsRepo.BookingRecordRepository
	Notifier     notification.NotificationService
	Reminders    ReminderScheduler

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDefaultBookingService(
	avail availability.Service,
	ledgerSvc ledger.Service,
	records recordsRepo.BookingRecordRepository,
	notifier notification.NotificationService,
	reminders ReminderScheduler,
) *DefaultBookingService {
	return &DefaultBookingService{
		Availability: avail,
		Ledger:       ledgerSvc,
		Records:      records,
		Notifier:     notifier,
		Reminders:    reminders,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (s *DefaultBookingService) unitLock(unitID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[unitID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[unitID] = m
	}
	return m
}

// Confirm verifies availability and commits a manual block for the stay,
// then runs best-effort side effects (booking record, guest notification,
// reminder scheduling) whose failures are reported as outcome flags.
func (s *DefaultBookingService) Confirm(ctx context.Context, unitID, checkIn, checkOut string, guest models.GuestInfo) (models.BookingOutcome, error) {
	logger := utils.GetLogger()

	// Serialize check+commit per unit: without this, two overlapping
	// confirmations can both observe "available" and both commit.
	mu := s.unitLock(unitID)
	mu.Lock()

	result, err := s.Availability.Check(ctx, unitID, checkIn, checkOut)
	if err != nil {
		mu.Unlock()
		return models.BookingOutcome{}, err
	}
	if !result.Available {
		mu.Unlock()
		return models.BookingOutcome{}, &DatesUnavailableError{Conflicts: result.Conflicts}
	}

	block, err := s.Ledger.Add(ctx, unitID, checkIn, checkOut)
	mu.Unlock()
	if err != nil {
		return models.BookingOutcome{}, err
	}

	outcome := models.BookingOutcome{
		BookingID: uuid.New().String(),
		UnitID:    unitID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		BlockUID:  block.UID,
	}

	// The block is committed; everything below degrades gracefully.
	record := models.BookingRecord{
		ID:       outcome.BookingID,
		UnitID:   unitID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guest:    guest,
		BlockUID: block.UID,
	}
	if _, err := s.Records.Create(ctx, record); err != nil {
		logger.Error("failed to persist booking record",
			zap.String("bookingID", outcome.BookingID), zap.Error(err))
	} else {
		outcome.RecordPersisted = true
	}

	if err := s.Notifier.SendBookingConfirmation(ctx, guest, result.UnitName, checkIn, checkOut); err != nil {
		logger.Error("failed to send booking confirmation",
			zap.String("bookingID", outcome.BookingID), zap.Error(err))
	} else {
		outcome.GuestNotified = true
	}

	if s.Reminders != nil {
		payload := ReminderPayload{
			BookingID: outcome.BookingID,
			UnitID:    unitID,
			UnitName:  result.UnitName,
			CheckIn:   checkIn,
			Guest:     guest,
		}
		if err := s.Reminders.ScheduleCheckInReminder(ctx, payload); err != nil {
			logger.Error("failed to schedule check-in reminder",
				zap.String("bookingID", outcome.BookingID), zap.Error(err))
		}
	}

	logger.Info("booking confirmed",
		zap.String("bookingID", outcome.BookingID),
		zap.String("unitID", unitID),
		zap.String("checkIn", checkIn),
		zap.String("checkOut", checkOut),
		zap.Bool("recordPersisted", outcome.RecordPersisted),
		zap.Bool("guestNotified", outcome.GuestNotified))
	return outcome, nil
}
