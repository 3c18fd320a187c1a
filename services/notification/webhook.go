package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stayflow/models"
	"stayflow/utils"

	"go.uber.org/zap"
)

// WebhookNotificationService posts guest messages to an outbound automation
// webhook (the chat pipeline owns formatting and channel choice; this
// service only hands over the facts).
type WebhookNotificationService struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotificationService(url string) *WebhookNotificationService {
	return &WebhookNotificationService{
		URL:    url,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type guestMessage struct {
	Kind     string           `json:"kind"`
	Guest    models.GuestInfo `json:"guest"`
	UnitName string           `json:"unit_name"`
	CheckIn  string           `json:"check_in"`
	CheckOut string           `json:"check_out,omitempty"`
}

func (s *WebhookNotificationService) SendBookingConfirmation(ctx context.Context, guest models.GuestInfo, unitName, checkIn, checkOut string) error {
	return s.post(ctx, guestMessage{
		Kind:     "booking_confirmation",
		Guest:    guest,
		UnitName: unitName,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
}

func (s *WebhookNotificationService) SendCheckInReminder(ctx context.Context, guest models.GuestInfo, unitName, checkIn string) error {
	return s.post(ctx, guestMessage{
		Kind:     "checkin_reminder",
		Guest:    guest,
		UnitName: unitName,
		CheckIn:  checkIn,
	})
}

func (s *WebhookNotificationService) post(ctx context.Context, msg guestMessage) error {
	if s.URL == "" {
		return errors.New("notification webhook not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %s", resp.Status)
	}

	utils.GetLogger().Debug("guest notification delivered",
		zap.String("kind", msg.Kind),
		zap.String("unit", msg.UnitName))
	return nil
}
