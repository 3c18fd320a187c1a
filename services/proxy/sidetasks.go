package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stayflow/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Contact is a chat sender's contact record.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ContactStore persists contact records and remembers which conversations
// have already been labeled.
type ContactStore interface {
	// UpsertContact is idempotent: repeated upserts of the same sender
	// converge on one record.
	UpsertContact(ctx context.Context, c Contact) error
	// TryMarkLabeled returns true exactly once per conversation id.
	TryMarkLabeled(ctx context.Context, conversationID string) (bool, error)
}

// RedisContactStore keys contacts by phone (falling back to email).
type RedisContactStore struct {
	Client *redis.Client
}

func (s *RedisContactStore) UpsertContact(ctx context.Context, c Contact) error {
	key := c.Phone
	if key == "" {
		key = c.Email
	}
	if key == "" {
		return nil // anonymous sender, nothing to store
	}
	return s.Client.HSet(ctx, "contact:"+key,
		"name", c.Name,
		"phone", c.Phone,
		"email", c.Email,
	).Err()
}

func (s *RedisContactStore) TryMarkLabeled(ctx context.Context, conversationID string) (bool, error) {
	return s.Client.SetNX(ctx, "conversation_labeled:"+conversationID, "1", 0).Result()
}

// ConversationLabeler applies a label to a chat conversation.
type ConversationLabeler interface {
	Label(ctx context.Context, conversationID, label string) error
}

// ChatAPILabeler posts labels to the chat platform's conversation API.
type ChatAPILabeler struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewChatAPILabeler(baseURL, token string) *ChatAPILabeler {
	return &ChatAPILabeler{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *ChatAPILabeler) Label(ctx context.Context, conversationID, label string) error {
	if l.BaseURL == "" {
		utils.GetLogger().Debug("chat API not configured, skipping label",
			zap.String("conversationID", conversationID), zap.String("label", label))
		return nil
	}

	body, err := json.Marshal(map[string][]string{"labels": {label}})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/conversations/%s/labels", l.BaseURL, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", l.Token)

	resp, err := l.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat API returned %s", resp.Status)
	}
	return nil
}

// Conversation labels for the new-vs-returning side task.
const (
	labelReturningGuest = "returning_guest"
	labelNewGuest       = "new_guest"
)

// upsertContact is the per-message contact side task.
func (s *DefaultProxyService) upsertContact(ctx context.Context, contact Contact) error {
	if s.Contacts == nil {
		return nil
	}
	return s.Contacts.UpsertContact(ctx, contact)
}

// labelConversation labels a conversation once, as new or returning,
// depending on whether the sender has prior bookings.
func (s *DefaultProxyService) labelConversation(ctx context.Context, conversationID string, contact Contact) error {
	if s.Contacts == nil || s.Labeler == nil || conversationID == "" {
		return nil
	}

	first, err := s.Contacts.TryMarkLabeled(ctx, conversationID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	label := labelNewGuest
	if contact.Phone != "" && s.History != nil {
		count, err := s.History.CountByGuestPhone(ctx, contact.Phone)
		if err != nil {
			return fmt.Errorf("booking history lookup: %w", err)
		}
		if count > 0 {
			label = labelReturningGuest
		}
	}
	return s.Labeler.Label(ctx, conversationID, label)
}
