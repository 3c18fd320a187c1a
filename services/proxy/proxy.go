package proxy

import (
	"context"
	"strings"
	"sync"
	"time"

	recordsRepo "stayflow/database/repository/records"
	"stayflow/utils"

	"go.uber.org/zap"
)

// Service ingests raw chat webhook payloads. Qualifying incoming text
// messages are coalesced per conversation; everything else is forwarded
// downstream as-is.
type Service interface {
	HandleEvent(ctx context.Context, body []byte) error
}

// burst is one conversation's open accumulation of messages awaiting
// flush. It exists only while the conversation is in the PENDING state.
type burst struct {
	messages []string
	template *inboundEvent // newest raw event; consolidated text is substituted into it
	timer    *time.Timer
	gen      uint64 // incremented on every reschedule; checked at fire time
}

// DefaultProxyService implements the per-conversation trailing-edge
// debounce. One mutex guards the burst map; the critical sections are map
// and slice manipulation only, never network I/O, so a single lock is
// enough to serialize flush-vs-append per conversation without contending
// on forwards.
type DefaultProxyService struct {
	Window    time.Duration
	Forwarder Forwarder
	Contacts  ContactStore
	Labeler   ConversationLabeler
	History   recordsRepo.BookingRecordRepository

	mu     sync.Mutex
	bursts map[string]*burst
}

func NewDefaultProxyService(window time.Duration, fwd Forwarder, contacts ContactStore, labeler ConversationLabeler, history recordsRepo.BookingRecordRepository) *DefaultProxyService {
	if window <= 0 {
		window = 4 * time.Second
	}
	return &DefaultProxyService{
		Window:    window,
		Forwarder: fwd,
		Contacts:  contacts,
		Labeler:   labeler,
		History:   history,
		bursts:    make(map[string]*burst),
	}
}

// HandleEvent routes one inbound webhook payload. It returns quickly: the
// downstream forward always happens on a background task so a slow
// downstream cannot back up the webhook ingress.
func (s *DefaultProxyService) HandleEvent(ctx context.Context, body []byte) error {
	ev, err := parseEvent(body)
	if err != nil {
		return err
	}

	if !ev.coalescable() {
		s.spawn("forward passthrough", func(ctx context.Context) error {
			return s.Forwarder.Forward(ctx, ev.payload())
		})
		return nil
	}

	convID := ev.conversationID()
	contact := ev.sender()

	// Per-message side tasks, fire-and-forget: their failures are logged
	// by the spawn boundary and never surface to the chat flow.
	s.spawn("contact upsert", func(ctx context.Context) error {
		return s.upsertContact(ctx, contact)
	})
	s.spawn("conversation labeling", func(ctx context.Context) error {
		return s.labelConversation(ctx, convID, contact)
	})

	s.coalesce(convID, ev)
	return nil
}

// coalesce appends the event to the conversation's burst, opening one if
// needed, and restarts the quiet-window clock.
func (s *DefaultProxyService) coalesce(convID string, ev *inboundEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bursts[convID]
	if !ok {
		// IDLE -> PENDING
		b = &burst{}
		s.bursts[convID] = b
	} else if b.timer != nil {
		// Cancel the scheduled flush. Stop may race with the timer having
		// already fired; the generation check below makes the stale flush
		// a no-op either way.
		b.timer.Stop()
	}

	b.messages = append(b.messages, ev.content())
	b.template = ev
	b.gen++

	gen := b.gen
	b.timer = time.AfterFunc(s.Window, func() {
		s.flush(convID, gen)
	})
}

// flush closes the conversation's burst if it is still the one this timer
// was scheduled for, then forwards the consolidated payload exactly once.
func (s *DefaultProxyService) flush(convID string, gen uint64) {
	s.mu.Lock()
	b, ok := s.bursts[convID]
	if !ok || b.gen != gen {
		// A newer message rescheduled the flush after this timer was
		// created; that newer timer owns the burst now.
		s.mu.Unlock()
		return
	}
	delete(s.bursts, convID)
	s.mu.Unlock()

	consolidated := strings.Join(b.messages, "\n")
	b.template.setConsolidatedContent(consolidated)

	utils.GetLogger().Debug("flushing coalesced burst",
		zap.String("conversationID", convID),
		zap.Int("messages", len(b.messages)))

	s.spawn("forward consolidated burst", func(ctx context.Context) error {
		return s.Forwarder.Forward(ctx, b.template.payload())
	})
}

// spawn runs a background task under a supervising boundary: panics are
// recovered and failures logged, never silently swallowed and never
// propagated to the ingress path. The consolidated message is not retried
// on forward failure; it is logged and dropped.
func (s *DefaultProxyService) spawn(name string, fn func(ctx context.Context) error) {
	go func() {
		logger := utils.GetLogger()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("background task panicked",
					zap.String("task", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Error("background task failed",
				zap.String("task", name), zap.Error(err))
		}
	}()
}
