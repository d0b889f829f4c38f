package persistence

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"github.com/minhloc/listquery/core/query"
)

// emitEvent is a helper method to emit events
func (c *Collection) emitEvent(event PersistenceEvent) {
	if c.bus != nil {
		c.bus.Emit(string(event.Type), event)
	}
}

// withEventEmission wraps an operation with start, success, and failure events
func (c *Collection) withEventEmission(
	operation string,
	startEventType PersistenceEventType,
	successEventType PersistenceEventType,
	failedEventType PersistenceEventType,
	q *query.QueryDSL,
	fn func() (any, any, error),
) (any, error) {
	startTime := time.Now()

	c.emitEvent(createEvent(startEventType, operation, c.schema.Name, nil, nil, q, nil, startTime))

	result, summary, err := fn()
	if err != nil {
		c.emitEvent(createEvent(failedEventType, operation, c.schema.Name, nil, nil, q, err, startTime))
		return nil, err
	}

	c.emitEvent(createEvent(successEventType, operation, c.schema.Name, nil, summary, q, nil, startTime))
	return result, nil
}

// subscriptions keeps the unsubscribe functions of bus subscriptions by id.
type subscriptions struct {
	mu   sync.RWMutex
	subs map[string]*SubscriptionInfo
}

func newSubscriptions() *subscriptions {
	return &subscriptions{subs: make(map[string]*SubscriptionInfo)}
}

// add subscribes options.Callback to bus. When accept is non-nil, events it
// rejects are not delivered.
func (s *subscriptions) add(
	bus *events.TypedEventBus[PersistenceEvent],
	options RegisterSubscriptionOptions,
	accept func(PersistenceEvent) bool,
) string {
	callback := options.Callback
	unsubscribe := bus.Subscribe(string(options.Event), func(ctx context.Context, event PersistenceEvent) error {
		if callback == nil || (accept != nil && !accept(event)) {
			return nil
		}
		return callback(ctx, event)
	})

	id := uuid.New().String()
	s.mu.Lock()
	s.subs[id] = &SubscriptionInfo{
		Id:          id,
		Event:       options.Event,
		Label:       options.Label,
		Description: options.Description,
		Unsubscribe: unsubscribe,
	}
	s.mu.Unlock()
	return id
}

// remove unsubscribes id and reports whether it was registered.
func (s *subscriptions) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.subs[id]
	if !ok {
		return false
	}
	if info.Unsubscribe != nil {
		info.Unsubscribe()
	}
	delete(s.subs, id)
	return true
}

// list returns the registered subscriptions ordered by id.
func (s *subscriptions) list() []SubscriptionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SubscriptionInfo, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	slices.SortFunc(out, func(a, b SubscriptionInfo) int {
		return strings.Compare(a.Id, b.Id)
	})
	return out
}
