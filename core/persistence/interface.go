package persistence

import (
	"context"

	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
)

// PersistenceEventType names an event emitted by a collection.
type PersistenceEventType string

const (
	ListStart              PersistenceEventType = "list:start"
	ListSuccess            PersistenceEventType = "list:success"
	ListFailed             PersistenceEventType = "list:failed"
	SubscriptionRegister   PersistenceEventType = "subscription:register"
	SubscriptionUnregister PersistenceEventType = "subscription:unregister"
)

// PersistenceEvent represents events emitted during collection operations.
type PersistenceEvent struct {
	Type       PersistenceEventType `json:"type"`                 // The type of event (e.g., 'list:start').
	Timestamp  int64                `json:"timestamp"`            // Unix milliseconds.
	Operation  string               `json:"operation"`            // The operation being performed (e.g., 'list').
	Collection string               `json:"collection,omitempty"` // Name of the collection affected.
	Input      any                  `json:"input,omitempty"`
	Output     any                  `json:"output,omitempty"`
	Error      *string              `json:"error,omitempty"`
	Query      *query.QueryDSL      `json:"query,omitempty"`
	Duration   *int64               `json:"duration,omitempty"` // milliseconds
}

// EventCallbackFunction receives emitted events. Returned errors are reported
// by the event bus and do not affect the operation that emitted the event.
type EventCallbackFunction func(ctx context.Context, event PersistenceEvent) error

// SubscriptionInfo describes a subscription configuration.
type SubscriptionInfo struct {
	Id          string               `json:"id"`
	Event       PersistenceEventType `json:"event"`                 // The event subscribed to.
	Label       *string              `json:"label,omitempty"`       // Optional short identifier.
	Description *string              `json:"description,omitempty"` // Optional description.
	Unsubscribe func()               `json:"-"`
}

// RegisterSubscriptionOptions configures RegisterSubscription.
type RegisterSubscriptionOptions struct {
	Event       PersistenceEventType `json:"event"`
	Label       *string              `json:"label,omitempty"`
	Description *string              `json:"description,omitempty"`
	Callback    EventCallbackFunction
}

// PersistenceCollectionInterface is the read side of a collection as seen by
// list screens.
type PersistenceCollectionInterface interface {
	Name() string
	Schema() *schema.SchemaDefinition
	List(ctx context.Context, dsl query.QueryDSL) (*query.ResultPage[schema.Document], error)
	RegisterSubscription(options RegisterSubscriptionOptions) string
	UnregisterSubscription(id string)
	Subscriptions() []SubscriptionInfo
}
