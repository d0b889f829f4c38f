// Package persistence binds list-screen collections to the sources that
// supply their records and reports every list query as an event.
package persistence

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/asaidimu/go-events"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
	"go.uber.org/zap"
)

var (
	// ErrCollectionExists is returned when registering a name twice.
	ErrCollectionExists = errors.New("collection already exists")
	// ErrCollectionNotFound is returned for names that were never registered.
	ErrCollectionNotFound = errors.New("collection does not exist")
)

// Persistence is the registry of collections. All collections share one
// event bus and one query processor, so custom operators registered on the
// processor are available everywhere.
type Persistence struct {
	mu            sync.RWMutex
	collections   map[string]*Collection
	processor     *query.Processor
	bus           *events.TypedEventBus[PersistenceEvent]
	logger        *zap.Logger
	subscriptions *subscriptions
}

// NewPersistence creates an empty registry. A nil logger disables logging.
func NewPersistence(logger *zap.Logger) (*Persistence, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := events.NewTypedEventBus[PersistenceEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &Persistence{
		collections:   make(map[string]*Collection),
		processor:     query.NewProcessor(logger),
		bus:           bus,
		logger:        logger,
		subscriptions: newSubscriptions(),
	}, nil
}

// Processor returns the query processor shared by every collection.
func (p *Persistence) Processor() *query.Processor {
	return p.processor
}

// Register adds a collection for sc backed by source.
func (p *Persistence) Register(sc *schema.SchemaDefinition, source Source) (*Collection, error) {
	collection, err := NewCollection(p.bus, sc, source, p.processor, p.logger)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.collections[sc.Name]; ok {
		return nil, fmt.Errorf("failed to register %q: %w", sc.Name, ErrCollectionExists)
	}
	p.collections[sc.Name] = collection
	p.logger.Debug("Registered collection", zap.String("collection", sc.Name), zap.Int("fields", len(sc.Fields)))
	return collection, nil
}

// Collection returns the collection registered under name.
func (p *Persistence) Collection(name string) (*Collection, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	collection, ok := p.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, ErrCollectionNotFound)
	}
	return collection, nil
}

// Collections returns the names of all registered collections in
// alphabetical order.
func (p *Persistence) Collections() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.collections))
	for name := range p.collections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Schema retrieves the schema definition for a given collection name.
func (p *Persistence) Schema(name string) (*schema.SchemaDefinition, error) {
	collection, err := p.Collection(name)
	if err != nil {
		return nil, err
	}
	return collection.Schema(), nil
}

// RegisterSubscription registers a callback for a persistence event raised
// by any collection. It returns an id for UnregisterSubscription.
func (p *Persistence) RegisterSubscription(options RegisterSubscriptionOptions) string {
	return p.subscriptions.add(p.bus, options, nil)
}

// UnregisterSubscription removes a subscription by its ID.
func (p *Persistence) UnregisterSubscription(id string) {
	p.subscriptions.remove(id)
}

// Subscriptions returns a list of all currently active subscriptions.
func (p *Persistence) Subscriptions() []SubscriptionInfo {
	return p.subscriptions.list()
}
