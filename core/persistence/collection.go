package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
	"go.uber.org/zap"
)

// Collection binds a schema to the source of its records and answers list
// queries over them.
type Collection struct {
	schema        *schema.SchemaDefinition
	source        Source
	processor     *query.Processor
	engine        *query.Engine[schema.Document]
	bus           *events.TypedEventBus[PersistenceEvent]
	logger        *zap.Logger
	subscriptions *subscriptions
}

var _ PersistenceCollectionInterface = (*Collection)(nil)

// NewCollection creates a collection. A nil bus gives the collection a bus of
// its own, a nil processor a processor without custom operators and a nil
// logger disables logging.
func NewCollection(
	bus *events.TypedEventBus[PersistenceEvent],
	sc *schema.SchemaDefinition,
	source Source,
	processor *query.Processor,
	logger *zap.Logger,
) (*Collection, error) {
	if sc == nil || sc.Name == "" {
		return nil, fmt.Errorf("collection schema must have a name")
	}
	if source == nil {
		return nil, fmt.Errorf("collection %q has no source", sc.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if processor == nil {
		processor = query.NewProcessor(logger)
	}
	if bus == nil {
		b, err := events.NewTypedEventBus[PersistenceEvent](events.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("could not initialize event bus: %w", err)
		}
		bus = b
	}

	return &Collection{
		schema:        sc,
		source:        source,
		processor:     processor,
		engine:        query.NewEngine[schema.Document](logger),
		bus:           bus,
		logger:        logger.With(zap.String("collection", sc.Name)),
		subscriptions: newSubscriptions(),
	}, nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.schema.Name
}

// Schema returns the collection schema.
func (c *Collection) Schema() *schema.SchemaDefinition {
	return c.schema
}

// List compiles dsl against the collection schema, fetches the records and
// returns the requested page. Invalid queries fail before the source is
// touched.
func (c *Collection) List(ctx context.Context, dsl query.QueryDSL) (*query.ResultPage[schema.Document], error) {
	result, err := c.withEventEmission("list", ListStart, ListSuccess, ListFailed, &dsl, func() (any, any, error) {
		spec, err := c.processor.Compile(dsl, c.schema)
		if err != nil {
			return nil, nil, err
		}

		startTime := time.Now()
		docs, err := c.source.Fetch(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch collection %q: %w", c.schema.Name, err)
		}
		c.logger.Debug("Fetched collection", zap.Int("records", len(docs)), zap.Duration("took", time.Since(startTime)))

		page, err := c.engine.Run(docs, spec)
		if err != nil {
			return nil, nil, err
		}
		summary := map[string]any{
			"totalMatching": page.TotalMatching,
			"page":          page.Page,
			"pageCount":     page.PageCount,
		}
		return page, summary, nil
	})
	if err != nil {
		c.logger.Warn("List query failed", zap.Error(err))
		return nil, err
	}
	return result.(*query.ResultPage[schema.Document]), nil
}

// RegisterSubscription registers a callback for events of this collection.
func (c *Collection) RegisterSubscription(options RegisterSubscriptionOptions) string {
	name := c.schema.Name
	id := c.subscriptions.add(c.bus, options, func(event PersistenceEvent) bool {
		return event.Collection == name
	})

	c.emitEvent(createEvent(
		SubscriptionRegister,
		"register_subscription",
		name,
		map[string]any{
			"event":       options.Event,
			"label":       options.Label,
			"description": options.Description,
		},
		map[string]any{"subscriptionId": id},
		nil,
		nil,
		time.Time{},
	))
	return id
}

// UnregisterSubscription unregisters a collection-scoped subscription.
// Unknown ids are ignored.
func (c *Collection) UnregisterSubscription(id string) {
	if !c.subscriptions.remove(id) {
		return
	}
	c.emitEvent(createEvent(
		SubscriptionUnregister,
		"unregister_subscription",
		c.schema.Name,
		map[string]any{"subscriptionId": id},
		nil,
		nil,
		nil,
		time.Time{},
	))
}

// Subscriptions returns all registered collection-scoped subscriptions.
func (c *Collection) Subscriptions() []SubscriptionInfo {
	return c.subscriptions.list()
}
