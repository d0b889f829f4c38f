package admin

import (
	"context"
	"fmt"

	"github.com/minhloc/listquery/core/persistence"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
	"github.com/minhloc/listquery/sqlite"
	"github.com/minhloc/listquery/utils"
	"go.uber.org/zap"
)

// HasPermission is a custom operator matching roles whose permissions list
// contains the argument or the "*" wildcard.
const HasPermission query.ComparisonOperator = "hasPermission"

// SourceFactory supplies the records for a collection.
type SourceFactory func(sc *schema.SchemaDefinition) (persistence.Source, error)

// MemorySources serves the seed from memory.
func MemorySources(seed Seed) (SourceFactory, error) {
	docs, err := seed.Documents()
	if err != nil {
		return nil, err
	}
	return func(sc *schema.SchemaDefinition) (persistence.Source, error) {
		records, ok := docs[sc.Name]
		if !ok {
			return nil, fmt.Errorf("no seed records for collection %q", sc.Name)
		}
		return persistence.NewMemorySource(records), nil
	}, nil
}

// StoreSources serves every collection from its table in store.
func StoreSources(store *sqlite.Store) SourceFactory {
	return func(sc *schema.SchemaDefinition) (persistence.Source, error) {
		return store.Source(sc), nil
	}
}

// SeedStore creates the console tables and fills the empty ones with seed.
// It returns the number of inserted records.
func SeedStore(ctx context.Context, store *sqlite.Store, seed Seed) (int, error) {
	docs, err := seed.Documents()
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, sc := range Schemas() {
		if err := store.CreateTable(ctx, sc); err != nil {
			return inserted, err
		}
		existing, err := store.Select(ctx, sc)
		if err != nil {
			return inserted, err
		}
		if len(existing) > 0 {
			continue
		}
		n, err := store.Insert(ctx, sc, docs[sc.Name])
		if err != nil {
			return inserted, fmt.Errorf("failed to seed %s: %w", sc.Name, err)
		}
		inserted += n
	}
	return inserted, nil
}

// Console serves the admin list screens.
type Console struct {
	persistence *persistence.Persistence
	screens     []Screen
	logger      *zap.Logger
}

// NewConsole registers every console collection with a source from sources.
// A nil logger disables logging.
func NewConsole(sources SourceFactory, logger *zap.Logger) (*Console, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	screens := Screens()
	for _, s := range screens {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	p, err := persistence.NewPersistence(logger)
	if err != nil {
		return nil, err
	}
	if err := p.Processor().RegisterFilterFunction(HasPermission, hasPermission); err != nil {
		return nil, err
	}

	for _, sc := range Schemas() {
		source, err := sources(sc)
		if err != nil {
			return nil, err
		}
		if _, err := p.Register(sc, source); err != nil {
			return nil, err
		}
	}
	return &Console{persistence: p, screens: screens, logger: logger}, nil
}

// Persistence returns the collection registry behind the console.
func (c *Console) Persistence() *persistence.Persistence {
	return c.persistence
}

// Screens returns the console screens in menu order.
func (c *Console) Screens() []Screen {
	return c.screens
}

// Screen returns the screen with the given name.
func (c *Console) Screen(name string) (Screen, error) {
	for _, s := range c.screens {
		if s.Name == name {
			return s, nil
		}
	}
	return Screen{}, fmt.Errorf("unknown screen %q", name)
}

// List returns the page of the named screen selected by req.
func (c *Console) List(ctx context.Context, screen string, req ListRequest) (*query.ResultPage[schema.Document], error) {
	s, err := c.Screen(screen)
	if err != nil {
		return nil, err
	}
	dsl, err := s.Build(req)
	if err != nil {
		c.logger.Debug("Rejected list request", zap.String("screen", screen), zap.Error(err))
		return nil, err
	}
	collection, err := c.persistence.Collection(s.Collection())
	if err != nil {
		return nil, err
	}
	return collection.List(ctx, dsl)
}

// ListAs is List with the page items decoded into T.
func ListAs[T any](ctx context.Context, c *Console, screen string, req ListRequest) (*query.ResultPage[T], error) {
	page, err := c.List(ctx, screen, req)
	if err != nil {
		return nil, err
	}
	items, err := utils.DocumentsToStructs[T](page.Items)
	if err != nil {
		return nil, err
	}
	return &query.ResultPage[T]{
		Items:         items,
		TotalMatching: page.TotalMatching,
		Page:          page.Page,
		PageSize:      page.PageSize,
		PageCount:     page.PageCount,
		Aggregations:  page.Aggregations,
	}, nil
}

func hasPermission(doc schema.Document, field string, args query.FilterValue) bool {
	want, ok := args.(string)
	if !ok {
		return false
	}
	var granted []string
	switch v := doc[field].(type) {
	case []string:
		granted = v
	case []any:
		for _, p := range v {
			if s, ok := p.(string); ok {
				granted = append(granted, s)
			}
		}
	}
	for _, p := range granted {
		if p == want || p == "*" {
			return true
		}
	}
	return false
}
