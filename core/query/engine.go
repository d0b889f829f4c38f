package query

import (
	"time"

	"go.uber.org/zap"
)

// Spec is one query: predicates combined with AND, an optional ordering and
// the pagination parameters.
type Spec[T any] struct {
	Predicates []Predicate[T]
	Compare    Comparator[T]
	Page       int // 1-based
	PageSize   int
	// Summarize, when set, computes the page's aggregations from every
	// matching record.
	Summarize func(matched []T) map[string]any
}

// Engine runs list queries over in-memory collections. It holds no state
// between calls and is safe for concurrent use.
type Engine[T any] struct {
	logger *zap.Logger
}

// NewEngine creates a new Engine. A nil logger disables logging.
func NewEngine[T any](logger *zap.Logger) *Engine[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[T]{logger: logger}
}

// Run filters, orders and paginates records according to spec. records is
// never modified. The only error is a *UsageError for spec.PageSize < 1,
// reported before any work is done.
func (e *Engine[T]) Run(records []T, spec Spec[T]) (*ResultPage[T], error) {
	if err := checkPageSize(spec.PageSize); err != nil {
		e.logger.Debug("Rejected list query", zap.Int("pageSize", spec.PageSize), zap.Error(err))
		return nil, err
	}

	startTime := time.Now()
	matched := Evaluate(records, spec.Predicates, spec.Compare)
	page, err := Paginate(matched, spec.Page, spec.PageSize)
	if err != nil {
		return nil, err
	}
	if spec.Summarize != nil {
		page.Aggregations = spec.Summarize(matched)
	}

	e.logger.Debug("List query evaluated",
		zap.Int("records", len(records)),
		zap.Int("predicates", len(spec.Predicates)),
		zap.Int("matching", page.TotalMatching),
		zap.Int("page", page.Page),
		zap.Int("pageCount", page.PageCount),
		zap.Duration("took", time.Since(startTime)),
	)
	return page, nil
}

// Query is the single entry point for callers that need no logging: it
// filters records with predicates, orders them with compare (nil keeps input
// order) and returns the requested page.
func Query[T any](records []T, predicates []Predicate[T], compare Comparator[T], page, pageSize int) (*ResultPage[T], error) {
	return NewEngine[T](nil).Run(records, Spec[T]{
		Predicates: predicates,
		Compare:    compare,
		Page:       page,
		PageSize:   pageSize,
	})
}
