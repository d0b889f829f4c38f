package admin

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/minhloc/listquery/core/persistence"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
	"github.com/minhloc/listquery/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func memoryConsole(t *testing.T) *Console {
	t.Helper()
	sources, err := MemorySources(SeedRecords())
	require.NoError(t, err)
	console, err := NewConsole(sources, zaptest.NewLogger(t))
	require.NoError(t, err)
	return console
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewStore(db, zaptest.NewLogger(t), nil)
}

func sqliteConsole(t *testing.T) *Console {
	t.Helper()
	store := openStore(t)
	_, err := SeedStore(context.Background(), store, SeedRecords())
	require.NoError(t, err)
	console, err := NewConsole(StoreSources(store), zaptest.NewLogger(t))
	require.NoError(t, err)
	return console
}

func ids(t *testing.T, page *query.ResultPage[schema.Document]) []int {
	t.Helper()
	out := make([]int, len(page.Items))
	for i, doc := range page.Items {
		id, ok := query.ToFloat64(doc["id"])
		require.True(t, ok, "id of item %d", i)
		out[i] = int(id)
	}
	return out
}

func TestSeedRecords_ConformToSchemas(t *testing.T) {
	docs, err := SeedRecords().Documents()
	require.NoError(t, err)
	require.Len(t, docs, 5)

	for _, sc := range Schemas() {
		validator := schema.NewValidator(sc)
		require.NotEmpty(t, docs[sc.Name], sc.Name)
		for i, doc := range docs[sc.Name] {
			ok, issues := validator.Validate(doc, false)
			assert.True(t, ok, "%s[%d]: %v", sc.Name, i, issues)
		}
	}
}

func TestNewConsole(t *testing.T) {
	console := memoryConsole(t)
	assert.Equal(t, []string{
		ActivityLogsCollection,
		CustomersCollection,
		ApplicationsCollection,
		PositionsCollection,
		RolesCollection,
	}, console.Persistence().Collections())
	assert.Len(t, console.Screens(), 5)

	_, err := NewConsole(func(sc *schema.SchemaDefinition) (persistence.Source, error) {
		return nil, errors.New("no database")
	}, nil)
	assert.EqualError(t, err, "no database")
}

func TestConsoleList_Customers(t *testing.T) {
	console := memoryConsole(t)
	ctx := context.Background()
	low := 10_000_000.0

	tests := []struct {
		name  string
		req   ListRequest
		ids   []int
		total int
	}{
		{"newest first by default", ListRequest{}, []int{8, 7, 6, 5, 4, 3, 2, 1}, 8},
		{"search name and email", ListRequest{Search: "ANH"}, []int{4}, 1},
		{"search without match", ListRequest{Search: "không tồn tại"}, []int{}, 0},
		{"single facet", ListRequest{Facets: map[string]string{"status": "active"}}, []int{7, 5, 3, 1}, 4},
		{"all facet", ListRequest{Facets: map[string]string{"status": AllValue}}, []int{8, 7, 6, 5, 4, 3, 2, 1}, 8},
		{
			"several facets",
			ListRequest{Facets: map[string]string{"status": "active,potential", "type": "individual"}},
			[]int{7, 5, 4, 1},
			4,
		},
		{"range", ListRequest{Ranges: map[string]query.Range{"totalSpent": {Min: &low}}}, []int{5, 3, 1}, 3},
		{"stable sort and page", ListRequest{SortField: "totalSpent", Page: 2, PageSize: 3}, []int{8, 7, 1}, 8},
		{"first page of ties", ListRequest{SortField: "totalSpent", PageSize: 3}, []int{2, 4, 6}, 8},
		{"page past the end", ListRequest{Page: 4, PageSize: 3}, []int{}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := console.List(ctx, "customers", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.ids, ids(t, page))
			assert.Equal(t, tt.total, page.TotalMatching)
		})
	}
}

func TestConsoleList_Aggregations(t *testing.T) {
	console := memoryConsole(t)
	ctx := context.Background()

	page, err := console.List(ctx, "customers", ListRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.PageCount)
	assert.Equal(t, map[string]any{
		"customers":    8,
		"revenue":      316_900_000.0,
		"averageSpent": 39_612_500.0,
	}, page.Aggregations)

	page, err = console.List(ctx, "customers", ListRequest{Search: "không tồn tại"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"customers": 0, "revenue": 0.0}, page.Aggregations)

	page, err = console.List(ctx, "activity-logs", ListRequest{Facets: map[string]string{"module": "auth", "status": "failed"}})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids(t, page))
	assert.Equal(t, "2024-06-01T13:45:00Z", page.Aggregations["latest"])
}

func TestConsoleList_Errors(t *testing.T) {
	console := memoryConsole(t)
	ctx := context.Background()

	_, err := console.List(ctx, "news", ListRequest{})
	assert.Error(t, err)

	_, err = console.List(ctx, "customers", ListRequest{PageSize: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, query.ErrInvalidPageSize))

	_, err = console.List(ctx, "customers", ListRequest{Facets: map[string]string{"phone": "0901"}})
	var verr query.QueryValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "phone", verr.Field)
}

func TestConsoleList_HasPermission(t *testing.T) {
	console := memoryConsole(t)

	page, err := console.List(context.Background(), "user-roles", ListRequest{
		Conditions: []query.QueryFilter{query.CreateSimpleFilter("permissions", HasPermission, "customers.read")},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, ids(t, page))

	assert.True(t, hasPermission(schema.Document{"p": []string{"news.read"}}, "p", "news.read"))
	assert.False(t, hasPermission(schema.Document{"p": []string{"news.read"}}, "p", "news.write"))
	assert.False(t, hasPermission(schema.Document{"p": "news.read"}, "p", "news.read"))
	assert.False(t, hasPermission(schema.Document{"p": []any{"*"}}, "p", 42))
}

func TestSeedStore(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	n, err := SeedStore(ctx, store, SeedRecords())
	require.NoError(t, err)
	assert.Equal(t, 35, n)

	n, err = SeedStore(ctx, store, SeedRecords())
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := store.Select(ctx, CustomerSchema())
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}

func TestConsoleList_SQLite(t *testing.T) {
	console := sqliteConsole(t)
	ctx := context.Background()

	page, err := console.List(ctx, "job-positions", ListRequest{Facets: map[string]string{"department": "marketing"}})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2}, ids(t, page))
	assert.Equal(t, 2, page.Aggregations["positions"])
	assert.Equal(t, 13.0, page.Aggregations["applicants"])

	page, err = console.List(ctx, "job-applications", ListRequest{Facets: map[string]string{"status": "interview"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7}, ids(t, page))
	assert.InDelta(t, 8.25, page.Aggregations["averageScore"], 1e-9)
	assert.Equal(t, 8.5, page.Aggregations["bestScore"])

	page, err = console.List(ctx, "user-roles", ListRequest{
		Facets:     map[string]string{"status": "active"},
		Conditions: []query.QueryFilter{query.CreateSimpleFilter("permissions", HasPermission, "careers.write")},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids(t, page))
}

func TestListAs(t *testing.T) {
	for name, console := range map[string]*Console{
		"memory": memoryConsole(t),
		"sqlite": sqliteConsole(t),
	} {
		t.Run(name, func(t *testing.T) {
			page, err := ListAs[JobPosition](context.Background(), console, "job-positions", ListRequest{
				Search:   "hà nội",
				PageSize: 1,
			})
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, 2, page.TotalMatching)
			assert.Equal(t, 2, page.PageCount)

			position := page.Items[0]
			assert.Equal(t, 5, position.ID)
			assert.Equal(t, "Thực tập sinh thiết kế", position.Title)
			assert.Equal(t, "internship", position.Type)
			assert.Equal(t, 4_000_000.0, position.SalaryMin)
			assert.True(t, position.PostedAt.Equal(time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)))
		})
	}
}
