package admin

import (
	"errors"
	"testing"

	"github.com/minhloc/listquery/core/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customersScreen(t *testing.T) Screen {
	t.Helper()
	s, err := LookupScreen("customers")
	require.NoError(t, err)
	return s
}

func TestScreens(t *testing.T) {
	screens := Screens()
	require.Len(t, screens, 5)

	collections := map[string]bool{}
	for _, s := range screens {
		assert.NoError(t, s.Validate(), s.Name)
		collections[s.Collection()] = true
	}
	assert.Len(t, collections, 5)

	_, err := LookupScreen("news")
	assert.Error(t, err)
}

func TestScreen_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Screen)
		errMsg string
	}{
		{"missing title", func(s *Screen) { s.Title = "" }, "Title"},
		{"missing schema", func(s *Screen) { s.Schema = nil }, "Schema"},
		{"zero page size", func(s *Screen) { s.DefaultPageSize = 0 }, "DefaultPageSize"},
		{"blank facet", func(s *Screen) { s.Facets = append(s.Facets, "") }, "Facets"},
		{"unknown facet", func(s *Screen) { s.Facets = []string{"rank"} }, "facet rank is not a field"},
		{"facet not filterable", func(s *Screen) { s.Facets = []string{"email"} }, "field email cannot be used as a facet"},
		{"range on text", func(s *Screen) { s.Ranges = []string{"type"} }, "field type cannot be used as a range"},
		{"search not searchable", func(s *Screen) { s.SearchFields = []string{"totalSpent"} }, "cannot be used as a search field"},
		{"sort not sortable", func(s *Screen) {
			s.DefaultSort = []query.SortConfiguration{{Field: "phone", Direction: query.SortDirectionAsc}}
		}, "cannot be used as a sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := customersScreen(t)
			tt.modify(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestScreenBuild_Defaults(t *testing.T) {
	dsl, err := customersScreen(t).Build(ListRequest{})
	require.NoError(t, err)

	assert.Nil(t, dsl.Search)
	assert.Nil(t, dsl.Filters)
	assert.Equal(t, []query.SortConfiguration{
		{Field: "createdAt", Direction: query.SortDirectionDesc},
		{Field: "id", Direction: query.SortDirectionAsc},
	}, dsl.Sort)
	require.NotNil(t, dsl.Pagination)
	assert.Equal(t, query.PaginationOptions{Page: 1, PageSize: 10}, *dsl.Pagination)
	assert.Len(t, dsl.Aggregations, 3)

	logs, err := LookupScreen("activity-logs")
	require.NoError(t, err)
	dsl, err = logs.Build(ListRequest{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, query.PaginationOptions{Page: 3, PageSize: 20}, *dsl.Pagination)
}

func TestScreenBuild_Search(t *testing.T) {
	s := customersScreen(t)

	dsl, err := s.Build(ListRequest{Search: "   "})
	require.NoError(t, err)
	assert.Nil(t, dsl.Search)

	dsl, err = s.Build(ListRequest{Search: "  minh anh "})
	require.NoError(t, err)
	require.NotNil(t, dsl.Search)
	assert.Equal(t, "minh anh", dsl.Search.Term)
	assert.Empty(t, dsl.Search.Fields)

	positions, err := LookupScreen("job-positions")
	require.NoError(t, err)
	dsl, err = positions.Build(ListRequest{Search: "hà nội"})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "location"}, dsl.Search.Fields)
}

func TestScreenBuild_Facets(t *testing.T) {
	tests := []struct {
		name     string
		facets   map[string]string
		operator query.ComparisonOperator
		value    query.FilterValue
	}{
		{"single value", map[string]string{"status": "active"}, query.ComparisonOperatorEq, "active"},
		{"several values", map[string]string{"status": "active, potential"}, query.ComparisonOperatorIn, []query.FilterValue{"active", "potential"}},
		{"ignores blanks", map[string]string{"status": ",active,"}, query.ComparisonOperatorEq, "active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsl, err := customersScreen(t).Build(ListRequest{Facets: tt.facets})
			require.NoError(t, err)
			require.NotNil(t, dsl.Filters)
			require.NotNil(t, dsl.Filters.Condition)
			assert.Equal(t, "status", dsl.Filters.Condition.Field)
			assert.Equal(t, tt.operator, dsl.Filters.Condition.Operator)
			assert.Equal(t, tt.value, dsl.Filters.Condition.Value)
		})
	}
}

func TestScreenBuild_AllSelectsEverything(t *testing.T) {
	for _, value := range []string{"all", "ALL", "", "active,all"} {
		dsl, err := customersScreen(t).Build(ListRequest{Facets: map[string]string{"status": value}})
		require.NoError(t, err, value)
		assert.Nil(t, dsl.Filters, value)
	}
}

func TestScreenBuild_FacetsAreAndedInNameOrder(t *testing.T) {
	dsl, err := customersScreen(t).Build(ListRequest{Facets: map[string]string{
		"type":   "business",
		"source": "event",
		"status": "all",
	}})
	require.NoError(t, err)
	require.NotNil(t, dsl.Filters)
	require.NotNil(t, dsl.Filters.Group)
	assert.Equal(t, []string{"source", "type"}, dsl.Filters.Fields())
}

func TestScreenBuild_Ranges(t *testing.T) {
	low := 10_000_000.0
	dsl, err := customersScreen(t).Build(ListRequest{Ranges: map[string]query.Range{
		"totalSpent": {Min: &low},
	}})
	require.NoError(t, err)
	require.NotNil(t, dsl.Filters.Condition)
	assert.Equal(t, query.ComparisonOperatorBetween, dsl.Filters.Condition.Operator)
	assert.Equal(t, query.Range{Min: &low}, dsl.Filters.Condition.Value)

	dsl, err = customersScreen(t).Build(ListRequest{Ranges: map[string]query.Range{"totalSpent": {}}})
	require.NoError(t, err)
	assert.Nil(t, dsl.Filters)
}

func TestScreenBuild_Sort(t *testing.T) {
	dsl, err := customersScreen(t).Build(ListRequest{SortField: "name", SortDesc: true})
	require.NoError(t, err)
	assert.Equal(t, []query.SortConfiguration{{Field: "name", Direction: query.SortDirectionDesc}}, dsl.Sort)

	dsl, err = customersScreen(t).Build(ListRequest{SortField: "totalSpent"})
	require.NoError(t, err)
	assert.Equal(t, []query.SortConfiguration{{Field: "totalSpent", Direction: query.SortDirectionAsc}}, dsl.Sort)
}

func TestScreenBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		req   ListRequest
		field string
	}{
		{"unknown facet", ListRequest{Facets: map[string]string{"email": "a@b.vn"}}, "email"},
		{"unknown range", ListRequest{Ranges: map[string]query.Range{"id": {}}}, "id"},
		{"unsortable field", ListRequest{SortField: "email"}, "email"},
		{"missing sort field", ListRequest{SortField: "rank"}, "rank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customersScreen(t).Build(tt.req)
			require.Error(t, err)
			var verr query.QueryValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestScreenBuild_ParsesFacetValuesByType(t *testing.T) {
	positions, err := LookupScreen("job-positions")
	require.NoError(t, err)

	dsl, err := positions.Build(ListRequest{Facets: map[string]string{"location": "Hà Nội"}})
	require.NoError(t, err)
	assert.Equal(t, "Hà Nội", dsl.Filters.Condition.Value)

	value, err := parseFacetValue("integer", "12")
	require.NoError(t, err)
	assert.Equal(t, 12.0, value)

	value, err = parseFacetValue("boolean", "true")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	_, err = parseFacetValue("number", "many")
	assert.Error(t, err)
}

func TestScreenBuild_Conditions(t *testing.T) {
	roles, err := LookupScreen("user-roles")
	require.NoError(t, err)

	dsl, err := roles.Build(ListRequest{
		Facets:     map[string]string{"status": "active"},
		Conditions: []query.QueryFilter{query.CreateSimpleFilter("permissions", HasPermission, "news.read")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "permissions"}, dsl.Filters.Fields())
}
