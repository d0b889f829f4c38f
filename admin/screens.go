package admin

import (
	"fmt"

	"github.com/minhloc/listquery/core/query"
)

func newestFirst(field string) []query.SortConfiguration {
	return []query.SortConfiguration{
		{Field: field, Direction: query.SortDirectionDesc},
		{Field: "id", Direction: query.SortDirectionAsc},
	}
}

// Screens returns the console list screens in menu order.
func Screens() []Screen {
	return []Screen{
		{
			Name:            "customers",
			Title:           "Khách hàng",
			Schema:          CustomerSchema(),
			Facets:          []string{"type", "status", "source"},
			Ranges:          []string{"totalSpent"},
			DefaultSort:     newestFirst("createdAt"),
			DefaultPageSize: 10,
			Aggregations: []query.AggregationConfiguration{
				{Type: query.AggregationTypeCount, Alias: "customers"},
				{Type: query.AggregationTypeSum, Field: "totalSpent", Alias: "revenue"},
				{Type: query.AggregationTypeAvg, Field: "totalSpent", Alias: "averageSpent"},
			},
		},
		{
			Name:            "activity-logs",
			Title:           "Nhật ký hoạt động",
			Schema:          ActivityLogSchema(),
			Facets:          []string{"action", "module", "status"},
			DefaultSort:     newestFirst("timestamp"),
			DefaultPageSize: 20,
			Aggregations: []query.AggregationConfiguration{
				{Type: query.AggregationTypeCount, Alias: "entries"},
				{Type: query.AggregationTypeMax, Field: "timestamp", Alias: "latest"},
			},
		},
		{
			Name:            "job-positions",
			Title:           "Vị trí tuyển dụng",
			Schema:          JobPositionSchema(),
			SearchFields:    []string{"title", "location"},
			Facets:          []string{"department", "type", "status", "location"},
			Ranges:          []string{"salaryMin", "salaryMax", "applicants"},
			DefaultSort:     newestFirst("postedAt"),
			DefaultPageSize: 10,
			Aggregations: []query.AggregationConfiguration{
				{Type: query.AggregationTypeCount, Alias: "positions"},
				{Type: query.AggregationTypeSum, Field: "applicants", Alias: "applicants"},
			},
		},
		{
			Name:            "job-applications",
			Title:           "Hồ sơ ứng tuyển",
			Schema:          JobApplicationSchema(),
			Facets:          []string{"status", "position"},
			Ranges:          []string{"experience", "score"},
			DefaultSort:     newestFirst("appliedAt"),
			DefaultPageSize: 10,
			Aggregations: []query.AggregationConfiguration{
				{Type: query.AggregationTypeCount, Alias: "applications"},
				{Type: query.AggregationTypeAvg, Field: "score", Alias: "averageScore"},
				{Type: query.AggregationTypeMax, Field: "score", Alias: "bestScore"},
			},
		},
		{
			Name:            "user-roles",
			Title:           "Phân quyền",
			Schema:          UserRoleSchema(),
			Facets:          []string{"status"},
			Ranges:          []string{"users"},
			DefaultSort:     []query.SortConfiguration{{Field: "name", Direction: query.SortDirectionAsc}},
			DefaultPageSize: 10,
			Aggregations: []query.AggregationConfiguration{
				{Type: query.AggregationTypeCount, Alias: "roles"},
				{Type: query.AggregationTypeSum, Field: "users", Alias: "users"},
			},
		},
	}
}

// LookupScreen returns the screen with the given name.
func LookupScreen(name string) (Screen, error) {
	for _, s := range Screens() {
		if s.Name == name {
			return s, nil
		}
	}
	return Screen{}, fmt.Errorf("unknown screen %q", name)
}
