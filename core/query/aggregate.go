package query

import (
	"github.com/minhloc/listquery/core/schema"
)

// Aggregate computes aggregations over records, keyed by alias.
//
// count counts records, or only those with a non-nil value when a field is
// given. sum adds numeric values and is 0 for none. avg, min and max are
// omitted when there is nothing to aggregate; min and max order values with
// CompareValues, so they also work on strings and timestamps.
func Aggregate(records []schema.Document, aggregations []AggregationConfiguration) map[string]any {
	out := make(map[string]any, len(aggregations))
	for _, agg := range aggregations {
		acc := Field(agg.Field)
		switch agg.Type {
		case AggregationTypeCount:
			if agg.Field == "" {
				out[agg.Alias] = len(records)
				continue
			}
			n := 0
			for _, doc := range records {
				if acc(doc) != nil {
					n++
				}
			}
			out[agg.Alias] = n
		case AggregationTypeSum, AggregationTypeAvg:
			sum, n := 0.0, 0
			for _, doc := range records {
				if f, ok := numberValue(acc(doc)); ok {
					sum += f
					n++
				}
			}
			if agg.Type == AggregationTypeSum {
				out[agg.Alias] = sum
			} else if n > 0 {
				out[agg.Alias] = sum / float64(n)
			}
		case AggregationTypeMin, AggregationTypeMax:
			var best any
			for _, doc := range records {
				v := acc(doc)
				if v == nil {
					continue
				}
				if best == nil {
					best = v
					continue
				}
				c := CompareValues(v, best)
				if (agg.Type == AggregationTypeMin && c < 0) || (agg.Type == AggregationTypeMax && c > 0) {
					best = v
				}
			}
			if best != nil {
				out[agg.Alias] = best
			}
		}
	}
	return out
}
