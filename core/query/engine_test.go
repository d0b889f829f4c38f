package query

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/minhloc/listquery/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func staff() []schema.Document {
	return []schema.Document{
		{"name": "An", "status": "active"},
		{"name": "Bình", "status": "inactive"},
		{"name": "Anh", "status": "active"},
	}
}

func numbered(n int) []schema.Document {
	out := make([]schema.Document, n)
	for i := range out {
		out[i] = schema.Document{"name": fmt.Sprintf("record-%02d", i+1), "rank": i % 4}
	}
	return out
}

func TestQuery_Scenarios(t *testing.T) {
	t.Run("huge page size returns everything on one page", func(t *testing.T) {
		res, err := Query([]int{1, 2, 3}, nil, nil, 1, math.MaxInt)
		require.NoError(t, err)
		assert.Equal(t, 1, res.PageCount)
		assert.Equal(t, []int{1, 2, 3}, res.Items)
	})

	t.Run("nil combinator members are ignored", func(t *testing.T) {
		res, err := Query([]int{1, 2}, []Predicate[int]{AllOf[int](nil), Not[int](AnyOf[int](nil))}, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, res.Items)
	})

	t.Run("equals one of keeps original order", func(t *testing.T) {
		res, err := Query(staff(), []Predicate[schema.Document]{EqualsOneOf(Field("status"), "active")}, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"An", "Anh"}, names(res.Items))
		assert.Equal(t, 2, res.TotalMatching)
		assert.Equal(t, 1, res.PageCount)
		assert.Equal(t, 1, res.Page)
	})

	t.Run("text contains is case-insensitive", func(t *testing.T) {
		res, err := Query(staff(), []Predicate[schema.Document]{TextContains(Field("name"), "an")}, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"An", "Anh"}, names(res.Items))
		assert.Equal(t, 2, res.TotalMatching)
	})

	t.Run("pages over 25 records", func(t *testing.T) {
		docs := numbered(25)
		for page, want := range map[int]int{1: 10, 3: 5, 4: 0} {
			res, err := Query(docs, nil, nil, page, 10)
			require.NoError(t, err)
			assert.Len(t, res.Items, want, "page %d", page)
			assert.Equal(t, 3, res.PageCount)
			assert.Equal(t, 25, res.TotalMatching)
		}
	})

	t.Run("page size zero is a usage error", func(t *testing.T) {
		res, err := Query(staff(), nil, nil, 1, 0)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrInvalidPageSize))
	})

	t.Run("numeric range is inclusive", func(t *testing.T) {
		docs := []schema.Document{{"age": 17}, {"age": 18}, {"age": 30}, {"age": 31}}
		res, err := Query(docs, []Predicate[schema.Document]{NumericRange(Field("age"), 18, 30)}, nil, 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, 18, res.Items[0]["age"])
		assert.Equal(t, 30, res.Items[1]["age"])
	})
}

func TestQuery_Properties(t *testing.T) {
	docs := numbered(23)
	byRank := By(Field("rank"), SortDirectionAsc)

	t.Run("identity filter", func(t *testing.T) {
		res, err := Query(docs, nil, nil, 1, len(docs))
		require.NoError(t, err)
		assert.Equal(t, docs, res.Items)
		assert.Equal(t, len(docs), res.TotalMatching)
	})

	t.Run("pages concatenate to the full sequence", func(t *testing.T) {
		preds := []Predicate[schema.Document]{AtLeast(Field("rank"), 1)}
		full, err := Query(docs, preds, byRank, 1, len(docs))
		require.NoError(t, err)

		var joined []schema.Document
		first, err := Query(docs, preds, byRank, 1, 4)
		require.NoError(t, err)
		for p := 1; p <= first.PageCount; p++ {
			res, err := Query(docs, preds, byRank, p, 4)
			require.NoError(t, err)
			assert.Equal(t, full.TotalMatching, res.TotalMatching, "count must not depend on page")
			joined = append(joined, res.Items...)
		}
		assert.Equal(t, full.Items, joined)
	})

	t.Run("sort is stable for equal keys", func(t *testing.T) {
		res, err := Query(docs, nil, byRank, 1, len(docs))
		require.NoError(t, err)
		last := map[int]string{}
		for _, doc := range res.Items {
			rank := doc["rank"].(int)
			name := doc["name"].(string)
			assert.Less(t, last[rank], name)
			last[rank] = name
		}
	})

	t.Run("empty needle passes everything", func(t *testing.T) {
		res, err := Query(docs, []Predicate[schema.Document]{TextContains(Field("name"), "")}, nil, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, len(docs), res.TotalMatching)
	})

	t.Run("empty collection", func(t *testing.T) {
		res, err := Query[schema.Document](nil, nil, nil, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.Equal(t, 0, res.PageCount)
	})
}

func TestEngine_Run(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	engine := NewEngine[schema.Document](zap.New(core))

	res, err := engine.Run(people(), Spec[schema.Document]{
		Predicates: []Predicate[schema.Document]{EqualsOneOf(Field("status"), "active")},
		Compare:    By(Field("name"), SortDirectionDesc),
		Page:       1,
		PageSize:   1,
		Summarize: func(matched []schema.Document) map[string]any {
			return map[string]any{"matched": len(matched)}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anh"}, names(res.Items))
	assert.Equal(t, 2, res.TotalMatching)
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, map[string]any{"matched": 2}, res.Aggregations)

	entries := logs.FilterMessage("List query evaluated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["matching"])

	_, err = engine.Run(people(), Spec[schema.Document]{Page: 1, PageSize: -3})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, -3, usage.Value)
	assert.Equal(t, 1, logs.FilterMessage("Rejected list query").Len())
}

func TestNewEngine_NilLogger(t *testing.T) {
	engine := NewEngine[int](nil)
	res, err := engine.Run([]int{3, 1, 2}, Spec[int]{
		Compare:  func(a, b int) int { return a - b },
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res.Items)
}
