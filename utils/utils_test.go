package utils

import (
	"testing"
	"time"

	"github.com/minhloc/listquery/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
}

type customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Orders    int       `json:"orders"`
	VIP       bool      `json:"vip"`
	Address   address   `json:"address"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func sample() customer {
	return customer{
		ID:        "c-1",
		Name:      "Phạm Thu Hà",
		Orders:    3,
		VIP:       true,
		Address:   address{City: "Đà Nẵng"},
		CreatedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestStructToMap(t *testing.T) {
	doc, err := StructToMap(sample())
	require.NoError(t, err)
	assert.Equal(t, schema.Document{
		"id":        "c-1",
		"name":      "Phạm Thu Hà",
		"orders":    3.0,
		"vip":       true,
		"address":   map[string]any{"city": "Đà Nẵng"},
		"createdAt": "2024-05-06T07:08:09Z",
	}, doc)

	c := sample()
	fromPtr, err := StructToMap(&c)
	require.NoError(t, err)
	assert.Equal(t, doc, fromPtr)
}

func TestStructToMap_Errors(t *testing.T) {
	_, err := StructToMap[any](nil)
	assert.Error(t, err)

	var nilPtr *customer
	_, err = StructToMap(nilPtr)
	assert.Error(t, err)

	_, err = StructToMap(42)
	assert.Error(t, err)
}

func TestMapToStruct(t *testing.T) {
	doc, err := StructToMap(sample())
	require.NoError(t, err)

	back, err := MapToStruct[customer](doc)
	require.NoError(t, err)
	assert.Equal(t, sample(), back)

	ptr, err := MapToStruct[*customer](doc)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.Equal(t, "Đà Nẵng", ptr.Address.City)

	_, err = MapToStruct[customer](nil)
	assert.Error(t, err)

	_, err = MapToStruct[int](doc)
	assert.Error(t, err)

	_, err = MapToStruct[customer](map[string]any{"orders": "many"})
	assert.Error(t, err)
}

func TestDocumentsConversions(t *testing.T) {
	second := sample()
	second.ID = "c-2"

	docs, err := StructsToDocuments([]customer{sample(), second})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c-2", docs[1]["id"])

	records, err := DocumentsToStructs[customer](docs)
	require.NoError(t, err)
	assert.Equal(t, []customer{sample(), second}, records)

	_, err = StructsToDocuments([]int{1})
	assert.Error(t, err)
}
