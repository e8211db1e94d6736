package serpapi

import (
	"testing"
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mappedAt = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func TestMapResults_MissingResultList(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "no field", payload: `{"search_metadata":{"status":"Success"}}`},
		{name: "not an array", payload: `{"shopping_results":{"title":"x"}}`},
		{name: "null", payload: `{"shopping_results":null}`},
		{name: "invalid json", payload: `not-json`},
		{name: "empty body", payload: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapResults(RawPayload(tt.payload), mappedAt)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestMapResults_EmptyEntryUsesSubstitutes(t *testing.T) {
	got := MapResults(RawPayload(`{"shopping_results":[{}]}`), mappedAt)
	require.Len(t, got, 1)

	assert.Equal(t, models.Product{
		ID:        1,
		Name:      "Unknown Product",
		Price:     "Price not available",
		ImageURL:  models.PlaceholderImageURL,
		BuyLink:   "#",
		Source:    "Google Shopping",
		CreatedAt: mappedAt,
	}, got[0])
	assert.Nil(t, got[0].Rating)
	assert.Nil(t, got[0].ReviewCount)
}

func TestMapResults_SingleOffer(t *testing.T) {
	payload := RawPayload(`{"shopping_results":[{"title":"Air Max 90","price":"£90","link":"http://x"}]}`)

	got := MapResults(payload, mappedAt)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "Air Max 90", got[0].Name)
	assert.Equal(t, "£90", got[0].Price)
	assert.Equal(t, "http://x", got[0].BuyLink)
	assert.Equal(t, "Google Shopping", got[0].Source)
	assert.Equal(t, models.PlaceholderImageURL, got[0].ImageURL)
}

func TestMapResults_AllFieldsAndOrder(t *testing.T) {
	payload := RawPayload(`{"shopping_results":[
		{"title":"B","price":"£2","thumbnail":"http://img/b","link":"http://b","source":"Shop B",
		 "rating":4.6,"reviews":1200,"delivery":"Free delivery","merchant":"Shop B Ltd","product_id":"123"},
		{"title":"A","rating":0,"reviews":0,"delivery":"","merchant":{"name":"Nested"},"product_id":987},
		"garbage",
		{"title":"","price":5,"source":null}
	]}`)

	got := MapResults(payload, mappedAt)
	require.Len(t, got, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "http://img/b", got[0].ImageURL)
	assert.Equal(t, "Shop B", got[0].Source)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.6, *got[0].Rating, 1e-9)
	require.NotNil(t, got[0].ReviewCount)
	assert.Equal(t, 1200, *got[0].ReviewCount)
	assert.Equal(t, "Free delivery", *got[0].DeliveryInfo)
	assert.Equal(t, "Shop B Ltd", *got[0].Merchant)
	assert.Equal(t, "123", *got[0].ExternalProductID)

	assert.Equal(t, "A", got[1].Name)
	assert.Nil(t, got[1].Rating)
	assert.Nil(t, got[1].ReviewCount)
	assert.Nil(t, got[1].DeliveryInfo)
	assert.Equal(t, "Nested", *got[1].Merchant)
	assert.Equal(t, "987", *got[1].ExternalProductID)

	assert.Equal(t, models.DefaultProductName, got[2].Name)

	assert.Equal(t, models.DefaultProductName, got[3].Name)
	assert.Equal(t, "5", got[3].Price)
	assert.Equal(t, models.DefaultProductSource, got[3].Source)
}

func TestMapResults_Deterministic(t *testing.T) {
	payload := RawPayload(`{"shopping_results":[{"title":"x","rating":3.5},{"price":"£1"}]}`)

	first := MapResults(payload, mappedAt)
	second := MapResults(payload, mappedAt)
	assert.Equal(t, first, second)
}
