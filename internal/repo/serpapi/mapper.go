package serpapi

import (
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/tidwall/gjson"
)

// MapResults converts a provider payload into products in provider order.
// A payload without a shopping_results array maps to an empty slice. Empty,
// zero or wrongly typed fields count as missing.
func MapResults(payload RawPayload, now time.Time) []models.Product {
	results := gjson.GetBytes(payload, "shopping_results")
	if !results.IsArray() {
		return []models.Product{}
	}

	entries := results.Array()
	products := make([]models.Product, 0, len(entries))
	for i, entry := range entries {
		products = append(products, mapEntry(i+1, entry, now))
	}
	return products
}

func mapEntry(id int, entry gjson.Result, now time.Time) models.Product {
	return models.Product{
		ID:                id,
		Name:              stringOr(entry.Get("title"), models.DefaultProductName),
		Price:             stringOr(entry.Get("price"), models.DefaultPrice),
		ImageURL:          stringOr(entry.Get("thumbnail"), models.PlaceholderImageURL),
		BuyLink:           stringOr(entry.Get("link"), models.DefaultBuyLink),
		Source:            stringOr(entry.Get("source"), models.DefaultProductSource),
		Rating:            optionalFloat(entry.Get("rating")),
		ReviewCount:       optionalInt(entry.Get("reviews")),
		DeliveryInfo:      optionalString(entry.Get("delivery")),
		Merchant:          merchantName(entry.Get("merchant")),
		ExternalProductID: optionalString(entry.Get("product_id")),
		CreatedAt:         now,
	}
}

func stringOr(v gjson.Result, fallback string) string {
	if s := optionalString(v); s != nil {
		return *s
	}
	return fallback
}

// optionalString accepts strings and numbers; provider ids arrive as either.
func optionalString(v gjson.Result) *string {
	switch v.Type {
	case gjson.String, gjson.Number:
		if s := v.String(); s != "" {
			return &s
		}
	}
	return nil
}

func optionalFloat(v gjson.Result) *float64 {
	if v.Type != gjson.Number || v.Float() == 0 {
		return nil
	}
	f := v.Float()
	return &f
}

func optionalInt(v gjson.Result) *int {
	if v.Type != gjson.Number || v.Int() == 0 {
		return nil
	}
	n := int(v.Int())
	return &n
}

// merchantName handles both the flat string form and the {name: ...} object.
func merchantName(v gjson.Result) *string {
	if v.IsObject() {
		return optionalString(v.Get("name"))
	}
	if v.Type == gjson.String {
		return optionalString(v)
	}
	return nil
}
