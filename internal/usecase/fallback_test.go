package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProducts(t *testing.T) {
	got := FallbackProducts("Nike Air Max", fixedNow)
	require.Len(t, got, 3)

	names := []string{"Nike Air Max - Premium Quality", "Nike Air Max - Best Seller", "Nike Air Max - Top Rated"}
	prices := []string{"£29.99", "£45.99", "£19.99"}
	ratings := []float64{4.5, 4.2, 4.8}
	reviews := []int{128, 89, 256}
	for i, p := range got {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, names[i], p.Name)
		assert.Equal(t, prices[i], p.Price)
		assert.Equal(t, "#", p.BuyLink)
		assert.Equal(t, FallbackSource, p.Source)
		assert.NotEmpty(t, p.ImageURL)
		require.NotNil(t, p.Rating)
		assert.Equal(t, ratings[i], *p.Rating)
		require.NotNil(t, p.ReviewCount)
		assert.Equal(t, reviews[i], *p.ReviewCount)
		assert.Equal(t, fixedNow, p.CreatedAt)
	}

	assert.Equal(t, got, FallbackProducts("Nike Air Max", fixedNow))
}
