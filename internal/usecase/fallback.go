package usecase

import (
	"time"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
)

// FallbackSource tags simulated products so a UI can tell them apart from
// live offers.
const FallbackSource = "Google Shopping (Mock)"

type fallbackTemplate struct {
	suffix   string
	price    string
	imageURL string
	rating   float64
	reviews  int
}

var fallbackTemplates = [3]fallbackTemplate{
	{
		suffix:   "Premium Quality",
		price:    "£29.99",
		imageURL: "https://images.pexels.com/photos/1464625/pexels-photo-1464625.jpeg",
		rating:   4.5,
		reviews:  128,
	},
	{
		suffix:   "Best Seller",
		price:    "£45.99",
		imageURL: "https://images.pexels.com/photos/1598505/pexels-photo-1598505.jpeg",
		rating:   4.2,
		reviews:  89,
	},
	{
		suffix:   "Top Rated",
		price:    "£19.99",
		imageURL: "https://images.pexels.com/photos/1598508/pexels-photo-1598508.jpeg",
		rating:   4.8,
		reviews:  256,
	},
}

// FallbackProducts builds the three placeholder products shown when the
// provider path fails.
func FallbackProducts(query string, now time.Time) []models.Product {
	products := make([]models.Product, 0, len(fallbackTemplates))
	for i, tpl := range fallbackTemplates {
		products = append(products, models.Product{
			ID:          i + 1,
			Name:        query + " - " + tpl.suffix,
			Price:       tpl.price,
			ImageURL:    tpl.imageURL,
			BuyLink:     models.DefaultBuyLink,
			Source:      FallbackSource,
			Rating:      util.Ptr(tpl.rating),
			ReviewCount: util.Ptr(tpl.reviews),
			CreatedAt:   now,
		})
	}
	return products
}
