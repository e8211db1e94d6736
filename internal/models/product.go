package models

import "time"

const (
	DefaultProductName   = "Unknown Product"
	DefaultPrice         = "Price not available"
	PlaceholderImageURL  = "https://images.pexels.com/photos/1464625/pexels-photo-1464625.jpeg"
	DefaultBuyLink       = "#"
	DefaultProductSource = "Google Shopping"
)

// Product is one normalized offer. ID is the 1-based position in its result
// set and is not stable across searches.
type Product struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Price             string    `json:"price"`
	ImageURL          string    `json:"image_url"`
	BuyLink           string    `json:"buy_link"`
	Source            string    `json:"source"`
	Rating            *float64  `json:"rating"`
	ReviewCount       *int      `json:"reviews"`
	DeliveryInfo      *string   `json:"delivery"`
	Merchant          *string   `json:"merchant"`
	ExternalProductID *string   `json:"external_product_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// CachedProduct is the analytics copy of a Product written by the result cache.
type CachedProduct struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ProductName string    `bson:"product_name" json:"product_name"`
	Price       string    `bson:"price" json:"price"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	BuyLink     string    `bson:"buy_link" json:"buy_link"`
	Source      string    `bson:"source" json:"source"`
	Region      string    `bson:"region" json:"region"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

func (CachedProduct) CollectionName() string {
	return "products"
}
