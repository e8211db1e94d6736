package models

import "time"

type SearchHistory struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	SearchQuery string    `bson:"search_query" json:"search_query"`
	Country     string    `bson:"country" json:"country"`
	SearchDate  time.Time `bson:"search_date" json:"search_date"`
}

func (SearchHistory) CollectionName() string {
	return "search_history"
}
