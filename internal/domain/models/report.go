package models

import "time"

// DailySummary aggregates the rakes released on one day, stored in MongoDB.
type DailySummary struct {
	Date               time.Time     `bson:"date" json:"date"`
	Rakes              int           `bson:"rakes" json:"rakes"`
	Wagons             int           `bson:"wagons" json:"wagons"`
	DemurrageHours     int           `bson:"demurrage_hours" json:"demurrage_hours"`
	RakesWithDemurrage int           `bson:"rakes_with_demurrage" json:"rakes_with_demurrage"`
	AverageRelease     time.Duration `bson:"average_release" json:"average_release"`
	AverageReleaseText string        `bson:"average_release_text" json:"average_release_text"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
}

// RecentRowsResponse is the display table returned for a target date.
type RecentRowsResponse struct {
	Date   string     `json:"date"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
