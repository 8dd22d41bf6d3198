package models

import "time"

// Availability is a time range during which a worker is already busy.
type Availability struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Image is a profile picture payload with its media type.
type Image struct {
	Data      []byte
	MediaType string
}
