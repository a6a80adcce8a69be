package entity

import "time"

// MaterialCategory agrupa materiales para su visualización.
type MaterialCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
