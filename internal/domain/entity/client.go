package entity

import "time"

// Client representa un cliente del taller.
type Client struct {
	ID           string
	Name         string
	Phone        string // solo dígitos con DDD, ej: 51999999999
	Email        string
	Address      string
	RegisteredAt time.Time
}
