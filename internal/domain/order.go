package domain

import "time"

// Lifecycle statuses an order moves through. The kitchen drives every
// transition after "received" via status-change events.
const (
	StatusReceived  = 1
	StatusCooking   = 2
	StatusReady     = 3
	StatusDelivered = 4
)

func ValidStatus(id int) bool {
	return id >= StatusReceived && id <= StatusDelivered
}

type Order struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RecipeName *string   `json:"recipeName,omitempty"`
	StatusID   int       `json:"statusId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrderInput carries the caller-supplied fields of a new order. Identifier,
// status and creation timestamp are assigned at insert time.
type OrderInput struct {
	Name       string  `json:"name"`
	RecipeName *string `json:"recipeName,omitempty"`
}
