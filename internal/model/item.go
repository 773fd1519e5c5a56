package model

// Item is a to-do record owned by the remote service.
// ID is assigned by the server and never changes once created.
type Item struct {
	ID          int    `json:"todo_id"`
	Description string `json:"description"`
}
