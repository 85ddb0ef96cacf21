package models

import (
	"time"
)

// DisplayDateLayout renders dates as "Monday 05. March 2012".
const DisplayDateLayout = "Monday 02. January 2006"

// Paste represents a stored snippet. A paste is never mutated after creation.
type Paste struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Poster    string    `json:"poster"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayDate returns the creation date in the human-readable page format.
func (p *Paste) DisplayDate() string {
	return p.CreatedAt.UTC().Format(DisplayDateLayout)
}
