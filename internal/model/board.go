package model

import "time"

// Group is a named, ordered list of symbols.
type Group struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// BoardState is the persisted grouped-symbol layout.
type BoardState struct {
	Groups    []Group   `json:"groups"`
	UpdatedAt time.Time `json:"updated_at"`
}
