package models

// Location represents a stored profile location waiting to be resolved.
type Location struct {
	ID    int    // ID is the unique identifier for the location row.
	Query string // Query is the free-text location to resolve.
}
