package models

// Friend is an entry in the friends directory. The calculator only ever sees
// the ID; name and contact details are for display.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	ID string

	Name  string
	Email string
	Phone string

	// CreatedAt is the Unix timestamp when the friend was added.
	CreatedAt int64
}
