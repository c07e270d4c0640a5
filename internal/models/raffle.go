package models

// Raffle represents a raffle with a fixed ticket price, an ordered entry
// list, and an optional winner. Name, description, and price are fixed at
// creation; only the entry list and winner change afterwards.
type Raffle struct {
	// ID is the unique identifier for the raffle (UUID format).
	ID string `json:"id"`

	// Name is the display title of the raffle.
	Name string `json:"name"`

	// Description is the display description shown on the detail view.
	Description string `json:"description"`

	// TicketPrice is the price of one entry. Always positive. The platform
	// fee is computed from this at purchase time and never stored.
	TicketPrice float64 `json:"ticketPrice"`

	// ImageURL is the resolved URL of the uploaded cover image, if any.
	ImageURL string `json:"imageUrl,omitempty"`

	// CreatorID is the user who owns the raffle. Only this user may draw
	// a winner or delete the raffle.
	CreatorID string `json:"creatorId"`

	// Creator is a snapshot of the creator's profile taken at creation
	// time. Not updated when the profile changes later.
	Creator CreatorProfile `json:"creator"`

	// Entries is the ordered list of ticket purchases, oldest first.
	// Append-only until Winner is set.
	Entries []Entry `json:"entries"`

	// Winner is the drawn entry, nil while the raffle is open. It is a
	// value copy of an element of Entries at the moment of the draw.
	Winner *Entry `json:"winner,omitempty"`

	// CreatedAt is the Unix timestamp when the raffle was created. Used
	// only for sorting the active list (newest first).
	CreatedAt int64 `json:"createdAt"`
}

// Closed reports whether the raffle is terminal (a winner has been drawn).
func (r *Raffle) Closed() bool {
	return r.Winner != nil
}

// Entry represents a single ticket purchase in a raffle. A user may hold
// multiple entries in the same raffle; repeat purchases are allowed by
// design and are not deduplicated.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format), generated
	// at admission time.
	ID string `json:"id"`

	// UserID is the purchasing user.
	UserID string `json:"userId"`

	// Name is the display label for the entrant. Defaults to the user's
	// email when no display name is set.
	Name string `json:"name"`
}

// CreatorProfile is the denormalized profile snapshot embedded in a raffle.
type CreatorProfile struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
}
