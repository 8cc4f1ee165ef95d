package domain

import "time"

// DonorEntry is one contribution appended to a campaign's donator list.
// DonationID keys the entry back to the donation record so the append can be
// retried without duplicating contributions.
type DonorEntry struct {
	DonationID string    `json:"donation_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	Amount     int64     `json:"amount"`
}

// Campaign is a fundraising campaign. Donators is append-only; the raised
// total is derived from it at read time rather than stored as a counter.
type Campaign struct {
	ID               string
	Title            string
	MaxDonation      int64
	LastDate         time.Time
	ShortDescription string
	LongDescription  string
	ImageURL         string
	Paused           bool
	OwnerEmail       string
	Donators         []DonorEntry
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Raised sums the contribution list.
func (c *Campaign) Raised() int64 {
	var total int64
	for _, d := range c.Donators {
		total += d.Amount
	}
	return total
}
