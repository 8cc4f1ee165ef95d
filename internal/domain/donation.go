package domain

import "time"

// Donation records a single donation event. Amounts are stored in cents.
// Donations are immutable once created; there is no update or delete path.
type Donation struct {
	ID         string
	CampaignID string
	DonorEmail string
	DonorName  string
	Amount     int64
	Date       time.Time
	CreatedAt  time.Time
}

// DonorEntryFor derives the campaign contribution entry for this donation.
func (d *Donation) DonorEntryFor() DonorEntry {
	return DonorEntry{
		DonationID: d.ID,
		Email:      d.DonorEmail,
		Name:       d.DonorName,
		Date:       d.Date,
		Amount:     d.Amount,
	}
}
