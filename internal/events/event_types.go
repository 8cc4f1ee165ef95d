package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDonationRecorded       EventType = "donation_recorded"
	EventDonationPartialFailure EventType = "donation_partial_failure"
	EventUserRoleChanged        EventType = "user_role_changed"
	EventUserBanChanged         EventType = "user_ban_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DonationRecordedPayload is emitted after both donation writes committed.
type DonationRecordedPayload struct {
	DonationID string `json:"donation_id"`
	CampaignID string `json:"campaign_id"`
	DonorEmail string `json:"donor_email"`
	Amount     int64  `json:"amount"`
}

// DonationPartialFailurePayload is emitted when the donation record committed
// but the campaign append did not. The reconciliation worker consumes it.
type DonationPartialFailurePayload struct {
	DonationID string `json:"donation_id"`
	CampaignID string `json:"campaign_id"`
	Reason     string `json:"reason"`
}

// UserRoleChangedPayload is emitted after a grant-admin action.
type UserRoleChangedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// UserBanChangedPayload is emitted after a ban or unban action.
type UserBanChangedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Banned bool   `json:"banned"`
}
