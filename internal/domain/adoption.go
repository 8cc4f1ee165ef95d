package domain

import "time"

// AdoptionStatus enumerates lifecycle states for adoption requests.
type AdoptionStatus string

const (
	AdoptionStatusPending  AdoptionStatus = "PENDING"
	AdoptionStatusAccepted AdoptionStatus = "ACCEPTED"
	AdoptionStatusRejected AdoptionStatus = "REJECTED"
)

// AdoptionRequest is a user's application to adopt a listed pet.
type AdoptionRequest struct {
	ID             string
	PetID          string
	RequesterEmail string
	RequesterName  string
	Phone          string
	Address        string
	Status         AdoptionStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
