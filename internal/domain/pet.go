package domain

import "time"

// PetCategory groups pets for listing filters.
type PetCategory string

const (
	PetCategoryCat    PetCategory = "CAT"
	PetCategoryDog    PetCategory = "DOG"
	PetCategoryRabbit PetCategory = "RABBIT"
	PetCategoryBird   PetCategory = "BIRD"
	PetCategoryOther  PetCategory = "OTHER"
)

// Pet is an animal listed for adoption.
type Pet struct {
	ID               string
	Name             string
	AgeMonths        int
	Category         PetCategory
	Location         string
	ShortDescription string
	LongDescription  string
	ImageURL         string
	Adopted          bool
	OwnerEmail       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
