package pets

import "time"

// Role is the broad animal category the clinic treats.
// @Enum canine, feline
type Role string

const (
	RoleCanine Role = "canine"
	RoleFeline Role = "feline"
)

func (r Role) Valid() bool {
	return r == RoleCanine || r == RoleFeline
}

// Gender of the pet.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Pet is a patient record. Ownership (client) and visit history
// (schedules) are both many-to-many and live outside this struct.
type Pet struct {
	ID   string
	Name string
	Role Role

	Breed        string
	Species      string
	ColorMarking string

	Birthday time.Time
	Gender   Gender

	CreatedAt time.Time
	UpdatedAt time.Time
}
