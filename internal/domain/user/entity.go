package user

// User represents a user entity in the system.
type User struct {
	ID         int64  // ID is assigned by storage and never changes
	FirstName  string // FirstName is the given name of the user
	LastName   string // LastName is the family name of the user
	Email      string // Email is unique across all users
	Occupation string // Occupation is required on creation
}

// Patch carries the fields of a partial update. A nil field keeps its stored value.
type Patch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Occupation *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Occupation == nil
}
