package domain

import "time"

// Role defines the kind of account a user holds.
type Role string

const (
	RoleTrainee Role = "trainee"
	RoleTrainer Role = "trainer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTrainee || r == RoleTrainer
}

// User represents an account in the system.
type User struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	Role          Role      `bson:"role" json:"role"`
	ProfilePicURL string    `bson:"profilePicUrl,omitempty" json:"profilePicUrl,omitempty"`
	Bio           string    `bson:"bio,omitempty" json:"bio,omitempty"`
	PasswordHash  string    `bson:"passwordHash,omitempty" json:"-"` // never cached or serialized
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

func (u User) CacheKey() string { return u.ID }
