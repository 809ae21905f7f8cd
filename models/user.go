package models

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is an identity created or refreshed on every external sign-in.
// No credentials are stored.
type User struct {
	ID        string    `bson:"_id" json:"_id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// GoogleSignIn is the payload posted by the front end after Google sign-in.
// Credential carries the raw ID token when server-side verification is on.
type GoogleSignIn struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Image      string `json:"image"`
	Credential string `json:"credential,omitempty"`
}

// AuthResponse is returned by the sign-in endpoint.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
