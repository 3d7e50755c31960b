package models

import "time"

// User represents a record in the process-lifetime user table. The password
// hash is never serialized.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Avatar       string    `json:"avatar"`
	IsActive     bool      `json:"isActive"`
	LastLogin    time.Time `json:"lastLogin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of the record with the password hash stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// PublicUser is the projection exposed on the public user endpoints.
type PublicUser struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio"`
	Location  string     `json:"location"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// PublicView projects the fields shown on the user listing.
func (u User) PublicView() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
	}
}

// PublicDetail is PublicView plus the last login timestamp, shown on the
// single-user endpoint.
func (u User) PublicDetail() PublicUser {
	view := u.PublicView()
	lastLogin := u.LastLogin
	view.LastLogin = &lastLogin
	return view
}
