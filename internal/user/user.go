package user

import "time"

// User is an account created on first Google sign-in.
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"googleId,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the identity returned by Google after the OAuth exchange.
type Profile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// Public is the shape exposed by /api/auth/me and /api/auth/status.
type Public struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Email: u.Email, Name: u.Name, Picture: u.Picture}
}
