package users

import "time"

// User represents a stored user account.
type User struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	Created        time.Time
	Updated        time.Time
}

// Profile is the public representation of a user.
type Profile struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Profile strips the password hash.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Created: u.Created, Updated: u.Updated}
}

// CreateInput carries the fields accepted on signup.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateInput carries the fields a user may change. Nil fields are kept.
type UpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
