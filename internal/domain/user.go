package domain

// User represents a registered account of the screening application.
//
// Password holds whatever the configured password scheme stores: the
// plaintext value under the default scheme, a bcrypt hash otherwise.
type User struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// NewUser creates a User that has not been stored yet.
// The ID is assigned by the database on insert.
func NewUser(name, email, password string) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: password,
	}
}
