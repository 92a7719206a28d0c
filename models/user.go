package models

import "time"

// User is the single active account on a device. It is stored as one JSON value under the
// user key, not as a table row.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate carries a partial profile update; nil fields are left unchanged
type UserUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Apply merges the non-nil fields of u into user and returns the result
func (u UserUpdate) Apply(user User) User {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Phone != nil {
		user.Phone = u.Phone
	}
	if u.Address != nil {
		user.Address = u.Address
	}
	return user
}

// IsEmpty reports whether the update carries no fields
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Address == nil
}
