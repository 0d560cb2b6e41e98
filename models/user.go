// models/user.go
package models

import "time"

// User is a platform user mirrored from the identity provider.
type User struct {
	ID          string    `bson:"id" json:"id"`
	FirebaseUID string    `bson:"firebase_uid" json:"firebaseUid"`
	Email       *string   `bson:"email,omitempty" json:"email"`
	Phone       *string   `bson:"phone,omitempty" json:"phone"`
	Name        *string   `bson:"name,omitempty" json:"name"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserSync is the upsert payload keyed by FirebaseUID. Nil fields are left
// untouched unless Replace is set, in which case they are cleared.
type UserSync struct {
	FirebaseUID string  `json:"firebaseUid" binding:"required"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Name        *string `json:"name"`
	// Replace is set by token verification: the provider claims are authoritative.
	Replace bool `json:"-"`
}

// UserUpdateRequest carries a partial profile update.
type UserUpdateRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Name  *string `json:"name"`
}

// Identity is the sanitized view of an authenticated user. Raw provider
// claims never leave the auth service.
type Identity struct {
	ID          string  `json:"id"`
	FirebaseUID string  `json:"firebaseUid"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Name        *string `json:"name"`
}

// IdentityFromUser builds the sanitized identity for u.
func IdentityFromUser(u *User) *Identity {
	return &Identity{
		ID:          u.ID,
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		Phone:       u.Phone,
		Name:        u.Name,
	}
}
