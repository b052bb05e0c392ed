package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered board member
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex:idx_user_username;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_user_email;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_user_created"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Ref is the lightweight identity projection embedded in tasks and audit
// entries: just enough to render who without another round trip.
type Ref struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// AsRef projects the user onto its reference form.
func (u *User) AsRef() Ref {
	return Ref{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a user record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
