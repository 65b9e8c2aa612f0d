package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the work factor used for password hashes.
const BcryptCost = 10

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account that can sign in.
type User struct {
	ID    string `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name  string `json:"name" bson:"name" gorm:"size:50;not null" validate:"required,max=50"`
	Email string `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null" validate:"required"`
	// Password holds the plaintext until Prepare runs, the bcrypt hash after.
	Password string `json:"-" bson:"password,omitempty" gorm:"size:255;not null" validate:"required,min=8,bcryptmax"`
	Role     Role   `json:"role" bson:"role" gorm:"size:16;default:USER" validate:"omitempty,oneof=USER ADMIN"`

	ForgotPasswordToken  string     `json:"-" bson:"forgotPasswordToken,omitempty" gorm:"size:255"`
	ForgotPasswordExpiry *time.Time `json:"-" bson:"forgotPasswordExpiry,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	passwordModified bool
}

// UserView is the client-facing projection of a User. It has no password.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TokenSigner issues signed tokens for a user id and role.
type TokenSigner interface {
	GenerateToken(userID string, role Role) (string, error)
}

// NewUser builds an unsaved user with the default role.
func NewUser(name, email, password string) *User {
	u := &User{Name: name, Email: email, Role: RoleUser}
	u.SetPassword(password)
	return u
}

// SetPassword replaces the password; it is hashed on the next Prepare.
func (u *User) SetPassword(plain string) {
	u.Password = plain
	u.passwordModified = true
}

// PasswordModified reports whether the password still needs hashing.
func (u *User) PasswordModified() bool {
	return u.passwordModified
}

// Prepare runs before the user is persisted. It assigns an id, defaults the
// role and hashes the password if it changed since the last call.
func (u *User) Prepare() error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if !u.passwordModified {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hashed)
	u.passwordModified = false
	return nil
}

// BeforeSave is the GORM hook for Prepare.
func (u *User) BeforeSave(_ *gorm.DB) error {
	return u.Prepare()
}

// ComparePassword checks candidate against the stored hash. The user must
// have been loaded with its password.
func (u *User) ComparePassword(candidate string) (bool, error) {
	if u.Password == "" || u.passwordModified {
		return false, fmt.Errorf("compare password: no stored hash for user %q", u.ID)
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

// IssueToken signs a token embedding the user's id and role.
func (u *User) IssueToken(signer TokenSigner) (string, error) {
	return signer.GenerateToken(u.ID, u.Role)
}

// View returns the password-free projection of u.
func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
