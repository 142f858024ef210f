package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameInvalid    = errors.New("username must be between 3 and 32 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DefaultCity  string    `json:"default_city" db:"default_city"`
	IsMetric     bool      `json:"is_metric" db:"is_metric"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates an account carrying the default preference record.
func NewUser(id, username string) (*User, error) {

	username = strings.TrimSpace(username)

	if !isValidUsername(username) {
		return nil, ErrUsernameInvalid
	}

	prefs := DefaultPreferences()

	now := time.Now().UTC()
	return &User{
		ID:          id,
		Username:    username,
		DefaultCity: prefs.DefaultCity,
		IsMetric:    prefs.Metric,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// Preferences projects the preference columns carried on the account row.
func (u *User) Preferences() Preferences {
	return Preferences{
		DefaultCity: u.DefaultCity,
		Metric:      u.IsMetric,
	}
}

func isValidUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= MinUsernameLen && n <= MaxUsernameLen
}
