package models

import "time"

const RoleUser = "user"

// User is the persisted account. PassHash never leaves the service: it is
// excluded from JSON so session snapshots and API responses cannot carry it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftUser is what a registration carries until the account is activated.
type DraftUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PassHash []byte `json:"pass_hash"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Message is a mail delivery job published to the mail queue.
type Message struct {
	Email    string            `json:"to"`
	Subject  string            `json:"subject"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}
