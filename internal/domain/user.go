package domain

import "time"

// User is a weak reference held by accounts. Registration, credentials and
// sessions are owned by a separate identity service; the ledger only reads
// users to resolve transfer recipients and notification targets.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}
