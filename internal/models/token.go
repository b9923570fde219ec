package models

import "time"

// TokenPayload is payload of admin session token
type TokenPayload struct {
	Subject   string
	ExpiresAt time.Time
}
