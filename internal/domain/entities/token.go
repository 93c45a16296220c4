package entities

import "time"

const TokenTypeBearer = "Bearer"

// Token is an issued access token.
type Token struct {
	AccessToken string
	Type        string
	Email       string
	ExpiresIn   time.Duration
}
