package response

import "github.com/KretovDmitry/order-management-service/internal/domain/entities"

type Auth struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	Email       string `json:"email"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

func NewAuthFromToken(t *entities.Token) *Auth {
	return &Auth{
		AccessToken: t.AccessToken,
		TokenType:   t.Type,
		Email:       t.Email,
		ExpiresIn:   int64(t.ExpiresIn.Seconds()),
	}
}
