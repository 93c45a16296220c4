package rest

import (
	"net/http"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/request"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-management-service/internal/jwt"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AuthController struct {
	service interfaces.AuthService
	logger  logger.Logger
}

// NewAuthController registers http.Handlers with additional options.
func NewAuthController(
	service interfaces.AuthService, logger logger.Logger, options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := AuthController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, mw := range options.Middlewares {
			r.Use(mw)
		}
		r.Post(options.BaseURL+"/register", c.Register)
		r.Post(options.BaseURL+"/login", c.Login)
	})
}

// Register user (POST /api/v1/auth/register HTTP/1.1).
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var p request.Register

	if err := decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err := p.Validate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	token, err := c.service.Register(r.Context(), p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respondWithToken(w, r, http.StatusCreated, token)
}

// Login user (POST /api/v1/auth/login HTTP/1.1).
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var p request.Login

	if err := decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err := p.Validate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	token, err := c.service.Login(r.Context(), p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respondWithToken(w, r, http.StatusOK, token)
}

// respondWithToken sets the "Authorization" cookie with the JWT
// authentication token and returns the token in the body as well.
func (c *AuthController) respondWithToken(
	w http.ResponseWriter, r *http.Request, status int, token *entities.Token,
) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthorizationKey,
		Value:    jwt.WithBearer(token.AccessToken),
		Path:     "/",
		Expires:  time.Now().Add(token.ExpiresIn),
		HttpOnly: true,
	})

	if err := writeJSON(w, status, response.NewAuthFromToken(token)); err != nil {
		c.logger.With(r.Context()).Errorf("auth controller: %s", err)
	}
}

// ErrorHandlerFunc writes err in the JSON format with the matching status code.
func (c *AuthController) ErrorHandlerFunc(w http.ResponseWriter, r *http.Request, err error) {
	handleError(w, r, c.logger, "auth", err)
}
