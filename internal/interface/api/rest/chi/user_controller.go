package rest

import (
	"net/http"

	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/request"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type UserController struct {
	service interfaces.UserService
	logger  logger.Logger
}

// NewUserController registers http.Handlers with additional options.
// Options middlewares must authenticate the request. Account management
// routes are additionally restricted to admins.
func NewUserController(
	service interfaces.UserService, logger logger.Logger, options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := UserController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, mw := range options.Middlewares {
			r.Use(mw)
		}
		r.Get(options.BaseURL+"/users/{id}", c.GetUser)
		r.Put(options.BaseURL+"/users/{id}", c.UpdateUser)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleAdmin))
			r.Post(options.BaseURL+"/users", c.CreateUser)
			r.Get(options.BaseURL+"/users", c.ListUsers)
			r.Delete(options.BaseURL+"/users/{id}", c.DeleteUser)
			r.Post(options.BaseURL+"/users/{id}/block", c.BlockUser)
		})
	})
}

// Create user (POST /api/v1/users HTTP/1.1).
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var p request.User

	if err := decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err := p.ValidateCreate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	u, err := c.service.CreateUser(r.Context(), p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusCreated, response.NewUserFromEntity(u))
}

// List users (GET /api/v1/users HTTP/1.1).
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.ListUsers(r.Context())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewUsersFromEntities(users))
}

// Get user (GET /api/v1/users/{id} HTTP/1.1).
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := c.ownUserID(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	u, err := c.service.GetUser(r.Context(), id)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewUserFromEntity(u))
}

// Update user (PUT /api/v1/users/{id} HTTP/1.1).
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := c.ownUserID(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	var p request.User

	if err = decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = p.ValidateUpdate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	u, err := c.service.UpdateUser(r.Context(), id, p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewUserFromEntity(u))
}

// Block user (POST /api/v1/users/{id}/block HTTP/1.1).
func (c *UserController) BlockUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = c.service.BlockUser(r.Context(), user.ID(id)); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete user (DELETE /api/v1/users/{id} HTTP/1.1).
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = c.service.DeleteUser(r.Context(), user.ID(id)); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownUserID reads the user id of the path and checks that the
// current user may act on it.
func (c *UserController) ownUserID(r *http.Request) (user.ID, error) {
	u, err := currentUser(r)
	if err != nil {
		return 0, err
	}

	id, err := pathID(r)
	if err != nil {
		return 0, err
	}

	if err = checkOwner(u, user.ID(id)); err != nil {
		return 0, err
	}

	return user.ID(id), nil
}

func (c *UserController) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		c.logger.With(r.Context()).Errorf("user controller: %s", err)
	}
}

// ErrorHandlerFunc writes err in the JSON format with the matching status code.
func (c *UserController) ErrorHandlerFunc(w http.ResponseWriter, r *http.Request, err error) {
	handleError(w, r, c.logger, "user", err)
}
