package rest

import (
	"net/http"
	"strconv"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/request"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type OrderController struct {
	service interfaces.OrderService
	logger  logger.Logger
}

// NewOrderController registers http.Handlers with additional options.
// Options middlewares must authenticate the request.
func NewOrderController(
	service interfaces.OrderService, logger logger.Logger, options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := OrderController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, mw := range options.Middlewares {
			r.Use(mw)
		}
		r.Post(options.BaseURL+"/orders", c.CreateOrder)
		r.Get(options.BaseURL+"/orders", c.ListOrders)
		r.Get(options.BaseURL+"/orders/{id}", c.GetOrder)
		r.Put(options.BaseURL+"/orders/{id}", c.UpdateOrder)
		r.Patch(options.BaseURL+"/orders/{id}", c.PatchOrder)
		r.Delete(options.BaseURL+"/orders/{id}", c.DeleteOrder)
	})
}

// Create new order (POST /api/v1/orders HTTP/1.1).
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	var p request.Order

	if err = decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = p.Validate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Users place orders only on their own behalf.
	if err = checkOwner(u, *p.UserID); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	order, err := c.service.CreateOrder(r.Context(), p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusCreated, response.NewOrderFromEntity(order))
}

// List orders (GET /api/v1/orders?status=&userId= HTTP/1.1).
// Users always see only their own orders.
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	filter, err := orderFilter(r, u)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	orders, err := c.service.ListOrders(r.Context(), filter)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewOrdersFromEntities(orders))
}

// Get order (GET /api/v1/orders/{id} HTTP/1.1).
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := c.ownOrder(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewOrderFromEntity(order))
}

// Replace order (PUT /api/v1/orders/{id} HTTP/1.1).
func (c *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	existing, err := c.ownOrder(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	var p request.Order

	if err = decodeJSON(r, &p); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = p.Validate(); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	u, _ := user.FromContext(r.Context())
	if err = checkOwner(u, *p.UserID); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	order, err := c.service.UpdateOrder(r.Context(), existing.ID, p.ToParams())
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewOrderFromEntity(order))
}

// Partially update order (PATCH /api/v1/orders/{id} HTTP/1.1).
// Only the "status" and "amount" keys are applied.
func (c *OrderController) PatchOrder(w http.ResponseWriter, r *http.Request) {
	existing, err := c.ownOrder(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	var updates map[string]any

	if err = decodeJSON(r, &updates); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	order, err := c.service.PatchOrder(r.Context(), existing.ID, updates)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.respond(w, r, http.StatusOK, response.NewOrderFromEntity(order))
}

// Delete order (DELETE /api/v1/orders/{id} HTTP/1.1).
func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	existing, err := c.ownOrder(r)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	if err = c.service.DeleteOrder(r.Context(), existing.ID); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownOrder loads the order of the path and checks that the
// current user may act on it.
func (c *OrderController) ownOrder(r *http.Request) (*entities.Order, error) {
	u, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	id, err := pathID(r)
	if err != nil {
		return nil, err
	}

	order, err := c.service.GetOrder(r.Context(), entities.OrderID(id))
	if err != nil {
		return nil, err
	}

	if err = checkOwner(u, order.UserID); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *OrderController) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		c.logger.With(r.Context()).Errorf("order controller: %s", err)
	}
}

// ErrorHandlerFunc writes err in the JSON format with the matching status code.
func (c *OrderController) ErrorHandlerFunc(w http.ResponseWriter, r *http.Request, err error) {
	handleError(w, r, c.logger, "order", err)
}

func orderFilter(r *http.Request, u *user.User) (params.OrderFilter, error) {
	var f params.OrderFilter

	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		status, err := entities.ParseOrderStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}

	if s := q.Get("userId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, errs.Validation("userId", "must be a number")
		}
		userID := user.ID(id)
		if !u.IsAdmin() && userID != u.ID {
			return f, middleware.ErrAccessDenied
		}
		f.UserID = &userID
	}

	if !u.IsAdmin() {
		f.UserID = &u.ID
	}

	return f, nil
}
