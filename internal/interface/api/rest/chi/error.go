package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/header"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/response"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// decodeJSON checks the content type, decodes the body into dst
// and closes it.
func decodeJSON(r *http.Request, dst any) error {
	if !header.IsApplicationJSONContentType(r) {
		return response.ErrUnsupportedMediaType
	}

	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	// Keeps patched amounts exact.
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		return checkJSONDecodeError(err)
	}

	return nil
}

func checkJSONDecodeError(err error) error {
	var e *json.UnmarshalTypeError
	if errors.As(err, &e) {
		return errs.Validation(e.Field, fmt.Sprintf("must be of type %s, got %s", e.Type, e.Value))
	}
	return fmt.Errorf("%w: %s", response.ErrMalformedJSON, err)
}

// writeJSON encodes v as the body of a response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// pathID reads the numeric {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errs.Validation("id", "must be a number")
	}
	return id, nil
}

// currentUser returns the authenticated user of the request.
func currentUser(r *http.Request) (*user.User, error) {
	u, found := user.FromContext(r.Context())
	if !found {
		return nil, middleware.ErrAuthenticationRequired
	}
	return u, nil
}

// checkOwner lets admins act on any record and users only on their own.
func checkOwner(u *user.User, owner user.ID) error {
	if u.IsAdmin() || u.ID == owner {
		return nil
	}
	return middleware.ErrAccessDenied
}

// handleError writes err and logs it under the controller name.
func handleError(w http.ResponseWriter, r *http.Request, log logger.Logger, name string, err error) {
	code := response.WriteError(w, r, err)

	if code >= http.StatusInternalServerError {
		log.With(r.Context()).Errorf("%s controller [%d]: %s", name, code, err)
		return
	}

	log.With(r.Context()).Infof("%s controller [%d]: %s", name, code, err)
}
