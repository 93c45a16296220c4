package middleware

import (
	"net/http"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/response"
)

// AuthorizationKey names both the header and the cookie carrying the token.
const AuthorizationKey = "Authorization"

var (
	ErrAuthenticationRequired = errs.Unauthorized("Authentication required")
	ErrAccessDenied           = errs.Forbidden("Access denied")
)

// Middleware authenticates the request and puts the user into its context.
// The Authorization header takes precedence over the cookie.
func Middleware(service interfaces.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				response.WriteError(w, r, ErrAuthenticationRequired)
				return
			}

			u, err := service.Authenticate(r.Context(), token)
			if err != nil {
				response.WriteError(w, r, err)
				return
			}

			r = r.WithContext(user.NewContext(r.Context(), u))

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(f)
	}
}

// RequireRole lets through authenticated users having one of roles.
// It must be mounted after Middleware.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			u, found := user.FromContext(r.Context())
			if !found {
				response.WriteError(w, r, ErrAuthenticationRequired)
				return
			}

			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.WriteError(w, r, ErrAccessDenied)
		}

		return http.HandlerFunc(f)
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(AuthorizationKey); h != "" {
		return h
	}
	if c, err := r.Cookie(AuthorizationKey); err == nil {
		return c.Value
	}
	return ""
}
