package httpapi

import (
	"net/http"

	"github.com/counterhub/counterhub/core/handler"
	"github.com/counterhub/counterhub/core/response"
	"github.com/counterhub/counterhub/core/router"
	"github.com/counterhub/counterhub/internal/adminauth"
	"github.com/counterhub/counterhub/pkg/clientip"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Retry   int    `json:"retry_after_seconds,omitempty"`
}

// requireAdmin enforces internal/adminauth's token-and-lockout contract
// ahead of every /api/admin/* handler.
func (a *API) requireAdmin() handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ip := clientip.GetIP(ctx.Request())
			result := a.auth.Check(ctx.Request(), ip)

			if result.LockedOut {
				return response.JSONWithStatus(errorBody{
					Success: false,
					Message: "too many failed attempts",
					Retry:   int(result.RemainingLockout.Seconds()),
				}, http.StatusTooManyRequests)
			}
			if !result.Authorized {
				return response.JSONWithStatus(errorBody{
					Success: false,
					Message: "unauthorized",
				}, http.StatusUnauthorized)
			}
			return next(ctx)
		}
	}
}
