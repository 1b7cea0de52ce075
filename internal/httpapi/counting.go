package httpapi

import (
	"net/http"

	"github.com/counterhub/counterhub/core/handler"
	"github.com/counterhub/counterhub/core/response"
	"github.com/counterhub/counterhub/core/router"
	"github.com/counterhub/counterhub/internal/identity"
	"github.com/counterhub/counterhub/internal/keys"
)

// envelope is the JSON shape every /api response uses, per spec.md §6.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type countData struct {
	SitePV uint64 `json:"site_pv"`
	SiteUV uint64 `json:"site_uv"`
	PagePV uint64 `json:"page_pv"`
}

func invalidReferer() handler.Response {
	return response.JSONWithStatus(envelope{
		Success: false,
		Message: "invalid referer",
		Data:    countData{},
	}, http.StatusOK)
}

func (a *API) refererKeys(ctx *router.Context) (host, path string, ks keys.Keys, ok bool) {
	raw := ctx.Request().Header.Get("x-bsz-referer")
	host, path, ok = parseReferer(raw)
	if !ok {
		return "", "", keys.Keys{}, false
	}
	ks = a.keys.Derive(host, path)
	return host, path, ks, true
}

// Count implements POST /api: increments and returns the fresh counters.
func (a *API) Count(ctx *router.Context) handler.Response {
	host, path, ks, ok := a.refererKeys(ctx)
	if !ok {
		return invalidReferer()
	}

	token, fresh := a.identity.Derive(ctx.Request())
	vh := hashToken(token)

	counts := a.store.IncrementForPageview(ks.SiteKey, ks.PageKey, host, path, vh)

	if fresh {
		return withIdentityCookie(token, response.JSON(envelope{
			Success: true,
			Message: "ok",
			Data:    countData{SitePV: counts.SitePV, SiteUV: counts.SiteUV, PagePV: counts.PagePV},
		}))
	}
	return response.JSON(envelope{
		Success: true,
		Message: "ok",
		Data:    countData{SitePV: counts.SitePV, SiteUV: counts.SiteUV, PagePV: counts.PagePV},
	})
}

// Peek implements GET /api: read-only, same referer contract.
func (a *API) Peek(ctx *router.Context) handler.Response {
	_, _, ks, ok := a.refererKeys(ctx)
	if !ok {
		return invalidReferer()
	}

	counts := a.store.Peek(ks.SiteKey, ks.PageKey)
	return response.JSON(envelope{
		Success: true,
		Message: "ok",
		Data:    countData{SitePV: counts.SitePV, SiteUV: counts.SiteUV, PagePV: counts.PagePV},
	})
}

// CountSilent implements PUT /api: counts without returning data, 204.
func (a *API) CountSilent(ctx *router.Context) handler.Response {
	host, path, ks, ok := a.refererKeys(ctx)
	if !ok {
		return invalidReferer()
	}

	token, fresh := a.identity.Derive(ctx.Request())
	vh := hashToken(token)
	a.store.IncrementForPageview(ks.SiteKey, ks.PageKey, host, path, vh)

	noContent := func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	if fresh {
		return withIdentityCookie(token, noContent)
	}
	return noContent
}

func withIdentityCookie(token string, next handler.Response) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		identity.SetCookie(w, token)
		return next(w, r)
	}
}

// Ping implements GET /ping: a fixed liveness body, distinct from
// core/health.Liveness's "ALIVE" contract.
func Ping(ctx *router.Context) handler.Response {
	return response.String("pong")
}
