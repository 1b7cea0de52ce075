package httpapi

import (
	"github.com/counterhub/counterhub/core/binder"
	"github.com/counterhub/counterhub/core/handler"
	"github.com/counterhub/counterhub/core/response"
	"github.com/counterhub/counterhub/core/router"
	"github.com/counterhub/counterhub/internal/store"
)

// syncEntry is one site's upstream counter pair, as resolved by the
// external sitemap fetcher (out of scope per spec.md §1) and handed to
// this endpoint to apply under the "only increase on sync" ratchet
// (spec.md §9).
type syncEntry struct {
	SiteKey string `json:"site_key"`
	PV      uint64 `json:"pv"`
	UV      uint64 `json:"uv"`
}

type syncBody struct {
	Sites []syncEntry `json:"sites"`
}

type syncProgress struct {
	SiteKey  string `json:"site_key"`
	Applied  bool   `json:"applied"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
}

// Sync implements the sitemap-sync progress stream: the HTTP layer (or an
// external caller that already resolved upstream counts, since the
// sitemap fetcher itself is an external collaborator per spec.md §1)
// posts resolved (site_key, pv, uv) pairs; this handler applies each one
// via SetIfGreater and reports progress over SSE.
func (a *API) Sync(ctx *router.Context) handler.Response {
	var body syncBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	events := make(chan any)
	go func() {
		defer close(events)
		for i, entry := range body.Sites {
			applied := a.store.SetIfGreater(entry.SiteKey, store.SitePV, entry.PV)
			if a.store.SetIfGreater(entry.SiteKey, store.SiteUV, entry.UV) {
				applied = true
			}
			events <- syncProgress{
				SiteKey:  entry.SiteKey,
				Applied:  applied,
				Position: i + 1,
				Total:    len(body.Sites),
			}
		}
	}()

	return response.SSE(events, response.WithEventName("sync-progress"))
}
