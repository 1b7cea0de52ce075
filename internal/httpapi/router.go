package httpapi

import (
	"log/slog"
	"time"

	"github.com/counterhub/counterhub/core/health"
	"github.com/counterhub/counterhub/core/response"
	"github.com/counterhub/counterhub/core/router"
	"github.com/counterhub/counterhub/middleware"
	"github.com/counterhub/counterhub/pkg/ratelimiter"
)

// countingRateLimit bounds the public counting surface to 600 requests per
// minute per client IP, independent of internal/adminauth's lockout (which
// only guards /api/admin/*). A misbehaving or hostile client hammering
// POST/GET/PUT /api should not be able to starve the shard locks that
// legitimate traffic needs.
func countingRateLimit() middleware.RateLimitConfig {
	store := ratelimiter.NewMemoryStore()
	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       600,
		RefillRate:     600,
		RefillInterval: time.Minute,
	})
	if err != nil {
		panic(err)
	}
	return middleware.RateLimitConfig{Limiter: bucket, SetHeaders: true}
}

// Mount builds the full route tree onto a fresh router.
func (a *API) Mount(maxBodySize int64, log *slog.Logger) router.Router[*router.Context] {
	r := router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		router.WithLogger(log),
	)

	r.Use(middleware.RequestID[*router.Context]())
	r.Use(middleware.LoggingWithLogger[*router.Context](log))
	r.Use(middleware.SecurityHeaders[*router.Context]())
	r.Use(middleware.CORS[*router.Context]())
	r.Use(middleware.BodyLimitWithSize[*router.Context](maxBodySize))
	r.Use(middleware.ClientIP[*router.Context]())

	r.Get("/ping", Ping)
	r.Get("/health/ready", health.Readiness[*router.Context](log))

	counting := r.With(middleware.RateLimit[*router.Context](countingRateLimit()))
	counting.Post("/api", a.Count)
	counting.Get("/api", a.Peek)
	counting.Put("/api", a.CountSilent)

	admin := r.With(a.requireAdmin(), middleware.I18n[*router.Context](a.admin.Translations(), "admin"))
	admin.Get("/api/admin/sites", a.ListSites)
	admin.Get("/api/admin/sites/{site}/pages", a.ListPages)
	admin.Put("/api/admin/sites/{site}", a.EditSite)
	admin.Delete("/api/admin/sites/{site}", a.DeleteSite)
	admin.Post("/api/admin/sites/{site}/rename", a.RenameSite)
	admin.Post("/api/admin/sites/{site}/merge", a.MergeSite)
	admin.Post("/api/admin/sites/batch-delete", a.BatchDeleteSites)
	admin.Put("/api/admin/pages/{page}", a.EditPage)
	admin.Delete("/api/admin/pages/{page}", a.DeletePage)
	admin.Post("/api/admin/pages/batch-delete", a.BatchDeletePages)
	admin.Get("/api/admin/stats", a.Stats)
	admin.Get("/api/admin/export", a.Export)
	admin.Post("/api/admin/import", a.Import)
	admin.Post("/api/admin/sync", a.Sync)
	admin.Get("/api/admin/logs", a.Logs)

	return r
}
