// Package httpapi wires the counting and admin surfaces onto core/router,
// translating HTTP requests into internal/store, internal/admin and
// internal/persistence calls exactly as spec.md §6 specifies.
package httpapi

import (
	"log/slog"

	"github.com/counterhub/counterhub/internal/adminauth"
	"github.com/counterhub/counterhub/internal/admin"
	"github.com/counterhub/counterhub/internal/identity"
	"github.com/counterhub/counterhub/internal/keys"
	"github.com/counterhub/counterhub/internal/store"
)

// API holds every dependency the HTTP handlers need.
type API struct {
	store    *store.Store
	identity *identity.Deriver
	keys     keys.Deriver
	admin    *admin.Service
	auth     *adminauth.Checker
	log      *slog.Logger
}

// New constructs an API.
func New(s *store.Store, id *identity.Deriver, kd keys.Deriver, adm *admin.Service, auth *adminauth.Checker, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{store: s, identity: id, keys: kd, admin: adm, auth: auth, log: log}
}
