package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/counterhub/counterhub/core/binder"
	"github.com/counterhub/counterhub/core/handler"
	"github.com/counterhub/counterhub/core/response"
	"github.com/counterhub/counterhub/core/router"
	"github.com/counterhub/counterhub/internal/persistence"
	"github.com/counterhub/counterhub/internal/store"
	"github.com/counterhub/counterhub/middleware"
	"github.com/counterhub/counterhub/pkg/clientip"
)

// requestLang resolves the language middleware.I18n negotiated from the
// request's Accept-Language header, used for this request's operation-log
// entry. Empty if the middleware wasn't applied (falls back to the admin
// service's configured default).
func requestLang(ctx *router.Context) string {
	if translator, ok := middleware.GetTranslator(ctx); ok {
		return translator.Language()
	}
	return ""
}

type listQuery struct {
	Cursor int `query:"cursor"`
	Count  int `query:"count"`
}

func bindListQuery(ctx *router.Context) listQuery {
	var q listQuery
	_ = binder.Query()(ctx.Request(), &q)
	if q.Count <= 0 {
		q.Count = 20
	}
	return q
}

// ListSites implements GET /api/admin/sites.
func (a *API) ListSites(ctx *router.Context) handler.Response {
	q := bindListQuery(ctx)
	rows := a.admin.ListSites(q.Cursor, q.Count)
	return response.JSON(envelope{Success: true, Message: "ok", Data: rows})
}

// ListPages implements GET /api/admin/sites/{site}/pages.
func (a *API) ListPages(ctx *router.Context) handler.Response {
	siteKey := ctx.Param("site")
	q := bindListQuery(ctx)
	rows := a.admin.ListPages(siteKey, q.Cursor, q.Count)
	return response.JSON(envelope{Success: true, Message: "ok", Data: rows})
}

type editSiteBody struct {
	Field string `json:"field"`
	Value uint64 `json:"value"`
}

// EditSite implements PUT /api/admin/sites/{site}.
func (a *API) EditSite(ctx *router.Context) handler.Response {
	siteKey := ctx.Param("site")
	var body editSiteBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	ip := clientip.GetIP(ctx.Request())
	switch body.Field {
	case "pv":
		a.admin.EditSitePV(siteKey, body.Value, ip, requestLang(ctx))
	case "uv":
		a.admin.EditSiteUV(siteKey, body.Value, ip, requestLang(ctx))
	default:
		return response.Error(response.ErrBadRequest.WithMessage("field must be pv or uv"))
	}
	return response.JSON(envelope{Success: true, Message: "ok"})
}

type editPageBody struct {
	Value uint64 `json:"value"`
}

// EditPage implements PUT /api/admin/pages/{page}.
func (a *API) EditPage(ctx *router.Context) handler.Response {
	pageKey := ctx.Param("page")
	var body editPageBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	a.admin.EditPagePV(pageKey, body.Value, clientip.GetIP(ctx.Request()), requestLang(ctx))
	return response.JSON(envelope{Success: true, Message: "ok"})
}

// DeleteSite implements DELETE /api/admin/sites/{site}.
func (a *API) DeleteSite(ctx *router.Context) handler.Response {
	a.admin.DeleteSite(ctx.Param("site"), clientip.GetIP(ctx.Request()), requestLang(ctx))
	return response.JSON(envelope{Success: true, Message: "ok"})
}

// DeletePage implements DELETE /api/admin/pages/{page}.
func (a *API) DeletePage(ctx *router.Context) handler.Response {
	a.admin.DeletePage(ctx.Param("page"), clientip.GetIP(ctx.Request()), requestLang(ctx))
	return response.JSON(envelope{Success: true, Message: "ok"})
}

type batchDeleteBody struct {
	Keys []string `json:"keys"`
}

// BatchDeleteSites implements POST /api/admin/sites/batch-delete.
func (a *API) BatchDeleteSites(ctx *router.Context) handler.Response {
	var body batchDeleteBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	n := a.admin.BatchDeleteSites(body.Keys, clientip.GetIP(ctx.Request()), requestLang(ctx))
	return response.JSON(envelope{Success: true, Message: "ok", Data: map[string]int{"deleted": n}})
}

// BatchDeletePages implements POST /api/admin/pages/batch-delete.
func (a *API) BatchDeletePages(ctx *router.Context) handler.Response {
	var body batchDeleteBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	n := a.admin.BatchDeletePages(body.Keys, clientip.GetIP(ctx.Request()), requestLang(ctx))
	return response.JSON(envelope{Success: true, Message: "ok", Data: map[string]int{"deleted": n}})
}

type renameBody struct {
	NewKey string `json:"new_key"`
}

// RenameSite implements POST /api/admin/sites/{site}/rename.
func (a *API) RenameSite(ctx *router.Context) handler.Response {
	var body renameBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	if err := a.admin.RenameSite(ctx.Param("site"), body.NewKey, clientip.GetIP(ctx.Request()), requestLang(ctx)); err != nil {
		return preconditionFailed(err)
	}
	return response.JSON(envelope{Success: true, Message: "ok"})
}

type mergeBody struct {
	TargetKey string `json:"target_key"`
}

// MergeSite implements POST /api/admin/sites/{site}/merge.
func (a *API) MergeSite(ctx *router.Context) handler.Response {
	var body mergeBody
	if err := binder.JSON()(ctx.Request(), &body); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	if err := a.admin.MergeSite(ctx.Param("site"), body.TargetKey, clientip.GetIP(ctx.Request()), requestLang(ctx)); err != nil {
		return preconditionFailed(err)
	}
	return response.JSON(envelope{Success: true, Message: "ok"})
}

func preconditionFailed(err error) handler.Response {
	switch err {
	case store.ErrSameKey, store.ErrNotFound, store.ErrKeyExists:
		return response.Error(response.ErrConflict.WithMessage(err.Error()))
	default:
		return response.Error(response.ErrInternalServerError.WithError(err))
	}
}

// Stats implements GET /api/admin/stats.
func (a *API) Stats(ctx *router.Context) handler.Response {
	return response.JSON(envelope{Success: true, Message: "ok", Data: a.admin.Stats()})
}

// Export implements GET /api/admin/export.
func (a *API) Export(ctx *router.Context) handler.Response {
	blob, err := a.admin.Export(ctx.Request().Context())
	if err != nil {
		return response.Error(response.ErrInternalServerError.WithError(err))
	}
	filename := fmt.Sprintf("counterhub-%s.db", time.Now().UTC().Format("2006-01-02T150405Z"))
	return response.Attachment(blob, filename, "application/x-sqlite3")
}

// Import implements POST /api/admin/import (multipart upload).
func (a *API) Import(ctx *router.Context) handler.Response {
	r := ctx.Request()
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return response.Error(response.ErrBadRequest.WithMessage("missing file field"))
	}
	defer file.Close()

	data := make([]byte, 0, 1<<20)
	buf := make([]byte, 32*1024)
	for {
		n, rerr := file.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}
		if rerr != nil {
			break
		}
	}

	counts, err := a.admin.Import(r.Context(), data, clientip.GetIP(r), requestLang(ctx))
	if err != nil {
		if errors.Is(err, persistence.ErrInvalidImportFile) || errors.Is(err, persistence.ErrEmptyImport) {
			return response.Error(response.ErrBadRequest.WithMessage(err.Error()))
		}
		return response.Error(response.ErrInternalServerError.WithError(err))
	}
	return response.JSON(envelope{Success: true, Message: "ok", Data: counts})
}

type logsQuery struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// Logs implements GET /api/admin/logs.
func (a *API) Logs(ctx *router.Context) handler.Response {
	var q logsQuery
	_ = binder.Query()(ctx.Request(), &q)
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = 20
	}

	page, err := a.admin.Logs(q.Page, q.Size)
	if err != nil {
		return response.Error(response.ErrInternalServerError.WithError(err))
	}
	return response.JSON(envelope{Success: true, Message: "ok", Data: page})
}
