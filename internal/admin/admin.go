// Package admin implements the administrative surface over internal/store
// and internal/persistence: listing, editing, deleting, renaming and
// merging sites/pages, plus export/import and the operation log. Every
// mutation is recorded through an i18n-backed operation log, matching the
// bilingual (English/Chinese) audit trail of the system this service
// replaces.
package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/counterhub/counterhub/core/i18n"
	"github.com/counterhub/counterhub/internal/persistence"
	"github.com/counterhub/counterhub/internal/store"
)

// Service glues the in-memory store to the persistence engine for every
// admin-surface operation.
type Service struct {
	store        *store.Store
	db           *persistence.Engine
	translations *i18n.I18n
	defaultLang  string
}

// New constructs a Service. defaultLang is used for operation-log entries
// when a caller doesn't resolve a per-request language (both "en" and
// "zh" are always loaded, so callers that do resolve one, such as the
// HTTP layer via middleware.I18n's Accept-Language negotiation, can pass
// either).
func New(s *store.Store, db *persistence.Engine, defaultLang string) (*Service, error) {
	translations, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithLanguages("en", "zh"),
		i18n.WithTranslations("en", "admin", map[string]any{
			"site.deleted":        "deleted site {{key}}",
			"site.batch_deleted":  "batch deleted {{count}} sites",
			"site.renamed":        "renamed site {{old}} to {{new}}",
			"site.merged":         "merged site {{source}} into {{target}}",
			"site.edited":         "edited site {{key}} {{field}} to {{value}}",
			"page.deleted":        "deleted page {{key}}",
			"page.batch_deleted":  "batch deleted {{count}} pages",
			"page.edited":         "edited page {{key}} pv to {{value}}",
			"import.completed":    "imported {{sites}} sites, {{pages}} pages, {{visitors}} visitors",
		}),
		i18n.WithTranslations("zh", "admin", map[string]any{
			"site.deleted":        "删除站点 {{key}}",
			"site.batch_deleted":  "批量删除 {{count}} 个站点",
			"site.renamed":        "重命名站点 {{old}} 为 {{new}}",
			"site.merged":         "合并站点 {{source}} 到 {{target}}",
			"site.edited":         "编辑站点 {{key}} 的 {{field}} 为 {{value}}",
			"page.deleted":        "删除页面 {{key}}",
			"page.batch_deleted":  "批量删除 {{count}} 个页面",
			"page.edited":         "编辑页面 {{key}} 的 pv 为 {{value}}",
			"import.completed":    "导入 {{sites}} 个站点，{{pages}} 个页面，{{visitors}} 个访客",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("admin: build translator: %w", err)
	}

	if defaultLang == "" {
		defaultLang = "en"
	}

	return &Service{store: s, db: db, translations: translations, defaultLang: defaultLang}, nil
}

// Translations exposes the underlying catalog so the HTTP layer can wire
// middleware.I18n for per-request Accept-Language negotiation over the
// same "admin" namespace these operation-log messages are drawn from.
func (svc *Service) Translations() *i18n.I18n {
	return svc.translations
}

func (svc *Service) log(lang, action, detailKey string, args i18n.M, ip string) {
	if lang == "" {
		lang = svc.defaultLang
	}
	detail := i18n.NewTranslator(svc.translations, lang, "admin").T(detailKey, args)
	svc.db.AppendOperationLog(action, detail, ip)
}

// SiteInfo is one row of ListSites.
type SiteInfo struct {
	SiteKey   string `json:"site_key"`
	SitePV    uint64 `json:"site_pv"`
	SiteUV    uint64 `json:"site_uv"`
	PageCount int    `json:"page_count"`
}

// ListSites returns up to count SiteInfo rows starting at cursor, ordered
// by SiteKey for stable pagination across calls.
func (svc *Service) ListSites(cursor, count int) []SiteInfo {
	sites := svc.store.SnapshotSites()
	sort.Slice(sites, func(i, j int) bool { return sites[i].Key < sites[j].Key })

	pages := svc.store.SnapshotPages()
	pageCounts := make(map[string]int, len(sites))
	for _, p := range pages {
		if idx := strings.Index(p.Key, ":"); idx >= 0 {
			pageCounts[p.Key[:idx]]++
		}
	}

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(sites) {
		return []SiteInfo{}
	}
	end := cursor + count
	if count <= 0 || end > len(sites) {
		end = len(sites)
	}

	out := make([]SiteInfo, 0, end-cursor)
	for _, s := range sites[cursor:end] {
		out = append(out, SiteInfo{
			SiteKey:   s.Key,
			SitePV:    s.PV,
			SiteUV:    s.UV,
			PageCount: pageCounts[s.Key],
		})
	}
	return out
}

// PageInfo is one row of ListPages.
type PageInfo struct {
	PageKey string `json:"page_key"`
	PagePV  uint64 `json:"page_pv"`
	Path    string `json:"path"`
}

// ListPages returns up to count PageInfo rows for siteKey, starting at
// cursor.
func (svc *Service) ListPages(siteKey string, cursor, count int) []PageInfo {
	pages := svc.store.SnapshotPages()
	var filtered []store.PageRow
	prefix := siteKey + ":"
	for _, p := range pages {
		if strings.HasPrefix(p.Key, prefix) {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Key < filtered[j].Key })

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(filtered) {
		return []PageInfo{}
	}
	end := cursor + count
	if count <= 0 || end > len(filtered) {
		end = len(filtered)
	}

	out := make([]PageInfo, 0, end-cursor)
	for _, p := range filtered[cursor:end] {
		out = append(out, PageInfo{PageKey: p.Key, PagePV: p.PV, Path: p.Path})
	}
	return out
}

// DeleteSite removes siteKey and every page under it.
func (svc *Service) DeleteSite(siteKey, ip, lang string) {
	svc.store.DeleteSite(siteKey)
	svc.log(lang, "delete_site", "site.deleted", i18n.M{"key": siteKey}, ip)
}

// BatchDeleteSites removes every key in keys, returning the number that
// existed.
func (svc *Service) BatchDeleteSites(keys []string, ip, lang string) int {
	n := svc.store.BatchDeleteSites(keys)
	svc.log(lang, "batch_delete_sites", "site.batch_deleted", i18n.M{"count": n}, ip)
	return n
}

// DeletePage removes the exact page_key entry.
func (svc *Service) DeletePage(pageKey, ip, lang string) {
	svc.store.DeletePage(pageKey)
	svc.log(lang, "delete_page", "page.deleted", i18n.M{"key": pageKey}, ip)
}

// BatchDeletePages removes every key in keys, returning the number that
// existed.
func (svc *Service) BatchDeletePages(keys []string, ip, lang string) int {
	n := svc.store.BatchDeletePages(keys)
	svc.log(lang, "batch_delete_pages", "page.batch_deleted", i18n.M{"count": n}, ip)
	return n
}

// RenameSite moves old's counters and pages to new.
func (svc *Service) RenameSite(oldKey, newKey, ip, lang string) error {
	if err := svc.store.RenameSite(oldKey, newKey); err != nil {
		return err
	}
	svc.log(lang, "rename_site", "site.renamed", i18n.M{"old": oldKey, "new": newKey}, ip)
	return nil
}

// MergeSite folds source into target: PV summed, UV as max, pages merged.
func (svc *Service) MergeSite(sourceKey, targetKey, ip, lang string) error {
	if err := svc.store.MergeSite(sourceKey, targetKey); err != nil {
		return err
	}
	svc.log(lang, "merge_site", "site.merged", i18n.M{"source": sourceKey, "target": targetKey}, ip)
	return nil
}

// EditSitePV overwrites siteKey's PV counter.
func (svc *Service) EditSitePV(siteKey string, value uint64, ip, lang string) {
	svc.store.EditSiteCounter(siteKey, store.SitePV, value)
	svc.log(lang, "edit_site", "site.edited", i18n.M{"key": siteKey, "field": "pv", "value": value}, ip)
}

// EditSiteUV overwrites siteKey's UV counter, clearing its visitor set so
// future pageviews re-dedupe from scratch.
func (svc *Service) EditSiteUV(siteKey string, value uint64, ip, lang string) {
	svc.store.EditSiteCounter(siteKey, store.SiteUV, value)
	svc.log(lang, "edit_site", "site.edited", i18n.M{"key": siteKey, "field": "uv", "value": value}, ip)
}

// EditPagePV overwrites pageKey's PV counter.
func (svc *Service) EditPagePV(pageKey string, value uint64, ip, lang string) {
	svc.store.EditPagePv(pageKey, value)
	svc.log(lang, "edit_page", "page.edited", i18n.M{"key": pageKey, "value": value}, ip)
}

// Stats is the aggregate totals returned by GET /api/admin/stats.
type Stats struct {
	SiteCount int    `json:"site_count"`
	PageCount int    `json:"page_count"`
	TotalPV   uint64 `json:"total_pv"`
	TotalUV   uint64 `json:"total_uv"`
}

// Stats computes process-wide totals from the live store.
func (svc *Service) Stats() Stats {
	sites := svc.store.SnapshotSites()
	pages := svc.store.SnapshotPages()

	var st Stats
	st.SiteCount = len(sites)
	st.PageCount = len(pages)
	for _, s := range sites {
		st.TotalPV += s.PV
		st.TotalUV += s.UV
	}
	return st
}

// Export forces a snapshot and returns the database file bytes.
func (svc *Service) Export(ctx context.Context) ([]byte, error) {
	return svc.db.ExportToBlob(ctx, svc.store)
}

// Import replaces the live store's contents from an uploaded SQLite file.
func (svc *Service) Import(ctx context.Context, data []byte, ip, lang string) (persistence.ImportCounts, error) {
	counts, err := svc.db.ImportFromFile(ctx, svc.store, data)
	if err != nil {
		return counts, err
	}
	svc.log(lang, "import", "import.completed", i18n.M{
		"sites": counts.Sites, "pages": counts.Pages, "visitors": counts.Visitors,
	}, ip)
	return counts, nil
}

// LogPage is one page of operation log entries.
type LogPage struct {
	Rows  []persistence.LogRow `json:"rows"`
	Total int64                `json:"total"`
}

// Logs returns a page of the operation log.
func (svc *Service) Logs(page, size int) (LogPage, error) {
	rows, total, err := svc.db.QueryLogs(page, size)
	if err != nil {
		return LogPage{}, err
	}
	return LogPage{Rows: rows, Total: total}, nil
}
