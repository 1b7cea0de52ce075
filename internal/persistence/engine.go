// Package persistence owns the single on-disk database file: periodic
// full-rewrite snapshots, on-demand export, and atomic import, exactly as
// specified by spec.md §4.4. One exclusive mutex guards the database
// handle; the in-memory store's own concurrency guarantees (internal/store)
// are relied on for everything this package reads without locking.
package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/counterhub/counterhub/core/logger"
	"github.com/counterhub/counterhub/internal/store"
	"github.com/counterhub/counterhub/pkg/async"
)

// Store is the subset of *store.Store the engine reads and replaces.
// Defined locally so this package depends on behavior, not internal/store's
// full surface.
type Store interface {
	SnapshotSites() []store.SiteRow
	SnapshotPages() []store.PageRow
	SnapshotVisitors() []store.VisitorRow
	DrainNewVisitors() []store.NewVisitorEntry
	ReplaceAll(sites []store.SiteRow, pages []store.PageRow, visitors []store.VisitorRow)
}

// Engine owns the on-disk database file described by spec.md §4.4.
type Engine struct {
	path string
	db   *gorm.DB
	mu   sync.Mutex
	log  *slog.Logger
}

// Open opens (creating if absent) the SQLite file at path and migrates its
// schema. A missing file is not an error, matching spec.md's Load()
// contract for startup.
func Open(path string, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&siteModel{}, &pageModel{}, &visitorModel{}, &operationLogModel{}); err != nil {
		return nil, fmt.Errorf("persistence: migrate schema: %w", err)
	}

	return &Engine{path: path, db: db, log: log}, nil
}

// Load reads every table into s. Malformed rows abort with an error;
// a freshly created (empty) database is not an error.
func (e *Engine) Load(s Store) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var sites []siteModel
	if err := e.db.Find(&sites).Error; err != nil {
		return fmt.Errorf("persistence: load sites: %w", err)
	}
	var pages []pageModel
	if err := e.db.Find(&pages).Error; err != nil {
		return fmt.Errorf("persistence: load pages: %w", err)
	}
	var visitors []visitorModel
	if err := e.db.Find(&visitors).Error; err != nil {
		return fmt.Errorf("persistence: load visitors: %w", err)
	}

	siteRows := make([]store.SiteRow, len(sites))
	for i, m := range sites {
		siteRows[i] = store.SiteRow{Key: m.Key, PV: m.PV, UV: m.UV, Host: m.Host}
	}
	pageRows := make([]store.PageRow, len(pages))
	for i, m := range pages {
		pageRows[i] = store.PageRow{Key: m.Key, PV: m.PV, Path: m.Path}
	}
	visitorRows := make([]store.VisitorRow, len(visitors))
	for i, m := range visitors {
		visitorRows[i] = store.VisitorRow{SiteKey: m.SiteKey, Hash: m.Hash}
	}

	s.ReplaceAll(siteRows, pageRows, visitorRows)
	return nil
}

// SnapshotPeriodic performs the full-rewrite snapshot: under the database
// mutex, delete every row from sites/pages/visitors and reinsert from s's
// current iterators, then clear s's new-visitors delta on success.
func (e *Engine) SnapshotPeriodic(s Store) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(s)
}

func (e *Engine) snapshotLocked(s Store) error {
	sites := s.SnapshotSites()
	pages := s.SnapshotPages()
	visitors := s.SnapshotVisitors()

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&siteModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&pageModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&visitorModel{}).Error; err != nil {
			return err
		}

		if len(sites) > 0 {
			rows := make([]siteModel, len(sites))
			for i, r := range sites {
				rows[i] = siteModel{Key: r.Key, PV: r.PV, UV: r.UV, Host: r.Host}
			}
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return err
			}
		}
		if len(pages) > 0 {
			rows := make([]pageModel, len(pages))
			for i, r := range pages {
				rows[i] = pageModel{Key: r.Key, PV: r.PV, Path: r.Path}
			}
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return err
			}
		}
		if len(visitors) > 0 {
			rows := make([]visitorModel, len(visitors))
			for i, r := range visitors {
				rows[i] = visitorModel{SiteKey: r.SiteKey, Hash: r.Hash}
			}
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persistence: snapshot: %w", err)
	}

	s.DrainNewVisitors()
	return nil
}

// RunPeriodic runs SnapshotPeriodic on a ticker until ctx is cancelled,
// logging (not dying on) snapshot failures so the next tick retries, per
// spec.md §7's propagation policy. It returns once ctx is done, after
// issuing one final synchronous snapshot for graceful shutdown.
func (e *Engine) RunPeriodic(ctx context.Context, s Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := e.SnapshotPeriodic(s); err != nil {
				e.log.Error("final snapshot failed", logger.Error(err))
			}
			return
		case <-ticker.C:
			if err := e.SnapshotPeriodic(s); err != nil {
				e.log.Error("periodic snapshot failed", logger.Error(err))
			}
		}
	}
}

// ExportToBlob forces a synchronous snapshot then returns the raw file
// bytes, run off the caller's goroutine via pkg/async so a slow disk
// doesn't stall the HTTP accept loop.
func (e *Engine) ExportToBlob(ctx context.Context, s Store) ([]byte, error) {
	var blob []byte
	future := async.Exec(ctx, struct{}{}, func(ctx context.Context, _ struct{}) error {
		e.mu.Lock()
		err := e.snapshotLocked(s)
		path := e.path
		e.mu.Unlock()
		if err != nil {
			return fmt.Errorf("persistence: export snapshot: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("persistence: export read: %w", err)
		}
		blob = data
		return nil
	})
	if err := future.Await(); err != nil {
		return nil, err
	}
	return blob, nil
}

// ImportCounts reports how many rows an import replaced the store with.
type ImportCounts struct {
	Sites    int `json:"sites"`
	Pages    int `json:"pages"`
	Visitors int `json:"visitors"`
}

// ImportFromFile validates data as a SQLite database, atomically replaces
// s's contents, then persists the replacement to the main file, all under
// the database mutex, exactly as spec.md §4.4 orders it: in-memory first,
// on-disk second.
func (e *Engine) ImportFromFile(ctx context.Context, s Store, data []byte) (ImportCounts, error) {
	if len(data) == 0 {
		return ImportCounts{}, ErrEmptyImport
	}
	if len(data) < 16 || string(data[:16]) != sqliteMagic {
		return ImportCounts{}, ErrInvalidImportFile
	}

	var counts ImportCounts
	future := async.Exec(ctx, data, func(ctx context.Context, data []byte) error {
		e.mu.Lock()
		defer e.mu.Unlock()

		tmpPath := e.path + ".import"
		if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
			return fmt.Errorf("persistence: write staged import: %w", err)
		}
		defer os.Remove(tmpPath)

		importDB, err := gorm.Open(sqlite.Open(tmpPath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImportFile, err)
		}

		var sites []siteModel
		if err := importDB.Find(&sites).Error; err != nil {
			return fmt.Errorf("%w: missing sites table", ErrInvalidImportFile)
		}
		var pages []pageModel
		if err := importDB.Find(&pages).Error; err != nil {
			return fmt.Errorf("%w: missing pages table", ErrInvalidImportFile)
		}
		// visitors table is optional; its absence is not an error.
		var visitors []visitorModel
		_ = importDB.Find(&visitors).Error

		siteRows := make([]store.SiteRow, len(sites))
		for i, m := range sites {
			siteRows[i] = store.SiteRow{Key: m.Key, PV: m.PV, UV: m.UV, Host: m.Host}
		}
		pageRows := make([]store.PageRow, len(pages))
		for i, m := range pages {
			pageRows[i] = store.PageRow{Key: m.Key, PV: m.PV, Path: m.Path}
		}
		visitorRows := make([]store.VisitorRow, len(visitors))
		for i, m := range visitors {
			visitorRows[i] = store.VisitorRow{SiteKey: m.SiteKey, Hash: m.Hash}
		}

		// In-memory replacement happens before the on-disk transaction
		// commits, by design (spec.md §7/§9): a crash here leaves memory
		// ahead of disk, resolved by the next snapshot tick.
		s.ReplaceAll(siteRows, pageRows, visitorRows)

		if err := e.snapshotLocked(s); err != nil {
			return fmt.Errorf("persistence: import: on-disk persist: %w", err)
		}

		counts = ImportCounts{Sites: len(sites), Pages: len(pages), Visitors: len(visitors)}
		return nil
	})

	if err := future.Await(); err != nil {
		return ImportCounts{}, err
	}
	return counts, nil
}

// AppendOperationLog records one admin mutation. Failures are swallowed;
// operation logs are advisory, per spec.md §4.4.
func (e *Engine) AppendOperationLog(action, detail, ip string) {
	row := operationLogModel{Timestamp: time.Now(), Action: action, Detail: detail, IP: ip}
	if err := e.db.Create(&row).Error; err != nil {
		e.log.Warn("append operation log failed", logger.Error(err), logger.Action(action))
	}
}

// LogRow is one row returned by QueryLogs.
type LogRow struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	IP        string    `json:"ip"`
}

// QueryLogs returns a page of operation_logs ordered by id descending,
// along with the total row count.
func (e *Engine) QueryLogs(page, size int) ([]LogRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	var total int64
	if err := e.db.Model(&operationLogModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("persistence: count logs: %w", err)
	}

	var rows []operationLogModel
	err := e.db.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("persistence: query logs: %w", err)
	}

	out := make([]LogRow, len(rows))
	for i, r := range rows {
		out[i] = LogRow{ID: r.ID, Timestamp: r.Timestamp, Action: r.Action, Detail: r.Detail, IP: r.IP}
	}
	return out, total, nil
}

// Close releases the underlying database handle.
func (e *Engine) Close() error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
