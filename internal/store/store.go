// Package store implements the in-memory sharded counter tables: site
// page views, site unique visitors, page page views, and their display
// maps. Every table is split across a fixed number of lock-guarded shards
// so the counting hot path never contends on a single global mutex.
package store

import (
	"errors"
	"hash/fnv"
	"strings"
	"sync"
)

// SiteKey identifies a site. Opaque to the store; callers derive it.
type SiteKey = string

// PageKey identifies a page, always prefixed by its SiteKey + ":".
type PageKey = string

// VisitorHash is a 64-bit hash of a VisitorToken used for UV dedup.
type VisitorHash = uint64

// Errors returned by administrative operations. The counting hot path
// never returns an error.
var (
	ErrSameKey    = errors.New("store: source and target keys are identical")
	ErrNotFound   = errors.New("store: key not found")
	ErrKeyExists  = errors.New("store: target key already exists")
)

const shardCount = 32

// shard holds one slice of the keyspace behind its own mutex.
type shard struct {
	mu            sync.Mutex
	sitePV        map[SiteKey]uint64
	siteUV        map[SiteKey]uint64
	siteVisitors  map[SiteKey]map[VisitorHash]struct{}
	pagePV        map[PageKey]uint64
	siteHosts     map[SiteKey]string
	pagePaths     map[PageKey]string
}

func newShard() *shard {
	return &shard{
		sitePV:       make(map[SiteKey]uint64),
		siteUV:       make(map[SiteKey]uint64),
		siteVisitors: make(map[SiteKey]map[VisitorHash]struct{}),
		pagePV:       make(map[PageKey]uint64),
		siteHosts:    make(map[SiteKey]string),
		pagePaths:    make(map[PageKey]string),
	}
}

// NewVisitorEntry is one row of the append-only delta of new visitors
// since the last snapshot; the persistence engine drains and discards it
// after each successful full snapshot.
type NewVisitorEntry struct {
	SiteKey SiteKey
	Hash    VisitorHash
}

// Store holds all live counters across shardCount independent shards.
// Sites and pages are assigned to shards by a hash of their own key, so a
// site and its pages are not guaranteed to share a shard; cross-shard
// operations (merge, deleteSite cascading to its pages) therefore lock
// shards one at a time. RenameSite is the exception: it holds the old and
// new site shards together, locking them in shard-index order. No shard
// lock is held across I/O.
type Store struct {
	shards [shardCount]*shard

	deltaMu sync.Mutex
	delta   []NewVisitorEntry
}

// New constructs an empty Store.
func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = newShard()
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

// Counts is the (pv, uv, pv) triple returned by a counting request.
type Counts struct {
	SitePV uint64
	SiteUV uint64
	PagePV uint64
}

// IncrementForPageview records one pageview for (site_key, page_key),
// deduplicating the visitor against the site's visitor set, and returns
// the post-increment counters.
func (s *Store) IncrementForPageview(siteKey SiteKey, pageKey PageKey, host, path string, vh VisitorHash) Counts {
	siteShard := s.shardFor(siteKey)
	siteShard.mu.Lock()
	siteShard.sitePV[siteKey]++
	sitePV := siteShard.sitePV[siteKey]

	visitors, ok := siteShard.siteVisitors[siteKey]
	if !ok {
		visitors = make(map[VisitorHash]struct{})
		siteShard.siteVisitors[siteKey] = visitors
	}
	var siteUV uint64
	if _, seen := visitors[vh]; !seen {
		visitors[vh] = struct{}{}
		siteShard.siteUV[siteKey]++
		siteUV = siteShard.siteUV[siteKey]
		s.appendDelta(siteKey, vh)
	} else {
		siteUV = siteShard.siteUV[siteKey]
	}

	if _, set := siteShard.siteHosts[siteKey]; !set {
		siteShard.siteHosts[siteKey] = host
	}
	siteShard.mu.Unlock()

	pageShard := s.shardFor(pageKey)
	pageShard.mu.Lock()
	pageShard.pagePV[pageKey]++
	pagePV := pageShard.pagePV[pageKey]
	if _, set := pageShard.pagePaths[pageKey]; !set {
		pageShard.pagePaths[pageKey] = path
	}
	pageShard.mu.Unlock()

	return Counts{SitePV: sitePV, SiteUV: siteUV, PagePV: pagePV}
}

func (s *Store) appendDelta(siteKey SiteKey, vh VisitorHash) {
	s.deltaMu.Lock()
	s.delta = append(s.delta, NewVisitorEntry{SiteKey: siteKey, Hash: vh})
	s.deltaMu.Unlock()
}

// Peek returns the current counters for (site_key, page_key) without
// mutating anything. Missing entries read as 0.
func (s *Store) Peek(siteKey SiteKey, pageKey PageKey) Counts {
	siteShard := s.shardFor(siteKey)
	siteShard.mu.Lock()
	sitePV := siteShard.sitePV[siteKey]
	siteUV := siteShard.siteUV[siteKey]
	siteShard.mu.Unlock()

	pageShard := s.shardFor(pageKey)
	pageShard.mu.Lock()
	pagePV := pageShard.pagePV[pageKey]
	pageShard.mu.Unlock()

	return Counts{SitePV: sitePV, SiteUV: siteUV, PagePV: pagePV}
}

// DeleteSite removes site_key and every page under "site_key:".
func (s *Store) DeleteSite(siteKey SiteKey) {
	siteShard := s.shardFor(siteKey)
	siteShard.mu.Lock()
	delete(siteShard.sitePV, siteKey)
	delete(siteShard.siteUV, siteKey)
	delete(siteShard.siteVisitors, siteKey)
	delete(siteShard.siteHosts, siteKey)
	siteShard.mu.Unlock()

	prefix := siteKey + ":"
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k := range sh.pagePV {
			if strings.HasPrefix(k, prefix) {
				delete(sh.pagePV, k)
				delete(sh.pagePaths, k)
			}
		}
		sh.mu.Unlock()
	}
}

// DeletePage removes the exact page_key entry.
func (s *Store) DeletePage(pageKey PageKey) {
	sh := s.shardFor(pageKey)
	sh.mu.Lock()
	delete(sh.pagePV, pageKey)
	delete(sh.pagePaths, pageKey)
	sh.mu.Unlock()
}

// BatchDeleteSites deletes each key and returns the number that existed.
func (s *Store) BatchDeleteSites(keys []SiteKey) int {
	removed := 0
	for _, k := range keys {
		sh := s.shardFor(k)
		sh.mu.Lock()
		_, existed := sh.sitePV[k]
		sh.mu.Unlock()
		if existed {
			removed++
		}
		s.DeleteSite(k)
	}
	return removed
}

// BatchDeletePages deletes each key and returns the number that existed.
func (s *Store) BatchDeletePages(keys []PageKey) int {
	removed := 0
	for _, k := range keys {
		sh := s.shardFor(k)
		sh.mu.Lock()
		_, existed := sh.pagePV[k]
		if existed {
			delete(sh.pagePV, k)
			delete(sh.pagePaths, k)
			removed++
		}
		sh.mu.Unlock()
	}
	return removed
}

// RenameSite moves all counters from old to new, including every page
// under "old:", reinserted under "new:<suffix>" with the same PV.
func (s *Store) RenameSite(oldKey, newKey SiteKey) error {
	if oldKey == newKey {
		return ErrSameKey
	}

	oldShard := s.shardFor(oldKey)
	newShardPtr := s.shardFor(newKey)

	// Lock in a fixed order (by shard index) to avoid deadlock when two
	// renames target each other's shards concurrently. Both are unlocked
	// again before renamePages runs, since that sweeps every shard
	// (including these two) and sync.Mutex isn't reentrant.
	first, second := oldShard, newShardPtr
	if second == first {
		first.mu.Lock()
	} else if shardIndex(s, first) < shardIndex(s, second) {
		first.mu.Lock()
		second.mu.Lock()
	} else {
		second.mu.Lock()
		first.mu.Lock()
	}
	unlock := func() {
		if second != first {
			first.mu.Unlock()
			second.mu.Unlock()
		} else {
			first.mu.Unlock()
		}
	}

	pv, ok := oldShard.sitePV[oldKey]
	if !ok {
		unlock()
		return ErrNotFound
	}
	if _, exists := newShardPtr.sitePV[newKey]; exists {
		unlock()
		return ErrKeyExists
	}

	uv := oldShard.siteUV[oldKey]
	visitors := oldShard.siteVisitors[oldKey]
	host := oldShard.siteHosts[oldKey]

	delete(oldShard.sitePV, oldKey)
	delete(oldShard.siteUV, oldKey)
	delete(oldShard.siteVisitors, oldKey)
	delete(oldShard.siteHosts, oldKey)

	newShardPtr.sitePV[newKey] = pv
	newShardPtr.siteUV[newKey] = uv
	if visitors != nil {
		newShardPtr.siteVisitors[newKey] = visitors
	}
	if host != "" {
		newShardPtr.siteHosts[newKey] = host
	}
	unlock()

	s.renamePages(oldKey, newKey)
	return nil
}

func (s *Store) renamePages(oldSiteKey, newSiteKey SiteKey) {
	oldPrefix := oldSiteKey + ":"
	type move struct {
		suffix string
		pv     uint64
		path   string
	}
	var moves []move

	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, pv := range sh.pagePV {
			if strings.HasPrefix(k, oldPrefix) {
				moves = append(moves, move{suffix: strings.TrimPrefix(k, oldPrefix), pv: pv, path: sh.pagePaths[k]})
				delete(sh.pagePV, k)
				delete(sh.pagePaths, k)
			}
		}
		sh.mu.Unlock()
	}

	for _, m := range moves {
		newKey := newSiteKey + ":" + m.suffix
		sh := s.shardFor(newKey)
		sh.mu.Lock()
		sh.pagePV[newKey] = m.pv
		if m.path != "" {
			sh.pagePaths[newKey] = m.path
		}
		sh.mu.Unlock()
	}
}

func shardIndex(s *Store, target *shard) int {
	for i, sh := range s.shards {
		if sh == target {
			return i
		}
	}
	return -1
}

// MergeSite sums PV and unions visitor sets from source into target,
// setting target's UV to the max of the two prior UV values (spec's
// accepted approximation, see DESIGN.md). Every page under "source:" has
// its PV added to the corresponding "target:<suffix>" page. Source is
// then fully deleted.
func (s *Store) MergeSite(sourceKey, targetKey SiteKey) error {
	if sourceKey == targetKey {
		return ErrSameKey
	}

	sourceShard := s.shardFor(sourceKey)
	sourceShard.mu.Lock()
	sourcePV, ok := sourceShard.sitePV[sourceKey]
	if !ok {
		sourceShard.mu.Unlock()
		return ErrNotFound
	}
	sourceUV := sourceShard.siteUV[sourceKey]
	sourceVisitors := sourceShard.siteVisitors[sourceKey]
	delete(sourceShard.sitePV, sourceKey)
	delete(sourceShard.siteUV, sourceKey)
	delete(sourceShard.siteVisitors, sourceKey)
	delete(sourceShard.siteHosts, sourceKey)
	sourceShard.mu.Unlock()

	targetShard := s.shardFor(targetKey)
	targetShard.mu.Lock()
	targetShard.sitePV[targetKey] += sourcePV
	targetUV := targetShard.siteUV[targetKey]
	if sourceUV > targetUV {
		targetUV = sourceUV
	}
	targetShard.siteUV[targetKey] = targetUV

	targetVisitors, ok := targetShard.siteVisitors[targetKey]
	if !ok {
		targetVisitors = make(map[VisitorHash]struct{})
		targetShard.siteVisitors[targetKey] = targetVisitors
	}
	for vh := range sourceVisitors {
		targetVisitors[vh] = struct{}{}
	}
	targetShard.mu.Unlock()

	s.mergePages(sourceKey, targetKey)
	return nil
}

func (s *Store) mergePages(sourceSiteKey, targetSiteKey SiteKey) {
	sourcePrefix := sourceSiteKey + ":"
	type move struct {
		suffix string
		pv     uint64
		path   string
	}
	var moves []move

	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, pv := range sh.pagePV {
			if strings.HasPrefix(k, sourcePrefix) {
				moves = append(moves, move{suffix: strings.TrimPrefix(k, sourcePrefix), pv: pv, path: sh.pagePaths[k]})
				delete(sh.pagePV, k)
				delete(sh.pagePaths, k)
			}
		}
		sh.mu.Unlock()
	}

	for _, m := range moves {
		targetKey := targetSiteKey + ":" + m.suffix
		sh := s.shardFor(targetKey)
		sh.mu.Lock()
		sh.pagePV[targetKey] += m.pv
		if m.path != "" {
			if _, set := sh.pagePaths[targetKey]; !set {
				sh.pagePaths[targetKey] = m.path
			}
		}
		sh.mu.Unlock()
	}
}

// CounterKind selects which site counter EditSiteCounter/SetIfGreater act on.
type CounterKind int

const (
	SitePV CounterKind = iota
	SiteUV
)

// EditSiteCounter sets site_key's named counter to value, creating the
// entry if absent. Editing SiteUV also replaces the visitor set: it is
// cleared so subsequent traffic re-derives UV from the new baseline.
func (s *Store) EditSiteCounter(siteKey SiteKey, which CounterKind, value uint64) {
	sh := s.shardFor(siteKey)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	switch which {
	case SitePV:
		sh.sitePV[siteKey] = value
	case SiteUV:
		sh.siteUV[siteKey] = value
		sh.siteVisitors[siteKey] = make(map[VisitorHash]struct{})
	}
}

// SetIfGreater updates site_key's named counter to value only if value is
// strictly greater than the current one, implementing the "only increase
// on sync" ratchet against downward jitter from an external sync source.
// Reports whether it updated the counter.
func (s *Store) SetIfGreater(siteKey SiteKey, which CounterKind, value uint64) bool {
	sh := s.shardFor(siteKey)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	switch which {
	case SitePV:
		if value > sh.sitePV[siteKey] {
			sh.sitePV[siteKey] = value
			return true
		}
	case SiteUV:
		if value > sh.siteUV[siteKey] {
			sh.siteUV[siteKey] = value
			return true
		}
	}
	return false
}

// EditPagePv sets page_key's PV, creating the entry if absent.
func (s *Store) EditPagePv(pageKey PageKey, value uint64) {
	sh := s.shardFor(pageKey)
	sh.mu.Lock()
	sh.pagePV[pageKey] = value
	sh.mu.Unlock()
}

// SiteRow is one row yielded by SnapshotSites.
type SiteRow struct {
	Key  SiteKey
	PV   uint64
	UV   uint64
	Host string
}

// PageRow is one row yielded by SnapshotPages.
type PageRow struct {
	Key  PageKey
	PV   uint64
	Path string
}

// VisitorRow is one row yielded by SnapshotVisitors.
type VisitorRow struct {
	SiteKey SiteKey
	Hash    VisitorHash
}

// SnapshotSites returns a point-in-time-ish copy of every site row. Not
// globally atomic with SnapshotPages/SnapshotVisitors, matching §5's
// persistence consistency model.
func (s *Store) SnapshotSites() []SiteRow {
	var rows []SiteRow
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, pv := range sh.sitePV {
			rows = append(rows, SiteRow{Key: k, PV: pv, UV: sh.siteUV[k], Host: sh.siteHosts[k]})
		}
		sh.mu.Unlock()
	}
	return rows
}

// SnapshotPages returns a point-in-time-ish copy of every page row.
func (s *Store) SnapshotPages() []PageRow {
	var rows []PageRow
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, pv := range sh.pagePV {
			rows = append(rows, PageRow{Key: k, PV: pv, Path: sh.pagePaths[k]})
		}
		sh.mu.Unlock()
	}
	return rows
}

// SnapshotVisitors returns a point-in-time-ish copy of every visitor row.
func (s *Store) SnapshotVisitors() []VisitorRow {
	var rows []VisitorRow
	for _, sh := range s.shards {
		sh.mu.Lock()
		for siteKey, set := range sh.siteVisitors {
			for vh := range set {
				rows = append(rows, VisitorRow{SiteKey: siteKey, Hash: vh})
			}
		}
		sh.mu.Unlock()
	}
	return rows
}

// DrainNewVisitors returns and clears the append-only new-visitor delta.
func (s *Store) DrainNewVisitors() []NewVisitorEntry {
	s.deltaMu.Lock()
	defer s.deltaMu.Unlock()
	drained := s.delta
	s.delta = nil
	return drained
}

// ReplaceAll atomically clears every table and refills it from the given
// rows, as used by import. NewVisitorsDelta is cleared.
func (s *Store) ReplaceAll(sites []SiteRow, pages []PageRow, visitors []VisitorRow) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.sitePV = make(map[SiteKey]uint64)
		sh.siteUV = make(map[SiteKey]uint64)
		sh.siteVisitors = make(map[SiteKey]map[VisitorHash]struct{})
		sh.pagePV = make(map[PageKey]uint64)
		sh.siteHosts = make(map[SiteKey]string)
		sh.pagePaths = make(map[PageKey]string)
		sh.mu.Unlock()
	}

	for _, row := range sites {
		sh := s.shardFor(row.Key)
		sh.mu.Lock()
		sh.sitePV[row.Key] = row.PV
		sh.siteUV[row.Key] = row.UV
		if row.Host != "" {
			sh.siteHosts[row.Key] = row.Host
		}
		if _, ok := sh.siteVisitors[row.Key]; !ok {
			sh.siteVisitors[row.Key] = make(map[VisitorHash]struct{})
		}
		sh.mu.Unlock()
	}

	for _, row := range pages {
		sh := s.shardFor(row.Key)
		sh.mu.Lock()
		sh.pagePV[row.Key] = row.PV
		if row.Path != "" {
			sh.pagePaths[row.Key] = row.Path
		}
		sh.mu.Unlock()
	}

	for _, row := range visitors {
		sh := s.shardFor(row.SiteKey)
		sh.mu.Lock()
		set, ok := sh.siteVisitors[row.SiteKey]
		if !ok {
			set = make(map[VisitorHash]struct{})
			sh.siteVisitors[row.SiteKey] = set
		}
		set[row.Hash] = struct{}{}
		sh.mu.Unlock()
	}

	s.deltaMu.Lock()
	s.delta = nil
	s.deltaMu.Unlock()
}
