package services

import (
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"pad/internal/models"
	"pad/internal/presence"
	"pad/internal/providers"
	"pad/internal/structures"
	"pad/internal/watchdb"
)

const stateKeyPings = "pings"

// RefreshSummary is what one pipeline run produced; consumers feed it
// into metrics and logs.
type RefreshSummary struct {
	BufferedPings int
	TotalPings    int
	Online        int
	Ghosts        int
	NotifiedVips  []string
}

// LiveUser is a classified username cross-referenced with its display
// metadata from the aggregate collection.
type LiveUser struct {
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	Followers     int64     `json:"followers"`
	LastSeen      time.Time `json:"lastSeen"`
	ProfileLink   string    `json:"profileLink"`
	VIP           bool      `json:"vip"`
	HighlightedAt int64     `json:"highlightedAt,omitempty"`
}

type LiveReport struct {
	Online      []LiveUser `json:"online"`
	Ghosts      []LiveUser `json:"ghosts"`
	LastSeen    []LiveUser `json:"lastSeen,omitempty"`
	Historical  bool       `json:"historical"`
	LatestBlock time.Time  `json:"latestBlock"`
}

type PresenceServiceInterface interface {
	AddRows(rows []models.RawRow) (accepted, rejected int)
	Refresh() RefreshSummary
	Aggregates(scope presence.Scope, sortKey string, desc bool) []models.UserAggregate
	Live(scope presence.Scope) LiveReport
	Insights(scope presence.Scope) presence.Insights
	Report(scope presence.Scope) []presence.ReportEntry
	UsernameList(scope presence.Scope) []string
	Marks() *models.UserMarkSet
	ImportMarks(data []byte) (*models.UserMarkSet, error)
	WatchUpload(usernames []string) (int, error)
	WatchEntries() ([]watchdb.Entry, error)
	Location() *time.Location
	RestoreSnapshot() error
	PersistSnapshot() error
	GetBufferSize() int
	PingCount() int
	UserCount() int
}

// PresenceService owns the materialized ping snapshot and runs the
// analytics pipeline over it. Incoming rows are normalized at the
// boundary and double-buffered; a refresh swaps the buffers, merges
// the inactive one into the snapshot and reclassifies.
type PresenceService struct {
	conf       *structures.Config
	logger     providers.Logger
	normalizer *presence.Normalizer
	aggregator *presence.Aggregator
	classifier *presence.LiveClassifier
	insights   *presence.InsightEngine
	tracker    *presence.VipTracker
	store      providers.StateStoreInterface
	watch      watchdb.StoreInterface
	loc        *time.Location

	snapshot *models.SnapshotStore

	bufMu     sync.Mutex
	buffers   [2][]models.PresencePing
	activeIdx int

	// Serializes refreshes; a running pipeline completes before the
	// next may begin.
	refreshMu sync.Mutex
}

func NewPresenceService(
	conf *structures.Config,
	logger providers.Logger,
	normalizer *presence.Normalizer,
	aggregator *presence.Aggregator,
	classifier *presence.LiveClassifier,
	insights *presence.InsightEngine,
	tracker *presence.VipTracker,
	store providers.StateStoreInterface,
	watch watchdb.StoreInterface,
	loc *time.Location,
) PresenceServiceInterface {
	return &PresenceService{
		conf:       conf,
		logger:     logger,
		normalizer: normalizer,
		aggregator: aggregator,
		classifier: classifier,
		insights:   insights,
		tracker:    tracker,
		store:      store,
		watch:      watch,
		loc:        loc,
		snapshot:   models.NewSnapshotStore(),
	}
}

func (ps *PresenceService) AddRows(rows []models.RawRow) (int, int) {
	pings, rejected := ps.normalizer.NormalizeRows(rows)

	ps.bufMu.Lock()
	ps.buffers[ps.activeIdx] = append(ps.buffers[ps.activeIdx], pings...)
	ps.bufMu.Unlock()

	return len(pings), rejected
}

func (ps *PresenceService) Refresh() RefreshSummary {
	ps.refreshMu.Lock()
	defer ps.refreshMu.Unlock()

	ps.bufMu.Lock()
	incoming := ps.buffers[ps.activeIdx]
	ps.buffers[ps.activeIdx] = nil
	ps.activeIdx = 1 - ps.activeIdx
	ps.bufMu.Unlock()

	ps.snapshot.Append(incoming)
	all := ps.snapshot.Snapshot()

	currentScope := presence.Scope{Kind: presence.ScopeAll, Loc: ps.loc}
	status := ps.classifier.Classify(all, currentScope)

	marks := ps.Marks()
	notified := ps.tracker.Track(status.Online, marks)

	ps.touchWatchlist(all)

	return RefreshSummary{
		BufferedPings: len(incoming),
		TotalPings:    len(all),
		Online:        len(status.Online),
		Ghosts:        len(status.Ghosts),
		NotifiedVips:  notified,
	}
}

// touchWatchlist cross-references watched usernames against the feed
// and records their most recent sighting.
func (ps *PresenceService) touchWatchlist(all []models.PresencePing) {
	entries, err := ps.watch.Entries()
	if err != nil {
		ps.logger.Warnf(providers.TypeApp, "Watch-list read failed: %s", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	watched := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		watched[e.Username] = struct{}{}
	}

	type sighting struct {
		at        time.Time
		followers int64
	}
	latest := make(map[string]sighting)
	for _, p := range all {
		if _, ok := watched[p.Username]; !ok {
			continue
		}
		if cur, ok := latest[p.Username]; !ok || p.Timestamp.After(cur.at) {
			latest[p.Username] = sighting{at: p.Timestamp, followers: p.FollowerCount}
		}
	}

	for username, s := range latest {
		if err := ps.watch.TouchSeen(username, s.at, s.followers); err != nil {
			ps.logger.Warnf(providers.TypeApp, "Watch-list update for %s failed: %s", username, err)
		}
	}
}

func (ps *PresenceService) Aggregates(scope presence.Scope, sortKey string, desc bool) []models.UserAggregate {
	scoped := presence.FilterPings(ps.snapshot.Snapshot(), scope)
	aggs := ps.aggregator.Aggregate(scoped)
	models.SortAggregates(aggs, sortKey, desc)
	return aggs
}

func (ps *PresenceService) Live(scope presence.Scope) LiveReport {
	all := ps.snapshot.Snapshot()
	status := ps.classifier.Classify(all, scope)

	meta := make(map[string]models.UserAggregate)
	for _, a := range ps.aggregator.Aggregate(all) {
		meta[a.Username] = a
	}

	marks := ps.Marks()
	highlights := ps.tracker.Highlights()

	decorate := func(usernames []string) []LiveUser {
		out := make([]LiveUser, 0, len(usernames))
		for _, u := range usernames {
			lu := LiveUser{Username: u, DisplayName: u}
			if a, ok := meta[u]; ok {
				lu.DisplayName = a.DisplayName
				lu.Followers = a.MaxFollowers
				lu.LastSeen = a.LastSeen
				lu.ProfileLink = a.ProfileLink
			}
			lu.VIP = marks.IsVIP(u)
			lu.HighlightedAt = highlights[u]
			out = append(out, lu)
		}
		return out
	}

	report := LiveReport{
		Online:      decorate(status.Online),
		Ghosts:      decorate(status.Ghosts),
		Historical:  status.Historical,
		LatestBlock: status.LatestBlock,
	}
	if status.Historical {
		report.LastSeen = decorate(status.LastSeen)
	}
	return report
}

func (ps *PresenceService) Insights(scope presence.Scope) presence.Insights {
	scoped := presence.FilterPings(ps.snapshot.Snapshot(), scope)
	return ps.insights.Analyze(ps.aggregator.Aggregate(scoped))
}

func (ps *PresenceService) Report(scope presence.Scope) []presence.ReportEntry {
	all := ps.snapshot.Snapshot()
	status := ps.classifier.Classify(all, scope)
	scoped := presence.FilterPings(all, scope)
	aggs := ps.aggregator.Aggregate(scoped)
	models.SortAggregates(aggs, models.SortByScore, true)
	return presence.BuildReport(aggs, status, ps.loc)
}

func (ps *PresenceService) UsernameList(scope presence.Scope) []string {
	scoped := presence.FilterPings(ps.snapshot.Snapshot(), scope)
	return presence.Usernames(ps.aggregator.Aggregate(scoped))
}

// Marks reads the operator mark set, tolerating absent or corrupt
// stored data by falling back to an empty set.
func (ps *PresenceService) Marks() *models.UserMarkSet {
	marks := &models.UserMarkSet{}
	raw, ok := ps.store.Get(presence.StateKeyMarks)
	if !ok {
		return marks
	}
	if err := json.Unmarshal(raw, marks); err != nil {
		ps.logger.Warnf(providers.TypeApp, "Corrupt mark set, falling back to empty: %s", err)
		return &models.UserMarkSet{}
	}
	return marks
}

// ImportMarks merges an uploaded mark-set document (set union, legacy
// "deleted" alias accepted) into the stored one and suppresses the
// next VIP diff so the edit cannot fire notifications.
func (ps *PresenceService) ImportMarks(data []byte) (*models.UserMarkSet, error) {
	var imported models.UserMarkSet
	if err := json.Unmarshal(data, &imported); err != nil {
		return nil, fmt.Errorf("invalid mark-set document: %w", err)
	}

	merged := ps.Marks()
	merged.Merge(&imported)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	ps.store.Set(presence.StateKeyMarks, raw)
	ps.tracker.MarkSetEdited()

	ps.logger.Infof(providers.TypeApp, "Mark set imported: %d vip, %d to delete", len(merged.VIP), len(merged.ToDelete))
	return merged, nil
}

func (ps *PresenceService) WatchUpload(usernames []string) (int, error) {
	return ps.watch.Add(usernames)
}

func (ps *PresenceService) WatchEntries() ([]watchdb.Entry, error) {
	return ps.watch.Entries()
}

func (ps *PresenceService) Location() *time.Location {
	return ps.loc
}

// RestoreSnapshot loads the persisted ping snapshot from the state
// store. Corrupt data starts empty rather than failing startup.
func (ps *PresenceService) RestoreSnapshot() error {
	raw, ok := ps.store.Get(stateKeyPings)
	if !ok {
		return nil
	}
	var pings []models.PresencePing
	if err := json.Unmarshal(raw, &pings); err != nil {
		ps.logger.Warnf(providers.TypeApp, "Corrupt ping snapshot, starting empty: %s", err)
		return nil
	}
	ps.snapshot.Replace(pings)
	return nil
}

func (ps *PresenceService) PersistSnapshot() error {
	raw, err := json.Marshal(ps.snapshot.Snapshot())
	if err != nil {
		return err
	}
	ps.store.Set(stateKeyPings, raw)
	return nil
}

func (ps *PresenceService) GetBufferSize() int {
	ps.bufMu.Lock()
	defer ps.bufMu.Unlock()
	return len(ps.buffers[ps.activeIdx])
}

func (ps *PresenceService) PingCount() int {
	return ps.snapshot.Len()
}

func (ps *PresenceService) UserCount() int {
	users := make(map[string]struct{})
	for _, p := range ps.snapshot.Snapshot() {
		users[p.Username] = struct{}{}
	}
	return len(users)
}
