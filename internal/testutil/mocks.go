package testutil

import (
	"sync"
	"time"

	"pad/internal/providers"
	"pad/internal/watchdb"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockStateStore is an in-memory providers.StateStoreInterface.
type MockStateStore struct {
	mu        sync.Mutex
	Data      map[string][]byte
	LoadCalls int
	SaveCalls int
	LoadErr   error
	SaveErr   error
}

func NewMockStateStore() *MockStateStore {
	return &MockStateStore{Data: make(map[string][]byte)}
}

func (m *MockStateStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockStateStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockStateStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockStateStore) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	return m.LoadErr
}

func (m *MockStateStore) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	return m.SaveErr
}

// MockNotifier records emitted notifications.
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
}

type Notification struct {
	Title   string
	Message string
}

func (m *MockNotifier) Notify(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, Notification{Title: title, Message: message})
}

// MockCompressor passes data through unchanged.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the calls tests care about.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	Refreshes        int
	RowsRejected     int
	VipNotifications int
	OnlineUsers      int
	GhostUsers       int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *MockMetrics) IncRefreshes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}
func (m *MockMetrics) ObserveRefreshDuration(_ time.Duration) {}
func (m *MockMetrics) AddRowsRejected(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsRejected += count
}
func (m *MockMetrics) AddVipNotifications(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VipNotifications += count
}
func (m *MockMetrics) SetOnlineUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OnlineUsers = count
}
func (m *MockMetrics) SetGhostUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GhostUsers = count
}

// MockWatchStore implements watchdb.StoreInterface in memory.
type MockWatchStore struct {
	mu      sync.Mutex
	Watched map[string]watchdb.Entry
	Touches []TouchCall
}

type TouchCall struct {
	Username  string
	Seen      time.Time
	Followers int64
}

func NewMockWatchStore() *MockWatchStore {
	return &MockWatchStore{Watched: make(map[string]watchdb.Entry)}
}

func (m *MockWatchStore) Add(usernames []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for _, u := range usernames {
		if u == "" {
			continue
		}
		if _, ok := m.Watched[u]; !ok {
			m.Watched[u] = watchdb.Entry{Username: u, AddedAt: time.Now()}
			added++
		}
	}
	return added, nil
}

func (m *MockWatchStore) Entries() ([]watchdb.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]watchdb.Entry, 0, len(m.Watched))
	for _, e := range m.Watched {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockWatchStore) TouchSeen(username string, seen time.Time, followers int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Touches = append(m.Touches, TouchCall{Username: username, Seen: seen, Followers: followers})
	if e, ok := m.Watched[username]; ok {
		e.LastSeen = &seen
		e.LastFollowers = followers
		m.Watched[username] = e
	}
	return nil
}

func (m *MockWatchStore) Close() error { return nil }
