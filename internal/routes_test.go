package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/controllers"
	"pad/internal/models"
	"pad/internal/presence"
	"pad/internal/services"
	"pad/internal/structures"
	"pad/internal/testutil"
	"pad/internal/watchdb"
)

// --- minimal mocks for routes test ---

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}

type routeTestMockService struct{}

func (m *routeTestMockService) AddRows(_ []models.RawRow) (int, int)   { return 0, 0 }
func (m *routeTestMockService) Refresh() services.RefreshSummary       { return services.RefreshSummary{} }
func (m *routeTestMockService) Aggregates(_ presence.Scope, _ string, _ bool) []models.UserAggregate {
	return nil
}
func (m *routeTestMockService) Live(_ presence.Scope) services.LiveReport { return services.LiveReport{} }
func (m *routeTestMockService) Insights(_ presence.Scope) presence.Insights {
	return presence.Insights{}
}
func (m *routeTestMockService) Report(_ presence.Scope) []presence.ReportEntry { return nil }
func (m *routeTestMockService) UsernameList(_ presence.Scope) []string         { return nil }
func (m *routeTestMockService) Marks() *models.UserMarkSet                     { return &models.UserMarkSet{} }
func (m *routeTestMockService) ImportMarks(_ []byte) (*models.UserMarkSet, error) {
	return &models.UserMarkSet{}, nil
}
func (m *routeTestMockService) WatchUpload(_ []string) (int, error)   { return 0, nil }
func (m *routeTestMockService) WatchEntries() ([]watchdb.Entry, error) { return nil, nil }
func (m *routeTestMockService) Location() *time.Location               { return time.UTC }
func (m *routeTestMockService) RestoreSnapshot() error                 { return nil }
func (m *routeTestMockService) PersistSnapshot() error                 { return nil }
func (m *routeTestMockService) GetBufferSize() int                     { return 0 }
func (m *routeTestMockService) PingCount() int                         { return 0 }
func (m *routeTestMockService) UserCount() int                         { return 0 }

func newRoutesController() *controllers.ApiController {
	return controllers.NewApiController(&testutil.MockLogger{}, &routeTestMockService{}, &routeTestCache{}, &testutil.MockMetrics{})
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	conf := &structures.Config{
		Engine: structures.EngineConfig{RefreshInterval: 10 * time.Second},
	}

	router := InitRoutes(newRoutesController(), conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 11)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/rows")
	assert.Contains(t, urls, "/aggregates")
	assert.Contains(t, urls, "/live")
	assert.Contains(t, urls, "/insights")
	assert.Contains(t, urls, "/export/report")
	assert.Contains(t, urls, "/export/usernames")
	assert.Contains(t, urls, "/marks")
	assert.Contains(t, urls, "/marks/import")
	assert.Contains(t, urls, "/watchlist")
	assert.Contains(t, urls, "/watchlist/import")
	assert.Contains(t, urls, "/refresh")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	conf := &structures.Config{
		Engine: structures.EngineConfig{RefreshInterval: 10 * time.Second},
	}

	router := InitRoutes(newRoutesController(), conf)
	routes := router.GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// POST /rows with GET should fail
	req := httptest.NewRequest(http.MethodGet, "/rows", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET /aggregates with POST should fail
	req = httptest.NewRequest(http.MethodPost, "/aggregates", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /refresh with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/refresh", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
