package controllers

import (
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"pad/internal/models"
	"pad/internal/presence"
	"pad/internal/providers"
	"pad/internal/services"
)

const maxRequestBodySize = 4 << 20 // 4 MB

type ApiController struct {
	logger  providers.Logger
	service services.PresenceServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, service services.PresenceServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

func (ac *ApiController) parseScope(r *http.Request) (presence.Scope, error) {
	return presence.ParseScope(
		r.URL.Query().Get("scope"),
		r.URL.Query().Get("date"),
		ac.service.Location(),
	)
}

func scopeCacheKey(r *http.Request) string {
	q := r.URL.Query()
	return q.Get("scope") + ":" + q.Get("date")
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// ReceiveRows ingests a batch of raw 4-column feed rows. Rows that
// fail normalization are dropped and counted, never stored.
func (ac *ApiController) ReceiveRows(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var rows []models.RawRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	accepted, rejected := ac.service.AddRows(rows)
	if rejected > 0 {
		ac.metrics.AddRowsRejected(rejected)
		ac.logger.Warnf(providers.TypePost, "Rejected %d of %d rows at ingest", rejected, len(rows))
	}

	writeJSON(w, http.StatusCreated, map[string]int{"accepted": accepted, "rejected": rejected})
}

func (ac *ApiController) GetAggregates(w http.ResponseWriter, r *http.Request) {
	scope, err := ac.parseScope(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = models.SortByScore
	}
	desc := r.URL.Query().Get("order") != "asc"

	key := "aggregates:" + scopeCacheKey(r) + ":" + sortKey + ":" + r.URL.Query().Get("order")
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.service.Aggregates(scope, sortKey, desc), nil
	})
}

func (ac *ApiController) GetLive(w http.ResponseWriter, r *http.Request) {
	scope, err := ac.parseScope(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	// Live status is diff-sensitive, never cached.
	writeJSON(w, http.StatusOK, ac.service.Live(scope))
}

func (ac *ApiController) GetInsights(w http.ResponseWriter, r *http.Request) {
	scope, err := ac.parseScope(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "insights:"+scopeCacheKey(r), func() (any, error) {
		return ac.service.Insights(scope), nil
	})
}

func (ac *ApiController) ExportReport(w http.ResponseWriter, r *http.Request) {
	scope, err := ac.parseScope(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.Report(scope))
}

func (ac *ApiController) ExportUsernames(w http.ResponseWriter, r *http.Request) {
	scope, err := ac.parseScope(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.UsernameList(scope))
}

func (ac *ApiController) GetMarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Marks())
}

// ImportMarks merges an uploaded mark-set document into the stored
// one. The legacy "deleted" key is accepted as an alias for toDelete.
func (ac *ApiController) ImportMarks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	merged, err := ac.service.ImportMarks(data)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

// ReceiveWatchlist uploads usernames to watch. The payload must be a
// JSON array of strings; anything else is rejected at the boundary.
func (ac *ApiController) ReceiveWatchlist(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var usernames []string
	if err := json.NewDecoder(r.Body).Decode(&usernames); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	added, err := ac.service.WatchUpload(usernames)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Watch-list upload failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"added": added})
}

func (ac *ApiController) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := ac.service.WatchEntries()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Watch-list read failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// TriggerRefresh runs the pipeline immediately instead of waiting for
// the scheduler tick.
func (ac *ApiController) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary := ac.service.Refresh()

	ac.metrics.IncRefreshes()
	ac.metrics.ObserveRefreshDuration(time.Since(start))
	ac.metrics.SetOnlineUsers(summary.Online)
	ac.metrics.SetGhostUsers(summary.Ghosts)
	ac.metrics.AddVipNotifications(len(summary.NotifiedVips))

	writeJSON(w, http.StatusOK, summary)
}
