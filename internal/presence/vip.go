package presence

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"pad/internal/models"
	"pad/internal/providers"
	"pad/internal/structures"
)

const (
	StateKeyMarks      = "marks"
	StateKeyVipOnline  = "vip_online"
	StateKeyHighlights = "vip_highlights"
)

// VipTracker diffs the online-and-VIP set across refreshes and emits a
// notification for every VIP that just came online. The previous
// snapshot lives in the state store; highlights expire after the
// configured window.
//
// Quiet modes: the first run after process start never notifies (there
// is no history to diff against), and a manual mark-set edit
// suppresses the next single diff so the edit itself cannot produce
// false positives.
type VipTracker struct {
	store    providers.StateStoreInterface
	notifier providers.NotifierInterface
	logger   providers.Logger
	window   time.Duration

	mu           sync.Mutex
	primed       bool
	suppressNext bool
	highlights   map[string]int64 // username -> detection epoch millis

	now func() time.Time
}

func NewVipTracker(conf *structures.Config, store providers.StateStoreInterface, notifier providers.NotifierInterface, logger providers.Logger) *VipTracker {
	t := &VipTracker{
		store:    store,
		notifier: notifier,
		logger:   logger,
		window:   conf.Engine.HighlightWindow,
		now:      time.Now,
	}
	t.highlights = t.loadHighlights()
	return t
}

// Track runs one diff cycle against the given online set and mark set.
// It returns the VIPs that were notified this cycle. The current
// snapshot is persisted unconditionally, notification or not.
func (t *VipTracker) Track(online []string, marks *models.UserMarkSet) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := make([]string, 0)
	currentSet := make(map[string]struct{})
	for _, u := range online {
		if marks != nil && marks.IsVIP(u) {
			current = append(current, u)
			currentSet[u] = struct{}{}
		}
	}

	previous := t.loadSnapshot()

	notified := make([]string, 0)
	if t.primed && !t.suppressNext {
		for _, u := range current {
			if _, was := previous[u]; !was {
				notified = append(notified, u)
			}
		}
	}

	nowMillis := t.now().UnixMilli()
	for _, u := range notified {
		t.notifier.Notify("VIP online", u+" just went live")
		t.logger.Infof(providers.TypeApp, "VIP %s came online", u)
		t.highlights[u] = nowMillis
	}

	t.saveSnapshot(current)
	t.pruneLocked()
	t.saveHighlights()

	t.primed = true
	t.suppressNext = false
	return notified
}

// MarkSetEdited flags a manual edit so the next diff is suppressed.
func (t *VipTracker) MarkSetEdited() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suppressNext = true
}

// Highlights returns the still-active highlight map
// (username -> detection epoch millis).
func (t *VipTracker) Highlights() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := make(map[string]int64, len(t.highlights))
	for k, v := range t.highlights {
		out[k] = v
	}
	return out
}

func (t *VipTracker) pruneLocked() {
	cutoff := t.now().Add(-t.window).UnixMilli()
	for u, at := range t.highlights {
		if at < cutoff {
			delete(t.highlights, u)
		}
	}
}

func (t *VipTracker) loadSnapshot() map[string]struct{} {
	set := make(map[string]struct{})
	raw, ok := t.store.Get(StateKeyVipOnline)
	if !ok {
		return set
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		t.logger.Warnf(providers.TypeApp, "Corrupt VIP snapshot, treating as empty: %s", err)
		return set
	}
	for _, u := range list {
		set[u] = struct{}{}
	}
	return set
}

func (t *VipTracker) saveSnapshot(current []string) {
	raw, err := json.Marshal(current)
	if err != nil {
		return
	}
	t.store.Set(StateKeyVipOnline, raw)
}

func (t *VipTracker) loadHighlights() map[string]int64 {
	out := make(map[string]int64)
	raw, ok := t.store.Get(StateKeyHighlights)
	if !ok {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return make(map[string]int64)
	}
	return out
}

func (t *VipTracker) saveHighlights() {
	raw, err := json.Marshal(t.highlights)
	if err != nil {
		return
	}
	t.store.Set(StateKeyHighlights, raw)
}
