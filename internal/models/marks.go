package models

import (
	"strings"

	json "github.com/goccy/go-json"
)

// UserMarkSet is the operator-owned classification state: VIP users
// and users queued for deletion. Stored as JSON arrays; treated as
// sets everywhere.
type UserMarkSet struct {
	VIP      []string `json:"vip"`
	ToDelete []string `json:"toDelete"`
}

// markSetWire accepts the legacy "deleted" alias for the deletion
// list alongside the current "toDelete" key.
type markSetWire struct {
	VIP      []string `json:"vip"`
	ToDelete []string `json:"toDelete"`
	Deleted  []string `json:"deleted"`
}

func (m *UserMarkSet) UnmarshalJSON(data []byte) error {
	var raw markSetWire
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.VIP = dedupe(nil, raw.VIP)
	m.ToDelete = dedupe(nil, append(raw.ToDelete, raw.Deleted...))
	return nil
}

// Merge set-unions other into m, keeping m's order first.
func (m *UserMarkSet) Merge(other *UserMarkSet) {
	if other == nil {
		return
	}
	m.VIP = dedupe(m.VIP, other.VIP)
	m.ToDelete = dedupe(m.ToDelete, other.ToDelete)
}

func (m *UserMarkSet) IsVIP(username string) bool {
	for _, v := range m.VIP {
		if v == username {
			return true
		}
	}
	return false
}

// dedupe appends extra onto base, dropping blanks and duplicates while
// preserving first-seen order.
func dedupe(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
