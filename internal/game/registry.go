package game

import (
	"sort"
	"sync"
	"time"
)

// SessionInfo describes a live session without exposing its board.
type SessionInfo struct {
	ID        string    `json:"id"`
	Remote    string    `json:"remote"`
	Transport string    `json:"transport"`
	StartedAt time.Time `json:"startedAt"`
}

// Registry tracks live sessions for reporting.
type Registry struct {
	mu sync.Mutex
	m  map[string]SessionInfo
}

func NewRegistry() *Registry {
	return &Registry{
		m: make(map[string]SessionInfo),
	}
}

func (r *Registry) Add(info SessionInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[info.ID] = info
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// List returns live sessions, oldest first.
func (r *Registry) List() []SessionInfo {
	r.mu.Lock()
	out := make([]SessionInfo, 0, len(r.m))
	for _, info := range r.m {
		out = append(out, info)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
