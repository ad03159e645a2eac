package main

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// PrefixRealm prefixes watcher state keys
const PrefixRealm = "realm:"

// Default expiration times
const (
	DefaultHeartbeat = 60 * time.Minute
	CleanupInterval  = 1 * time.Minute
)

// RealmState is what the watcher last saw for one realm
type RealmState struct {
	Name          string    `json:"name"`
	Realm         string    `json:"realm"`
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username,omitempty"`
	Present       bool      `json:"-"`
	ObservedAt    time.Time `json:"observed_at"`
}

// Same reports whether two observations describe the same credential state
func (s RealmState) Same(o RealmState) bool {
	return s.Realm == o.Realm &&
		s.Authenticated == o.Authenticated &&
		s.Present == o.Present &&
		s.Username == o.Username
}

// StateCache keeps the last observed state per realm. Entries expire after
// the heartbeat so an unchanged state is announced again from time to time.
type StateCache struct {
	c *cache.Cache
}

// NewStateCache creates a state cache with the given heartbeat
func NewStateCache(heartbeat time.Duration) *StateCache {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StateCache{
		c: cache.New(heartbeat, CleanupInterval),
	}
}

// Observe records cur and returns the previous state for the realm.
// changed is true when there was no live previous state or it differs.
func (sc *StateCache) Observe(cur RealmState) (prev RealmState, found bool, changed bool) {
	prev, found = sc.Get(cur.Realm)
	changed = !found || !prev.Same(cur)
	if changed {
		sc.c.SetDefault(PrefixRealm+cur.Realm, cur)
	}
	return prev, found, changed
}

// Get returns the last recorded state for a realm
func (sc *StateCache) Get(realm string) (RealmState, bool) {
	if val, found := sc.c.Get(PrefixRealm + realm); found {
		if s, ok := val.(RealmState); ok {
			return s, true
		}
	}
	return RealmState{}, false
}

// Delete forgets a realm
func (sc *StateCache) Delete(realm string) {
	sc.c.Delete(PrefixRealm + realm)
}

// Clear removes all items from the cache
func (sc *StateCache) Clear() {
	sc.c.Flush()
}

// ItemCount returns the number of realms with a live state
func (sc *StateCache) ItemCount() int {
	return sc.c.ItemCount()
}
