package cats

import (
	"strconv"
	"time"
)

// Cache key vocabulary. Every committed write invalidates allKey; updates
// and deletes additionally invalidate the matching id key. Name-search keys
// are only ever time-expired, so a search may serve results up to searchTTL
// stale after a write.
const allKey = "cats:all"

func idKey(id int64) string {
	return "cat:" + strconv.FormatInt(id, 10)
}

func nameKey(name string) string {
	return "cat:name:" + name
}

// Per-pattern TTLs. Single-entity lookups tolerate more staleness than the
// collection because they are invalidated on every mutation of that entity.
const (
	listTTL   = 300 * time.Second
	byIDTTL   = 600 * time.Second
	searchTTL = 300 * time.Second
)
