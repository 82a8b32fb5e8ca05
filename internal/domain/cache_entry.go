package domain

// CacheEntry is the outcome of a finished geocoding lookup.
//
// An entry with Resolved == false is the unresolvable sentinel. It is distinct
// from "never looked up" (no entry at all) and is never retried while the cache lives.
type CacheEntry struct {
	Coordinates Coordinates
	Resolved    bool
}

func ResolvedEntry(c Coordinates) CacheEntry {
	return CacheEntry{Coordinates: c, Resolved: true}
}

func UnresolvableEntry() CacheEntry {
	return CacheEntry{}
}
