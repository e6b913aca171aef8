package room

import "strings"

// MatchesQuery reports whether the room matches a free-text query: a
// case-insensitive substring of the room number, the category display text,
// or the building name.
func MatchesQuery(r Room, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Number), q) ||
		strings.Contains(strings.ToLower(r.Category.Display()), q) ||
		strings.Contains(strings.ToLower(r.Building), q)
}

// FilterByQuery is the local fallback filter used when the remote search is
// unavailable: it keeps rooms matching the free-text query.
func FilterByQuery(rooms []Room, query string) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if MatchesQuery(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether the room satisfies every set constraint in f,
// including the free-text query. Unset fields impose no constraint.
func (f SearchFilters) Match(r Room) bool {
	if !MatchesQuery(r, f.Query) {
		return false
	}
	if f.Building != "" && !strings.EqualFold(r.Building, f.Building) {
		return false
	}
	if f.Floor != nil && r.Floor != *f.Floor {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.MinCapacity != nil && r.Capacity < *f.MinCapacity {
		return false
	}
	if f.MaxCapacity != nil && r.Capacity > *f.MaxCapacity {
		return false
	}
	return true
}

// Apply filters the list with Match. The devserver memory store and the
// controller's offline path share this implementation.
func (f SearchFilters) Apply(rooms []Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
