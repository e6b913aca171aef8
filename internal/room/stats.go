package room

// Stats are the derived counters the dashboard renders above the room list.
type Stats struct {
	Total      int
	ByStatus   map[Status]int
	ByBuilding map[string]int
}

// ComputeStats aggregates the displayed room list by status and building.
func ComputeStats(rooms []Room) Stats {
	s := Stats{
		Total:      len(rooms),
		ByStatus:   make(map[Status]int),
		ByBuilding: make(map[string]int),
	}
	for _, r := range rooms {
		s.ByStatus[r.Status]++
		s.ByBuilding[r.Building]++
	}
	return s
}
