package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleRooms() []Room {
	return []Room{
		{ID: "1", Number: "101", Category: CategoryLecture, Capacity: 50, Building: "Главный корпус", Floor: 1, Status: StatusAvailable},
		{ID: "2", Number: "102", Category: CategoryLab, Capacity: 30, Building: "Главный корпус", Floor: 1, Status: StatusOccupied},
		{ID: "3", Number: "205", Category: CategoryComputer, Capacity: 25, Building: "Корпус Б", Floor: 2, Status: StatusAvailable},
		{ID: "4", Number: "310", Category: CategoryConference, Capacity: 15, Building: "Корпус 101Б", Floor: 3, Status: StatusMaintenance},
	}
}

func TestFilterByQueryMatchesNumberAndBuilding(t *testing.T) {
	rooms := sampleRooms()

	got := FilterByQuery(rooms, "101")

	// "101" matches room 101 by number and room 310 by building name only.
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestFilterByQueryCaseInsensitiveCategoryText(t *testing.T) {
	rooms := sampleRooms()

	got := FilterByQuery(rooms, "лаборатория")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	// Upper-cased query matches the same room.
	got = FilterByQuery(rooms, "ЛАБОРАТОРИЯ")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterByQueryEmptyKeepsAll(t *testing.T) {
	rooms := sampleRooms()
	assert.Len(t, FilterByQuery(rooms, "  "), len(rooms))
}

func TestSearchFiltersMatchAND(t *testing.T) {
	f := SearchFilters{
		Building:    "Главный корпус",
		Status:      StatusAvailable,
		MinCapacity: intPtr(40),
	}

	got := f.Apply(sampleRooms())
	require.Len(t, got, 1)
	assert.Equal(t, "101", got[0].Number)
}

func TestSearchFiltersCapacityRange(t *testing.T) {
	f := SearchFilters{MinCapacity: intPtr(20), MaxCapacity: intPtr(30)}

	got := f.Apply(sampleRooms())
	require.Len(t, got, 2)
	assert.Equal(t, "102", got[0].Number)
	assert.Equal(t, "205", got[1].Number)
}

func TestSearchFiltersQueryCombinesWithStructured(t *testing.T) {
	f := SearchFilters{Query: "корпус", Floor: intPtr(1), Status: StatusOccupied}

	got := f.Apply(sampleRooms())
	require.Len(t, got, 1)
	assert.Equal(t, "102", got[0].Number)
}

func TestSearchFiltersIsZero(t *testing.T) {
	assert.True(t, SearchFilters{}.IsZero())
	assert.False(t, SearchFilters{Query: "x"}.IsZero())
	assert.False(t, SearchFilters{Floor: intPtr(0)}.IsZero())

	assert.True(t, SearchFilters{Building: "A"}.HasStructured())
	assert.False(t, SearchFilters{Query: "x"}.HasStructured())
}

func TestFallbackIsNeverEmpty(t *testing.T) {
	rooms := Fallback()
	require.NotEmpty(t, rooms)

	for _, r := range rooms {
		assert.True(t, r.Category.Valid(), "room %s category", r.ID)
		assert.True(t, r.Status.Valid(), "room %s status", r.ID)
	}
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sampleRooms())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByStatus[StatusAvailable])
	assert.Equal(t, 1, s.ByStatus[StatusOccupied])
	assert.Equal(t, 1, s.ByStatus[StatusMaintenance])
	assert.Equal(t, 2, s.ByBuilding["Главный корпус"])
}
