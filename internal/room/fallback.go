package room

// Fallback returns the fixed demo dataset shown when the room service is
// unreachable, so the UI stays usable offline. The slice is rebuilt on every
// call; callers may mutate their copy freely.
func Fallback() []Room {
	return []Room{
		{
			ID:        "1",
			Number:    "101",
			Category:  CategoryLecture,
			Capacity:  50,
			Building:  "Главный корпус",
			Floor:     1,
			Status:    StatusAvailable,
			Equipment: []string{"Проектор", "Доска", "Микрофон"},
		},
		{
			ID:        "2",
			Number:    "102",
			Category:  CategoryLab,
			Capacity:  30,
			Building:  "Главный корпус",
			Floor:     1,
			Status:    StatusOccupied,
			Equipment: []string{"Компьютеры", "Микроскопы"},
		},
		{
			ID:        "3",
			Number:    "205",
			Category:  CategoryComputer,
			Capacity:  25,
			Building:  "Корпус Б",
			Floor:     2,
			Status:    StatusAvailable,
			Equipment: []string{"Компьютеры", "Проектор"},
		},
		{
			ID:       "4",
			Number:   "310",
			Category: CategoryConference,
			Capacity: 15,
			Building: "Корпус Б",
			Floor:    3,
			Status:   StatusMaintenance,
		},
	}
}
