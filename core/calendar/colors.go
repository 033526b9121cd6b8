package calendar

// AssignColors maps each distinct course in `events` to a repeating palette
// index, in order of first appearance. The result is a pure function of that
// order: re-invoking on the same input yields the same map, and no state
// survives between calls.
func AssignColors(events []Event, paletteSize int) map[string]int {
	if paletteSize <= 0 {
		paletteSize = DefaultPaletteSize
	}

	colors := make(map[string]int)
	var count int
	for _, ev := range events {
		if _, seen := colors[ev.CourseID]; seen {
			continue
		}
		colors[ev.CourseID] = count % paletteSize
		count++
	}
	return colors
}
