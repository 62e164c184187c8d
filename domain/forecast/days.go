package forecast

import "sort"

// Weekdays are the keys of the per-day maps in calendar order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayKeys returns the keys of a per-day map, weekdays first in calendar
// order, then any other keys sorted.
func DayKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	known := make(map[string]bool, len(Weekdays))
	for _, day := range Weekdays {
		known[day] = true
		if _, ok := m[day]; ok {
			keys = append(keys, day)
		}
	}
	var rest []string
	for k := range m {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
