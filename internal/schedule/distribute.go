package schedule

// Distribute spreads items across days buckets in order. Each day takes
// ceil(remaining items / remaining days) items from the front, so bucket
// sizes never differ by more than one and trailing days may be empty when
// there are fewer items than days. A non-positive day count yields no buckets.
func Distribute[T any](items []T, days int) [][]T {
	if days <= 0 {
		return [][]T{}
	}

	buckets := make([][]T, 0, days)
	cursor := 0
	for r := days; r > 0; r-- {
		remaining := len(items) - cursor
		k := (remaining + r - 1) / r
		buckets = append(buckets, items[cursor:cursor+k:cursor+k])
		cursor += k
	}
	return buckets
}
