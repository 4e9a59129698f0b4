package catalog

// MergeByID combines a and b into one set keyed by ID. Rows from a are
// inserted in order, then rows from b are applied in order; a row whose ID
// is already present replaces the stored row. The result lists each ID once,
// in order of first appearance. Neither input is modified.
func MergeByID(a, b []Row) []Row {
	merged, _ := mergeByID(a, b)
	return merged
}

// mergeByID also reports how many rows were replaced.
func mergeByID(a, b []Row) ([]Row, int) {
	index := make(map[int64]int, len(a)+len(b))
	out := make([]Row, 0, len(a)+len(b))
	replaced := 0

	put := func(r Row) {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			replaced++
			return
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}

	for _, r := range a {
		put(r)
	}
	for _, r := range b {
		put(r)
	}
	return out, replaced
}
