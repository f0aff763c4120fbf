package match

// Deduplicate keeps the first record seen for each match id and preserves
// input order. onDuplicate, when set, is called once per discarded record.
func Deduplicate(items []Match, onDuplicate func(dropped Match)) []Match {
	seen := make(map[string]struct{}, len(items))
	out := make([]Match, 0, len(items))
	for _, item := range items {
		if _, exists := seen[item.ID]; exists {
			if onDuplicate != nil {
				onDuplicate(item)
			}
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
