package evaluation

// RecallAtK computes the fraction of expected recipe IDs found in the top-K
// retrieved results. Returns 0.0 when nothing was expected.
func RecallAtK(expected, retrieved []string, k int) float64 {
	if len(expected) == 0 {
		return 0.0
	}

	expectedSet := toSet(expected)

	found := 0
	for _, id := range topK(retrieved, k) {
		if _, ok := expectedSet[id]; ok {
			found++
		}
	}

	return float64(found) / float64(len(expected))
}

// MRRAtK computes the reciprocal rank of the first expected recipe in the
// top-K retrieved results. Returns 0.0 when no expected recipe appears.
func MRRAtK(expected, retrieved []string, k int) float64 {
	if len(expected) == 0 || len(retrieved) == 0 {
		return 0.0
	}

	expectedSet := toSet(expected)

	for i, id := range topK(retrieved, k) {
		if _, ok := expectedSet[id]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func topK(ids []string, k int) []string {
	if k < len(ids) {
		return ids[:k]
	}
	return ids
}
