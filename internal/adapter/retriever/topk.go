package retriever

import "sort"

// topKIndices returns the indices of the k highest scores, best first.
// Ranking is a strict total order: higher score wins, equal scores resolve
// to the lower index. Selection is partition-based, so the full score slice
// is never totally ordered; only the k winners are sorted at the end.
func topKIndices(scores []float64, k int) []int {
	n := len(scores)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if k < n {
		quickselect(idx, scores, k)
	}

	top := idx[:k]
	sort.Slice(top, func(a, b int) bool {
		return ranksBefore(scores, top[a], top[b])
	})
	return top
}

// ranksBefore reports whether document i outranks document j.
func ranksBefore(scores []float64, i, j int) bool {
	if scores[i] != scores[j] {
		return scores[i] > scores[j]
	}
	return i < j
}

// quickselect rearranges idx so that its first k entries are the k
// best-ranked documents, in unspecified order. Hoare-style partitioning
// around a middle pivot, expected linear time.
func quickselect(idx []int, scores []float64, k int) {
	lo, hi := 0, len(idx)-1
	for lo < hi {
		pivot := idx[(lo+hi)/2]
		i, j := lo, hi
		for i <= j {
			for ranksBefore(scores, idx[i], pivot) {
				i++
			}
			for ranksBefore(scores, pivot, idx[j]) {
				j--
			}
			if i <= j {
				idx[i], idx[j] = idx[j], idx[i]
				i++
				j--
			}
		}
		// idx[lo..j] now rank no worse than idx[i..hi]; anything strictly
		// between j and i is already in final position.
		switch {
		case k-1 <= j:
			hi = j
		case k-1 >= i:
			lo = i
		default:
			return
		}
	}
}
