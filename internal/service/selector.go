package service

import (
	"sort"
	"strings"
)

// Fairness selectors. Both are deterministic over their inputs and
// total over non-empty pools; callers guard the empty case.

// poolCandidate is one eligible member as seen by the selectors.
type poolCandidate struct {
	UserID int64
	Name   string
}

// pickNextRoundRobin returns the member after last in the ring formed
// by the deduplicated, user-id-sorted pool. A nil or departed last
// restarts the ring at its first element.
func pickNextRoundRobin(pool []int64, last *int64) int64 {
	ring := dedupSorted(pool)

	if last == nil {
		return ring[0]
	}
	for i, uid := range ring {
		if uid == *last {
			return ring[(i+1)%len(ring)]
		}
	}
	// Previous winner left the pool (excluded, off-shift, removed):
	// restart rather than error.
	return ring[0]
}

// pickLeastLoaded returns the candidate with the fewest assignments in
// the trailing window, breaking ties by display name then user id.
func pickLeastLoaded(pool []poolCandidate, counts map[int64]int) int64 {
	sorted := make([]poolCandidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := counts[sorted[i].UserID], counts[sorted[j].UserID]
		if ci != cj {
			return ci < cj
		}
		ni, nj := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if ni != nj {
			return ni < nj
		}
		return sorted[i].UserID < sorted[j].UserID
	})
	return sorted[0].UserID
}

// pickMostOfficeDays returns the user with the highest office-day
// count; ties are broken round-robin over the tied subset using the
// shared location cursor. Sending whoever already has the most office
// time, then alternating among ties, is the intended policy.
func pickMostOfficeDays(counts map[int64]int, pool []int64, last *int64) int64 {
	maxCount := 0
	first := true
	for _, uid := range pool {
		if first || counts[uid] > maxCount {
			maxCount = counts[uid]
			first = false
		}
	}

	var tied []int64
	for _, uid := range pool {
		if counts[uid] == maxCount {
			tied = append(tied, uid)
		}
	}

	return pickNextRoundRobin(tied, last)
}

func dedupSorted(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
