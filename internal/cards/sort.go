package cards

import "sort"

// Sort passes applied by callers after filtering. Each returns a sorted copy.

// SortRecent orders newest first.
func SortRecent(cs []CardWithContext) []CardWithContext {
	out := append([]CardWithContext(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// SortHelpful orders by helpfulness, most helpful first.
func SortHelpful(cs []CardWithContext) []CardWithContext {
	out := append([]CardWithContext(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HelpfulnessScore > out[j].HelpfulnessScore
	})
	return out
}

// SortPriorityFirst moves priority cards ahead, keeping relative order otherwise.
func SortPriorityFirst(cs []CardWithContext) []CardWithContext {
	out := append([]CardWithContext(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority && !out[j].Priority
	})
	return out
}

// SortBy dispatches on a sort name: "recent", "helpful", "priority".
// Anything else returns the input order unchanged.
func SortBy(name string, cs []CardWithContext) []CardWithContext {
	switch name {
	case "recent":
		return SortRecent(cs)
	case "helpful":
		return SortHelpful(cs)
	case "priority":
		return SortPriorityFirst(cs)
	default:
		return append([]CardWithContext(nil), cs...)
	}
}
