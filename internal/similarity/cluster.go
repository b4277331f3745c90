package similarity

import (
	"fmt"
	"sort"

	"skatelog/trainlog/internal/cards"
)

// Cluster is a set of cards connected by pairwise similarity at or above a
// threshold. Linking is transitive: A~B and B~C puts A and C together.
type Cluster struct {
	Cards []cards.CardWithContext `json:"cards"`
	// MaxSimilarity is the strongest link inside the cluster.
	MaxSimilarity float64 `json:"max_similarity"`
}

// Clusters finds groups of near-duplicate cards. Only groups of two or more
// are returned, largest first; equal sizes keep input order of their first
// card. Cards inside a cluster keep input order.
func Clusters(cs []cards.CardWithContext, threshold float64) ([]Cluster, error) {
	if err := cards.CheckThreshold(threshold); err != nil {
		return nil, err
	}

	// Dedupe by ID, first occurrence wins
	seen := make(map[string]bool, len(cs))
	uniq := make([]cards.CardWithContext, 0, len(cs))
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		uniq = append(uniq, c)
	}

	norm := make([]string, len(uniq))
	for i, c := range uniq {
		norm[i] = Normalize(c.Content)
	}

	uf := newUnionFind(len(uniq))
	best := make([]float64, len(uniq)) // strongest link touching i
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			sim := scoreNormalized(norm[i], norm[j])
			if sim < threshold || sim == 0 {
				continue
			}
			uf.union(i, j)
			best[i] = max(best[i], sim)
			best[j] = max(best[j], sim)
		}
	}

	var out []Cluster
	for _, members := range uf.groups() {
		if len(members) < 2 {
			continue
		}
		cl := Cluster{Cards: make([]cards.CardWithContext, 0, len(members))}
		for _, m := range members {
			cl.Cards = append(cl.Cards, uniq[m])
			cl.MaxSimilarity = max(cl.MaxSimilarity, best[m])
		}
		out = append(out, cl)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Cards) > len(out[j].Cards)
	})
	return out, nil
}
