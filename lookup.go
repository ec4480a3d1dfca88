package server

import (
	"strings"

	"github.com/google/uuid"
)

// GetOnlinePlayerByUUID scans play-set for a participant with the given
// UUID.
func (m *Manager) GetOnlinePlayerByUUID(id uuid.UUID) (*Participant, bool) {
	for _, p := range m.playSet.Snapshot() {
		if p.Profile().UUID == id {
			return p, true
		}
	}
	return nil, false
}

// FindOnlinePlayer resolves name to a participant: an exact case-insensitive
// username match if one exists, otherwise the play-set member maximising
// Jaro-Winkler similarity to the lowercased query, breaking ties by
// iteration order. Returns nothing if play-set is empty or every candidate
// has similarity <= 0 (spec.md §4.2, §8).
func (m *Manager) FindOnlinePlayer(name string) (*Participant, bool) {
	if p, ok := m.findExactUsername(name); ok {
		return p, true
	}
	return m.findClosestUsername(name)
}

func (m *Manager) findExactUsername(name string) (*Participant, bool) {
	target := strings.ToLower(name)
	for _, p := range m.playSet.Snapshot() {
		if strings.ToLower(p.Profile().Username) == target {
			return p, true
		}
	}
	return nil, false
}

func (m *Manager) findClosestUsername(query string) (*Participant, bool) {
	lowerQuery := strings.ToLower(query)
	var best *Participant
	bestScore := 0.0
	for _, p := range m.playSet.Snapshot() {
		score := jaroWinkler(lowerQuery, strings.ToLower(p.Profile().Username))
		if score > 0 && (best == nil || score > bestScore) {
			best = p
			bestScore = score
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// jaroWinkler computes the Jaro-Winkler similarity of a and b, in [0, 1].
// No library in the retrieval pack provides string-similarity scoring (the
// pack's fuzzy-matching surface is limited to protocol/codec concerns), so
// this is implemented directly against the published algorithm rather than
// importing an unrelated dependency purely to satisfy this one helper.
func jaroWinkler(a, b string) float64 {
	jaro := jaroSimilarity(a, b)
	if jaro <= 0 {
		return jaro
	}

	const (
		prefixScale = 0.1
		maxPrefix   = 4
	)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < maxPrefix && a[prefix] == b[prefix] {
		prefix++
	}
	return jaro + float64(prefix)*prefixScale*(1-jaro)
}

func jaroSimilarity(a, b string) float64 {
	if a == b {
		if len(a) == 0 {
			return 0
		}
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	matchDistance := la
	if lb > matchDistance {
		matchDistance = lb
	}
	matchDistance = matchDistance/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	aMatches := make([]bool, la)
	bMatches := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := i - matchDistance
		if start < 0 {
			start = 0
		}
		end := i + matchDistance + 1
		if end > lb {
			end = lb
		}
		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions))/m) / 3
}
