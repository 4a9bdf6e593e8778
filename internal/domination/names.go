package domination

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/eldritch/internal/campaign"
)

var titler = cases.Title(language.English)

func titleTier(t campaign.Tier) string {
	return titler.String(strings.ReplaceAll(string(t), "_", " "))
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
