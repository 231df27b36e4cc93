package fixture

import (
	"strings"

	"github.com/rshade/pagedview/internal/pagination"
)

// DefaultPostCount matches the size of the public placeholder collection.
const DefaultPostCount = 100

const postsPerUser = 10

//nolint:gochecknoglobals // Fixed word list for deterministic post text.
var words = []string{
	"sunt", "aut", "facere", "repellat", "provident", "occaecati", "excepturi",
	"optio", "reprehenderit", "qui", "est", "esse", "ea", "molestias", "quasi",
	"exercitationem", "dolorem", "eum", "magnam", "nesciunt", "quia", "et",
	"suscipit", "recusandae", "consequuntur", "expedita", "rerum", "tempore",
	"vitae", "sequi", "sint", "nihil", "odit", "voluptatem", "occaecati",
	"omnis", "eveniet", "ut", "natus", "beatae", "dolor", "velit", "magni",
}

// Posts generates n deterministic posts with IDs 1..n.
func Posts(n int) []pagination.Item {
	items := make([]pagination.Item, 0, max(n, 0))
	for id := 1; id <= n; id++ {
		items = append(items, pagination.Item{
			ID:     id,
			UserID: (id-1)/postsPerUser + 1,
			Title:  sentence(id, 4+id%4),
			Body:   sentence(id*7, 12+id%6),
		})
	}
	return items
}

// sentence picks count words starting from a seed so that posts differ but never change.
func sentence(seed, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = words[(seed*31+i*17)%len(words)]
	}
	return strings.Join(parts, " ")
}
