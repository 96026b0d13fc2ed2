// Package classifier routes a query to the answer or summary pipeline.
package classifier

import (
	"strings"

	"docqa/internal/domain"
)

// Substring matches, so "briefly" and "entirely" also route to a summary.
var summaryTriggers = []string{"summary", "summarize", "overview", "entire", "brief"}

// IsSummary reports whether the lower-cased query contains a summary trigger.
func IsSummary(query string) bool {
	q := strings.ToLower(query)
	for _, w := range summaryTriggers {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// Classify returns the pipeline the query belongs to.
func Classify(query string) domain.QueryKind {
	if IsSummary(query) {
		return domain.QuerySummary
	}
	return domain.QueryQA
}
