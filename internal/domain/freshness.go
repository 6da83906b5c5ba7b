package domain

import "time"

// FilterFresh keeps articles whose date falls within the window ending
// at now. Articles without a date are kept: an unknown age is treated as
// "include conservatively" so undated content is never dropped silently.
func FilterFresh(articles []AggregatedArticle, window time.Duration, now time.Time) []AggregatedArticle {
	cutoff := now.Add(-window)
	fresh := make([]AggregatedArticle, 0, len(articles))
	for _, a := range articles {
		if a.Date.IsZero() || !a.Date.Before(cutoff) {
			fresh = append(fresh, a)
		}
	}
	return fresh
}
