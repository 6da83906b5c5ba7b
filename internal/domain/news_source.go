package domain

import "context"

// NewsSource fetches fresh articles for a topic from an external feed.
// An empty result means "no fresh data" (rate limit, auth failure, or
// simply nothing new) and is not an error; implementations log and
// swallow transient transport failures.
type NewsSource interface {
	Fetch(ctx context.Context, topic string) ([]Article, error)
	Name() string
}
