package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store is the data-access contract shared by every record kind.
type Store[R any, F any] interface {
	List(ctx context.Context) ([]R, error)
	Get(ctx context.Context, id int64) (R, error)
	Create(ctx context.Context, f F) (R, error)
	Update(ctx context.Context, id int64, f F) (R, error)
	Delete(ctx context.Context, id int64) error
}

type PropertyStore interface {
	Store[Property, PropertyFields]
	GetByReference(ctx context.Context, reference string) (Property, error)
}

type EnquiryStore interface {
	Store[Enquiry, EnquiryFields]
	MarkRead(ctx context.Context, id int64) (Enquiry, error)
}

// Stores groups the per-kind stores built once at process start.
type Stores struct {
	Properties       PropertyStore
	Neighborhoods    Store[Neighborhood, NeighborhoodFields]
	Developments     Store[Development, DevelopmentFields]
	Enquiries        EnquiryStore
	Agents           Store[Agent, AgentFields]
	Articles         Store[Article, ArticleFields]
	BannerHighlights Store[BannerHighlight, BannerHighlightFields]
	Developers       Store[Developer, DeveloperFields]
	Sitemap          Store[SitemapEntry, SitemapFields]
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}

// FeedClient fetches the remote property feed. Each item is the element tree
// of one <property>: scalar children map to strings, nested elements to
// map[string]any and repeated children to []any.
type FeedClient interface {
	FetchProperties(ctx context.Context) ([]map[string]any, error)
}
