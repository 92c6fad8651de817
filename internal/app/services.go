package app

import (
	"context"
	"io"
	"strings"
	"time"

	"listings_admin/internal/domain"
)

// Entity is the kind-agnostic surface used by CSV export and bulk import.
type Entity interface {
	Kind() Kind
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	ImportCSV(ctx context.Context, r io.Reader) (BulkReport, error)
}

// Services holds one service per record kind, built once at process start.
type Services struct {
	Properties       *PropertyService
	Neighborhoods    *ResourceService[domain.Neighborhood, domain.NeighborhoodFields]
	Developments     *ResourceService[domain.Development, domain.DevelopmentFields]
	Enquiries        *EnquiryService
	Agents           *ResourceService[domain.Agent, domain.AgentFields]
	Articles         *ResourceService[domain.Article, domain.ArticleFields]
	BannerHighlights *ResourceService[domain.BannerHighlight, domain.BannerHighlightFields]
	Developers       *ResourceService[domain.Developer, domain.DeveloperFields]
	Sitemap          *ResourceService[domain.SitemapEntry, domain.SitemapFields]
}

func NewServices(st domain.Stores, c domain.Cache, ttl time.Duration) *Services {
	return &Services{
		Properties:       NewPropertyService(st.Properties, c, ttl),
		Neighborhoods:    NewResourceService(KindNeighborhood, st.Neighborhoods, c, ttl),
		Developments:     NewResourceService(KindDevelopment, st.Developments, c, ttl),
		Enquiries:        NewEnquiryService(st.Enquiries, c, ttl),
		Agents:           NewResourceService(KindAgent, st.Agents, c, ttl),
		Articles:         NewResourceService(KindArticle, st.Articles, c, ttl),
		BannerHighlights: NewResourceService(KindBannerHighlight, st.BannerHighlights, c, ttl),
		Developers:       NewResourceService(KindDeveloper, st.Developers, c, ttl),
		Sitemap:          NewResourceService(KindSitemap, st.Sitemap, c, ttl),
	}
}

// Entities lists every kind in a fixed order.
func (s *Services) Entities() []Entity {
	return []Entity{
		s.Properties, s.Neighborhoods, s.Developments, s.Enquiries, s.Agents,
		s.Articles, s.BannerHighlights, s.Developers, s.Sitemap,
	}
}

// Entity resolves an export name ("bannerHighlights") or route segment
// ("banner-highlights").
func (s *Services) Entity(name string) (Entity, bool) {
	name = strings.TrimSpace(name)
	for _, e := range s.Entities() {
		k := e.Kind()
		if name == k.Export || name == k.Route {
			return e, true
		}
	}
	return nil, false
}
