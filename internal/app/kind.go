package app

// Kind names one record kind across routes, cache keys, exports and messages.
type Kind struct {
	Name     string // cache key prefix
	Route    string // path segment under /api
	Export   string // entity name accepted by export and bulk import
	Singular string // lower-case label, "banner highlight"
	Plural   string // lower-case label, "banner highlights"
}

var (
	KindProperty        = Kind{Name: "property", Route: "properties", Export: "properties", Singular: "property", Plural: "properties"}
	KindNeighborhood    = Kind{Name: "neighborhood", Route: "neighborhoods", Export: "neighborhoods", Singular: "neighborhood", Plural: "neighborhoods"}
	KindDevelopment     = Kind{Name: "development", Route: "developments", Export: "developments", Singular: "development", Plural: "developments"}
	KindEnquiry         = Kind{Name: "enquiry", Route: "enquiries", Export: "enquiries", Singular: "enquiry", Plural: "enquiries"}
	KindAgent           = Kind{Name: "agent", Route: "agents", Export: "agents", Singular: "agent", Plural: "agents"}
	KindArticle         = Kind{Name: "article", Route: "articles", Export: "articles", Singular: "article", Plural: "articles"}
	KindBannerHighlight = Kind{Name: "banner_highlight", Route: "banner-highlights", Export: "bannerHighlights", Singular: "banner highlight", Plural: "banner highlights"}
	KindDeveloper       = Kind{Name: "developer", Route: "developers", Export: "developers", Singular: "developer", Plural: "developers"}
	KindSitemap         = Kind{Name: "sitemap", Route: "sitemap", Export: "sitemap", Singular: "sitemap entry", Plural: "sitemap entries"}
)

// Title is the capitalised singular label, as used in "Banner highlight not found".
func (k Kind) Title() string {
	if k.Singular == "" {
		return ""
	}
	b := []byte(k.Singular)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
