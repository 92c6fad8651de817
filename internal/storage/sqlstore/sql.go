package sqlstore

import "listings_admin/internal/domain"

const markEnquiryReadSQL = `UPDATE enquiries SET is_read = ?, updated_at = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// COLUMN MAPS
// Every cols func returns field pointers in the same order as its columns.
// -----------------------------------------------------------------------------

var propertySpec = tableSpec[domain.Property, domain.PropertyFields]{
	name: "properties",
	columns: []string{
		"reference", "listing_type", "property_type", "sub_community", "community",
		"region", "country", "agent", "price", "currency", "bedrooms", "bathrooms",
		"property_status", "title", "description", "sqfeet_area", "sqfeet_builtup",
		"is_exclusive", "amenities", "is_featured", "is_fitted", "is_furnished",
		"lifestyle", "permit", "brochure", "images", "is_disabled", "development",
		"neighbourhood", "sold",
	},
	cols: func(f *domain.PropertyFields) []any {
		return []any{
			&f.Reference, &f.ListingType, &f.PropertyType, &f.SubCommunity, &f.Community,
			&f.Region, &f.Country, jsonCol{&f.Agent}, &f.Price, &f.Currency, &f.Bedrooms, &f.Bathrooms,
			&f.PropertyStatus, &f.Title, &f.Description, &f.SqfeetArea, &f.SqfeetBuiltup,
			&f.IsExclusive, &f.Amenities, &f.IsFeatured, &f.IsFitted, &f.IsFurnished,
			&f.Lifestyle, &f.Permit, &f.Brochure, jsonCol{&f.Images}, &f.IsDisabled, &f.Development,
			&f.Neighbourhood, &f.Sold,
		}
	},
	fields: func(r *domain.Property) *domain.PropertyFields { return &r.PropertyFields },
	id:     func(r *domain.Property) *int64 { return &r.ID },
	stamps: func(r *domain.Property) *domain.Timestamps { return &r.Timestamps },
}

var neighborhoodSpec = tableSpec[domain.Neighborhood, domain.NeighborhoodFields]{
	name: "neighborhoods",
	columns: []string{
		"url_slug", "title", "subtitle", "region", "banner_image", "description",
		"location_attributes", "address", "available_properties", "images",
		"neighbour_image", "neighbours_text", "property_offers", "subtitle_blurb",
		"neighbourhood_details", "neighbourhood_expectation", "brochure", "show_on_footer",
	},
	cols: func(f *domain.NeighborhoodFields) []any {
		return []any{
			&f.URLSlug, &f.Title, &f.Subtitle, &f.Region, &f.BannerImage, &f.Description,
			&f.LocationAttributes, &f.Address, &f.AvailableProperties, jsonCol{&f.Images},
			&f.NeighbourImage, &f.NeighboursText, &f.PropertyOffers, &f.SubtitleBlurb,
			&f.NeighbourhoodDetails, &f.NeighbourhoodExpectation, &f.Brochure, &f.ShowOnFooter,
		}
	},
	fields: func(r *domain.Neighborhood) *domain.NeighborhoodFields { return &r.NeighborhoodFields },
	id:     func(r *domain.Neighborhood) *int64 { return &r.ID },
	stamps: func(r *domain.Neighborhood) *domain.Timestamps { return &r.Timestamps },
}

var developmentSpec = tableSpec[domain.Development, domain.DevelopmentFields]{
	name: "developments",
	columns: []string{
		"title", "description", "area", "property_type", "property_description", "price",
		"url_slug", "images", "max_bedrooms", "min_bedrooms", "floors", "total_units",
		"min_area", "max_area", "address", "address_description", "currency", "amenities",
		"subtitle", "developer_link", "neighbourhood_link", "feature_on_homepage",
	},
	cols: func(f *domain.DevelopmentFields) []any {
		return []any{
			&f.Title, &f.Description, &f.Area, &f.PropertyType, &f.PropertyDescription, &f.Price,
			&f.URLSlug, jsonCol{&f.Images}, &f.MaxBedrooms, &f.MinBedrooms, &f.Floors, &f.TotalUnits,
			&f.MinArea, &f.MaxArea, &f.Address, &f.AddressDescription, &f.Currency, &f.Amenities,
			&f.Subtitle, &f.DeveloperLink, &f.NeighbourhoodLink, &f.FeatureOnHomepage,
		}
	},
	fields: func(r *domain.Development) *domain.DevelopmentFields { return &r.DevelopmentFields },
	id:     func(r *domain.Development) *int64 { return &r.ID },
	stamps: func(r *domain.Development) *domain.Timestamps { return &r.Timestamps },
}

var enquirySpec = tableSpec[domain.Enquiry, domain.EnquiryFields]{
	name:    "enquiries",
	columns: []string{"email", "message", "name", "phone", "property_reference", "subject"},
	cols: func(f *domain.EnquiryFields) []any {
		return []any{&f.Email, &f.Message, &f.Name, &f.Phone, &f.PropertyReference, &f.Subject}
	},
	readOnly: []string{"is_read"},
	extra:    func(r *domain.Enquiry) []any { return []any{&r.IsRead} },
	fields:   func(r *domain.Enquiry) *domain.EnquiryFields { return &r.EnquiryFields },
	id:       func(r *domain.Enquiry) *int64 { return &r.ID },
	stamps:   func(r *domain.Enquiry) *domain.Timestamps { return &r.Timestamps },
}

var agentSpec = tableSpec[domain.Agent, domain.AgentFields]{
	name: "agents",
	columns: []string{
		"job_title", "languages", "license_number", "location", "name", "head_shot",
		"photo", "email", "phone", "introduction", "linkedin", "experience",
	},
	cols: func(f *domain.AgentFields) []any {
		return []any{
			&f.JobTitle, &f.Languages, &f.LicenseNumber, &f.Location, &f.Name, &f.HeadShot,
			&f.Photo, &f.Email, &f.Phone, &f.Introduction, &f.Linkedin, &f.Experience,
		}
	},
	fields: func(r *domain.Agent) *domain.AgentFields { return &r.AgentFields },
	id:     func(r *domain.Agent) *int64 { return &r.ID },
	stamps: func(r *domain.Agent) *domain.Timestamps { return &r.Timestamps },
}

var articleSpec = tableSpec[domain.Article, domain.ArticleFields]{
	name: "articles",
	columns: []string{
		"author", "category", "excerpt", "slug", "title", "date_published", "reading_time",
		"external_id", "tile_image", "inline_images", "body_start", "body_end",
		"is_disabled", "is_featured", "super_feature",
	},
	cols: func(f *domain.ArticleFields) []any {
		return []any{
			&f.Author, &f.Category, &f.Excerpt, &f.Slug, &f.Title, &f.DatePublished, &f.ReadingTime,
			&f.ExternalID, &f.TileImage, jsonCol{&f.InlineImages}, &f.BodyStart, &f.BodyEnd,
			&f.IsDisabled, &f.IsFeatured, &f.SuperFeature,
		}
	},
	fields: func(r *domain.Article) *domain.ArticleFields { return &r.ArticleFields },
	id:     func(r *domain.Article) *int64 { return &r.ID },
	stamps: func(r *domain.Article) *domain.Timestamps { return &r.Timestamps },
}

var bannerHighlightSpec = tableSpec[domain.BannerHighlight, domain.BannerHighlightFields]{
	name:    "banner_highlights",
	columns: []string{"title", "headline", "subheading", "cta", "cta_link", "image", "is_active"},
	cols: func(f *domain.BannerHighlightFields) []any {
		return []any{&f.Title, &f.Headline, &f.Subheading, &f.CTA, &f.CTALink, &f.Image, &f.IsActive}
	},
	fields: func(r *domain.BannerHighlight) *domain.BannerHighlightFields { return &r.BannerHighlightFields },
	id:     func(r *domain.BannerHighlight) *int64 { return &r.ID },
	stamps: func(r *domain.BannerHighlight) *domain.Timestamps { return &r.Timestamps },
}

var developerSpec = tableSpec[domain.Developer, domain.DeveloperFields]{
	name:    "developers",
	columns: []string{"title", "description", "url_slug", "country", "established_since", "logo"},
	cols: func(f *domain.DeveloperFields) []any {
		return []any{&f.Title, &f.Description, &f.URLSlug, &f.Country, &f.EstablishedSince, &f.Logo}
	},
	fields: func(r *domain.Developer) *domain.DeveloperFields { return &r.DeveloperFields },
	id:     func(r *domain.Developer) *int64 { return &r.ID },
	stamps: func(r *domain.Developer) *domain.Timestamps { return &r.Timestamps },
}

var sitemapSpec = tableSpec[domain.SitemapEntry, domain.SitemapFields]{
	name:    "sitemap",
	columns: []string{"complete_url", "link_label", "section"},
	cols: func(f *domain.SitemapFields) []any {
		return []any{&f.CompleteURL, &f.LinkLabel, &f.Section}
	},
	fields: func(r *domain.SitemapEntry) *domain.SitemapFields { return &r.SitemapFields },
	id:     func(r *domain.SitemapEntry) *int64 { return &r.ID },
	stamps: func(r *domain.SitemapEntry) *domain.Timestamps { return &r.Timestamps },
}
