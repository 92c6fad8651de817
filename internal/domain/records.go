package domain

import (
	"encoding/json"
	"time"
)

// Timestamps are stamped by the store; clients never write them.
type Timestamps struct {
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record is implemented by every stored kind. F is the writable part of the record.
type Record[F any] interface {
	Key() int64
	Writable() F
}

/********** property **********/

type PropertyFields struct {
	Reference      string          `json:"reference" validate:"required"`
	ListingType    string          `json:"listingType" validate:"required"`
	PropertyType   string          `json:"propertyType" validate:"required"`
	SubCommunity   *string         `json:"subCommunity"`
	Community      string          `json:"community" validate:"required"`
	Region         string          `json:"region" validate:"required"`
	Country        string          `json:"country" validate:"required"`
	Agent          json.RawMessage `json:"agent"` // array of {id, name}
	Price          *int64          `json:"price" validate:"required,gte=0"`
	Currency       string          `json:"currency" validate:"required"`
	Bedrooms       *int64          `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms      *int64          `json:"bathrooms" validate:"omitempty,gte=0"`
	PropertyStatus *string         `json:"propertyStatus"`
	Title          string          `json:"title" validate:"required"`
	Description    *string         `json:"description"`
	SqfeetArea     *int64          `json:"sqfeetArea" validate:"omitempty,gte=0"`
	SqfeetBuiltup  *int64          `json:"sqfeetBuiltup" validate:"omitempty,gte=0"`
	IsExclusive    *bool           `json:"isExclusive"`
	Amenities      *string         `json:"amenities"`
	IsFeatured     *bool           `json:"isFeatured"`
	IsFitted       *bool           `json:"isFitted"`
	IsFurnished    *bool           `json:"isFurnished"`
	Lifestyle      *string         `json:"lifestyle"`
	Permit         *string         `json:"permit"`
	Brochure       *string         `json:"brochure"`
	Images         json.RawMessage `json:"images"` // array of image URLs
	IsDisabled     *bool           `json:"isDisabled"`
	Development    *string         `json:"development"`
	Neighbourhood  *string         `json:"neighbourhood"`
	Sold           *bool           `json:"sold"`
}

func (f *PropertyFields) ApplyDefaults() {
	defaultBool(&f.IsExclusive, false)
	defaultBool(&f.IsFeatured, false)
	defaultBool(&f.IsFitted, false)
	defaultBool(&f.IsFurnished, false)
	defaultBool(&f.IsDisabled, false)
	defaultBool(&f.Sold, false)
}

type Property struct {
	ID int64 `json:"id"`
	PropertyFields
	Timestamps
}

func (p Property) Key() int64                { return p.ID }
func (p Property) Writable() PropertyFields { return p.PropertyFields }

/********** neighborhood **********/

type NeighborhoodFields struct {
	URLSlug                  string          `json:"urlSlug" validate:"required"`
	Title                    string          `json:"title" validate:"required"`
	Subtitle                 *string         `json:"subtitle"`
	Region                   *string         `json:"region"`
	BannerImage              *string         `json:"bannerImage"`
	Description              *string         `json:"description"`
	LocationAttributes       *string         `json:"locationAttributes"`
	Address                  *string         `json:"address"`
	AvailableProperties      *int64          `json:"availableProperties" validate:"omitempty,gte=0"`
	Images                   json.RawMessage `json:"images"`
	NeighbourImage           *string         `json:"neighbourImage"`
	NeighboursText           *string         `json:"neighboursText"`
	PropertyOffers           *string         `json:"propertyOffers"`
	SubtitleBlurb            *string         `json:"subtitleBlurb"`
	NeighbourhoodDetails     *string         `json:"neighbourhoodDetails"`
	NeighbourhoodExpectation *string         `json:"neighbourhoodExpectation"`
	Brochure                 *string         `json:"brochure"`
	ShowOnFooter             *bool           `json:"showOnFooter"`
}

func (f *NeighborhoodFields) ApplyDefaults() { defaultBool(&f.ShowOnFooter, false) }

type Neighborhood struct {
	ID int64 `json:"id"`
	NeighborhoodFields
	Timestamps
}

func (n Neighborhood) Key() int64                    { return n.ID }
func (n Neighborhood) Writable() NeighborhoodFields { return n.NeighborhoodFields }

/********** development **********/

type DevelopmentFields struct {
	Title               string          `json:"title" validate:"required"`
	Description         *string         `json:"description"`
	Area                *string         `json:"area"`
	PropertyType        *string         `json:"propertyType"`
	PropertyDescription *string         `json:"propertyDescription"`
	Price               *int64          `json:"price" validate:"omitempty,gte=0"`
	URLSlug             string          `json:"urlSlug" validate:"required"`
	Images              json.RawMessage `json:"images"`
	MaxBedrooms         *int64          `json:"maxBedrooms" validate:"omitempty,gte=0"`
	MinBedrooms         *int64          `json:"minBedrooms" validate:"omitempty,gte=0"`
	Floors              *int64          `json:"floors" validate:"omitempty,gte=0"`
	TotalUnits          *int64          `json:"totalUnits" validate:"omitempty,gte=0"`
	MinArea             *int64          `json:"minArea" validate:"omitempty,gte=0"`
	MaxArea             *int64          `json:"maxArea" validate:"omitempty,gte=0"`
	Address             *string         `json:"address"`
	AddressDescription  *string         `json:"addressDescription"`
	Currency            *string         `json:"currency"`
	Amenities           *string         `json:"amenities"`
	Subtitle            *string         `json:"subtitle"`
	DeveloperLink       *string         `json:"developerLink"`
	NeighbourhoodLink   *string         `json:"neighbourhoodLink"`
	FeatureOnHomepage   *bool           `json:"featureOnHomepage"`
}

func (f *DevelopmentFields) ApplyDefaults() { defaultBool(&f.FeatureOnHomepage, false) }

type Development struct {
	ID int64 `json:"id"`
	DevelopmentFields
	Timestamps
}

func (d Development) Key() int64                   { return d.ID }
func (d Development) Writable() DevelopmentFields { return d.DevelopmentFields }

/********** enquiry **********/

type EnquiryFields struct {
	Email             string  `json:"email" validate:"required,email"`
	Message           *string `json:"message"`
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	PropertyReference *string `json:"propertyReference"`
	Subject           *string `json:"subject"`
}

// Enquiry carries a server-owned read flag; it is false on insert and only
// flipped by MarkRead.
type Enquiry struct {
	ID int64 `json:"id"`
	EnquiryFields
	IsRead bool `json:"isRead"`
	Timestamps
}

func (e Enquiry) Key() int64               { return e.ID }
func (e Enquiry) Writable() EnquiryFields { return e.EnquiryFields }

/********** agent **********/

type AgentFields struct {
	JobTitle      *string `json:"jobTitle"`
	Languages     *string `json:"languages"`
	LicenseNumber *string `json:"licenseNumber"`
	Location      *string `json:"location"`
	Name          string  `json:"name" validate:"required"`
	HeadShot      *string `json:"headShot"`
	Photo         *string `json:"photo"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone"`
	Introduction  *string `json:"introduction"`
	Linkedin      *string `json:"linkedin"`
	Experience    *int64  `json:"experience" validate:"omitempty,gte=0"`
}

type Agent struct {
	ID int64 `json:"id"`
	AgentFields
	Timestamps
}

func (a Agent) Key() int64             { return a.ID }
func (a Agent) Writable() AgentFields { return a.AgentFields }

/********** article **********/

type ArticleFields struct {
	Author        *string         `json:"author"`
	Category      *string         `json:"category"`
	Excerpt       *string         `json:"excerpt"`
	Slug          string          `json:"slug" validate:"required"`
	Title         string          `json:"title" validate:"required"`
	DatePublished *string         `json:"datePublished"`
	ReadingTime   *int64          `json:"readingTime" validate:"omitempty,gte=0"`
	ExternalID    *string         `json:"externalId"`
	TileImage     *string         `json:"tileImage"`
	InlineImages  json.RawMessage `json:"inlineImages"`
	BodyStart     *string         `json:"bodyStart"`
	BodyEnd       *string         `json:"bodyEnd"`
	IsDisabled    *bool           `json:"isDisabled"`
	IsFeatured    *bool           `json:"isFeatured"`
	SuperFeature  *bool           `json:"superFeature"`
}

func (f *ArticleFields) ApplyDefaults() {
	defaultBool(&f.IsDisabled, false)
	defaultBool(&f.IsFeatured, false)
	defaultBool(&f.SuperFeature, false)
}

type Article struct {
	ID int64 `json:"id"`
	ArticleFields
	Timestamps
}

func (a Article) Key() int64               { return a.ID }
func (a Article) Writable() ArticleFields { return a.ArticleFields }

/********** banner highlight **********/

type BannerHighlightFields struct {
	Title      string  `json:"title" validate:"required"`
	Headline   string  `json:"headline" validate:"required"`
	Subheading *string `json:"subheading"`
	CTA        *string `json:"cta"`
	CTALink    *string `json:"ctaLink"`
	Image      *string `json:"image"`
	IsActive   *bool   `json:"isActive"`
}

func (f *BannerHighlightFields) ApplyDefaults() { defaultBool(&f.IsActive, true) }

type BannerHighlight struct {
	ID int64 `json:"id"`
	BannerHighlightFields
	Timestamps
}

func (b BannerHighlight) Key() int64                       { return b.ID }
func (b BannerHighlight) Writable() BannerHighlightFields { return b.BannerHighlightFields }

/********** developer **********/

type DeveloperFields struct {
	Title            string  `json:"title" validate:"required"`
	Description      *string `json:"description"`
	URLSlug          string  `json:"urlSlug" validate:"required"`
	Country          *string `json:"country"`
	EstablishedSince *string `json:"establishedSince"`
	Logo             *string `json:"logo"`
}

type Developer struct {
	ID int64 `json:"id"`
	DeveloperFields
	Timestamps
}

func (d Developer) Key() int64                 { return d.ID }
func (d Developer) Writable() DeveloperFields { return d.DeveloperFields }

/********** sitemap **********/

type SitemapFields struct {
	CompleteURL string  `json:"completeUrl" validate:"required"`
	LinkLabel   string  `json:"linkLabel" validate:"required"`
	Section     *string `json:"section"`
}

type SitemapEntry struct {
	ID int64 `json:"id"`
	SitemapFields
	Timestamps
}

func (s SitemapEntry) Key() int64               { return s.ID }
func (s SitemapEntry) Writable() SitemapFields { return s.SitemapFields }

func defaultBool(p **bool, v bool) {
	if *p == nil {
		*p = &v
	}
}
