package app

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"listings_admin/internal/domain"
)

/********** alias registry (single source of truth) **********/

// feedAliases lists the element names each property field is read from, in
// preference order. The second names cover the Property Finder export layout.
var feedAliases = map[string][]string{
	"reference":       {"reference", "reference_number"},
	"listing_type":    {"listing_type", "offering_type"},
	"property_type":   {"property_type"},
	"sub_community":   {"sub_community"},
	"community":       {"community"},
	"region":          {"region", "city"},
	"country":         {"country"},
	"price":           {"price", "price.value"},
	"currency":        {"currency"},
	"bedrooms":        {"bedrooms", "bedroom"},
	"bathrooms":       {"bathrooms", "bathroom"},
	"property_status": {"property_status", "completion_status"},
	"title":           {"title", "title_en"},
	"description":     {"description", "description_en"},
	"sqfeet_area":     {"sqfeet_area", "size"},
	"sqfeet_builtup":  {"sqfeet_builtup", "plot_size"},
	"amenities":       {"amenities", "private_amenities"},
	"lifestyle":       {"lifestyle"},
	"permit":          {"permit", "permit_number"},
	"brochure":        {"brochure"},
	"development":     {"development", "project_name"},
	"neighbourhood":   {"neighbourhood", "neighborhood"},
}

const (
	defaultListingType  = "Sale"
	defaultPropertyType = "Apartment"
	defaultRegion       = "Dubai"
	defaultCountry      = "UAE"
	defaultCurrency     = "AED"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". A repeated element yields its
// first string value.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok {
				return s
			}
		}
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set, or "".
func firstAlias(m map[string]any, key string) string {
	for _, p := range feedAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func textPtr(s string) *string { return &s }

// leadingInt reads an optional sign and the digits that follow, ignoring
// anything after them: "1200 AED" -> 1200, "12.5" -> 12, "abc" -> not ok.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// aliasInt: leading integer of the first non-empty alias, or nil.
func aliasInt(m map[string]any, key string) *int64 {
	n, ok := leadingInt(firstAlias(m, key))
	if !ok {
		return nil
	}
	return &n
}

// flag is true only for the literal text "true".
func flag(m map[string]any, path string) *bool {
	b := lookupStr(m, path) == "true"
	return &b
}

// collectStrings flattens every string under v. Repeated elements keep feed
// order; sibling elements are visited by name.
func collectStrings(v any, out []string) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, it := range t {
			out = collectStrings(it, out)
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			out = collectStrings(t[k], out)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/********** property mapper **********/

// feedImages renders <images> as a JSON array of URLs, nil when absent.
func feedImages(p map[string]any) json.RawMessage {
	v := lookupAny(p, "images")
	if v == nil {
		v = lookupAny(p, "photo")
	}
	if v == nil {
		return nil
	}
	urls := collectStrings(v, []string{})
	b, err := json.Marshal(urls)
	if err != nil {
		log.Error().Err(err).Str("context", "feedImages").Msg("marshal images failed")
		return nil
	}
	return b
}

// feedAgent renders <agent> as a one-element JSON array holding the agent's
// child elements; a bare text agent becomes {"name": text}.
func feedAgent(p map[string]any) json.RawMessage {
	var obj any
	switch v := lookupAny(p, "agent").(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		obj = map[string]any{"name": strings.TrimSpace(v)}
	case []any:
		if len(v) == 0 {
			return nil
		}
		obj = v[0]
	default:
		obj = v
	}
	b, err := json.Marshal([]any{obj})
	if err != nil {
		log.Error().Err(err).Str("context", "feedAgent").Msg("marshal agent failed")
		return nil
	}
	return b
}

func mapFeedProperty(p map[string]any) domain.PropertyFields {
	// no leading digits maps to 0
	price := aliasInt(p, "price")
	if price == nil {
		price = new(int64)
	}
	return domain.PropertyFields{
		Reference:      firstAlias(p, "reference"),
		ListingType:    orDefault(firstAlias(p, "listing_type"), defaultListingType),
		PropertyType:   orDefault(firstAlias(p, "property_type"), defaultPropertyType),
		SubCommunity:   textPtr(firstAlias(p, "sub_community")),
		Community:      firstAlias(p, "community"),
		Region:         orDefault(firstAlias(p, "region"), defaultRegion),
		Country:        orDefault(firstAlias(p, "country"), defaultCountry),
		Agent:          feedAgent(p),
		Price:          price,
		Currency:       orDefault(firstAlias(p, "currency"), defaultCurrency),
		Bedrooms:       aliasInt(p, "bedrooms"),
		Bathrooms:      aliasInt(p, "bathrooms"),
		PropertyStatus: textPtr(firstAlias(p, "property_status")),
		Title:          firstAlias(p, "title"),
		Description:    textPtr(firstAlias(p, "description")),
		SqfeetArea:     aliasInt(p, "sqfeet_area"),
		SqfeetBuiltup:  aliasInt(p, "sqfeet_builtup"),
		IsExclusive:    flag(p, "is_exclusive"),
		Amenities:      textPtr(firstAlias(p, "amenities")),
		IsFeatured:     flag(p, "is_featured"),
		IsFitted:       flag(p, "is_fitted"),
		IsFurnished:    flag(p, "is_furnished"),
		Lifestyle:      textPtr(firstAlias(p, "lifestyle")),
		Permit:         textPtr(firstAlias(p, "permit")),
		Brochure:       textPtr(firstAlias(p, "brochure")),
		Images:         feedImages(p),
		Development:    textPtr(firstAlias(p, "development")),
		Neighbourhood:  textPtr(firstAlias(p, "neighbourhood")),
		Sold:           flag(p, "sold"),
	}
}
