package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"listings_admin/internal/app"
	"listings_admin/internal/domain"
)

const (
	DemoReference    = "NS1503"
	DemoEnquiryEmail = "khalil@example.com"
)

type Result struct {
	PropertyCreated bool
	EnquiryCreated  bool
}

// Seed inserts the demo property and the demo enquiry unless they already exist.
func Seed(ctx context.Context, svcs *app.Services) (Result, error) {
	var res Result

	_, err := svcs.Properties.GetByReference(ctx, DemoReference)
	switch {
	case err == nil:
		log.Info().Str("reference", DemoReference).Msg("demo property already exists")
	case errors.Is(err, domain.ErrNotFound):
		p, err := svcs.Properties.Create(ctx, demoProperty())
		if err != nil {
			return res, fmt.Errorf("seed property: %w", err)
		}
		res.PropertyCreated = true
		log.Info().Int64("id", p.ID).Str("reference", DemoReference).Msg("demo property created")
	default:
		return res, fmt.Errorf("lookup demo property: %w", err)
	}

	enquiries, err := svcs.Enquiries.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list enquiries: %w", err)
	}
	for _, e := range enquiries {
		if e.Email == DemoEnquiryEmail {
			log.Info().Str("email", DemoEnquiryEmail).Msg("demo enquiry already exists")
			return res, nil
		}
	}
	e, err := svcs.Enquiries.Create(ctx, demoEnquiry())
	if err != nil {
		return res, fmt.Errorf("seed enquiry: %w", err)
	}
	res.EnquiryCreated = true
	log.Info().Int64("id", e.ID).Msg("demo enquiry created")
	return res, nil
}

func demoProperty() domain.PropertyFields {
	str := func(s string) *string { return &s }
	num := func(n int64) *int64 { return &n }
	yes, no := true, false
	agent, _ := json.Marshal([]map[string]string{{"id": "5vWGNoSRuxte0DAU96KA", "name": "Imran Shaikh"}})

	return domain.PropertyFields{
		Reference:      DemoReference,
		ListingType:    "sale",
		PropertyType:   "villa",
		SubCommunity:   str("Palm Jebel Ali"),
		Community:      "Palm Jebel Ali",
		Region:         "Dubai",
		Country:        "AE",
		Agent:          agent,
		Price:          num(19050000),
		Currency:       "AED",
		Bedrooms:       num(6),
		Bathrooms:      num(8),
		PropertyStatus: str("Off Plan"),
		Title:          "BEACH VILLAS 6 BEDROOM SUN,SEA,SAND,SOPHISTICATION",
		Description: str("Welcome to Palm Jebel Ali, a world-class lifestyle destination meticulously designed " +
			"and impeccably curated, providing unrivalled luxury living to its residents."),
		SqfeetArea:    num(7798),
		SqfeetBuiltup: num(7798),
		IsExclusive:   &no,
		Amenities: str("Balcony,BBQ area,Built in wardrobes,Central air conditioning,Covered parking," +
			"Fully fitted kitchen,Private Gym,Private Jacuzzi,Kitchen Appliances,Maids Room,Pets allowed," +
			"Private Garden,Private Pool,Sauna,Steam room,Study,Sea/Water view,Security,Maintenance," +
			"Within a Compound,Indoor swimming pool,Golf view,Terrace,Concierge Service,Spa,Maid Service," +
			"Walk-in Closet,Heating,Children's Play Area,Lobby in Building,Children's Pool"),
		IsFeatured: &no,
		IsFitted:   &yes,
		Images:     json.RawMessage(`[]`),
		IsDisabled: &no,
	}
}

func demoEnquiry() domain.EnquiryFields {
	str := func(s string) *string { return &s }
	return domain.EnquiryFields{
		Email:             DemoEnquiryEmail,
		Message:           str(""),
		Name:              str("Khalil Gibran"),
		Phone:             str("12345678910"),
		PropertyReference: str(""),
		Subject:           str("general enquiry"),
	}
}
