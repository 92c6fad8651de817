package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listings_admin/internal/domain"
)

func (s *ResourceService[R, F]) Create(ctx context.Context, f F) (R, error) {
	if err := prepare(&f); err != nil {
		var zero R
		return zero, err
	}
	s.beginWrite()
	r, err := s.store.Create(ctx, f)
	if err != nil {
		var zero R
		return zero, err
	}
	s.invalidate(ctx, r.Key())
	return r, nil
}

// CreateJSON decodes a create payload and stores it.
func (s *ResourceService[R, F]) CreateJSON(ctx context.Context, body []byte) (R, error) {
	f, err := decodeFields[F](body)
	if err != nil {
		var zero R
		return zero, err
	}
	return s.Create(ctx, f)
}

// Patch overlays the keys present in body onto the stored fields. Keys that
// name no writable field are ignored; an explicit null clears the field.
func (s *ResourceService[R, F]) Patch(ctx context.Context, id int64, body []byte) (R, error) {
	var zero R
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	merged, err := mergeFields(cur.Writable(), patch)
	if err != nil {
		return zero, err
	}
	return s.Replace(ctx, id, merged)
}

// Replace stores f as the complete writable state of id.
func (s *ResourceService[R, F]) Replace(ctx context.Context, id int64, f F) (R, error) {
	var zero R
	if err := prepare(&f); err != nil {
		return zero, err
	}
	s.beginWrite()
	r, err := s.store.Update(ctx, id, f)
	if err != nil {
		return zero, err
	}
	s.invalidate(ctx, id)
	return r, nil
}

func (s *ResourceService[R, F]) Delete(ctx context.Context, id int64) error {
	s.beginWrite()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func mergeFields[F any](cur F, patch map[string]json.RawMessage) (F, error) {
	var zero F
	b, err := json.Marshal(cur)
	if err != nil {
		return zero, err
	}
	base := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &base); err != nil {
		return zero, err
	}
	for k, v := range patch {
		if _, ok := base[k]; ok {
			base[k] = v
		}
	}
	b, err = json.Marshal(base)
	if err != nil {
		return zero, err
	}
	return decodeFields[F](b)
}

/********** kind-specific services **********/

type PropertyService struct {
	*ResourceService[domain.Property, domain.PropertyFields]
	props domain.PropertyStore
}

func NewPropertyService(st domain.PropertyStore, c domain.Cache, ttl time.Duration) *PropertyService {
	return &PropertyService{
		ResourceService: NewResourceService[domain.Property, domain.PropertyFields](KindProperty, st, c, ttl),
		props:           st,
	}
}

// GetByReference always reads the store; the importer depends on it being fresh.
func (s *PropertyService) GetByReference(ctx context.Context, reference string) (domain.Property, error) {
	return s.props.GetByReference(ctx, reference)
}

type EnquiryService struct {
	*ResourceService[domain.Enquiry, domain.EnquiryFields]
	enquiries domain.EnquiryStore
}

func NewEnquiryService(st domain.EnquiryStore, c domain.Cache, ttl time.Duration) *EnquiryService {
	return &EnquiryService{
		ResourceService: NewResourceService[domain.Enquiry, domain.EnquiryFields](KindEnquiry, st, c, ttl),
		enquiries:       st,
	}
}

// MarkRead sets the read flag; repeated calls leave it set.
func (s *EnquiryService) MarkRead(ctx context.Context, id int64) (domain.Enquiry, error) {
	s.beginWrite()
	e, err := s.enquiries.MarkRead(ctx, id)
	if err != nil {
		return domain.Enquiry{}, err
	}
	s.invalidate(ctx, id)
	return e, nil
}
