package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"listings_admin/internal/domain"
)

// ---- fakes ----

type fakeProps struct {
	mu    sync.Mutex
	next  int64
	rows  map[int64]domain.Property
	reads int
	fail  error

	// afterRead, when set, runs after List or Get has copied its rows.
	afterRead func()
}

func newFakeProps() *fakeProps { return &fakeProps{rows: map[int64]domain.Property{}} }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (f *fakeProps) List(ctx context.Context) ([]domain.Property, error) {
	f.mu.Lock()
	f.reads++
	if f.fail != nil {
		f.mu.Unlock()
		return nil, f.fail
	}
	out := make([]domain.Property, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	hook := f.afterRead
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeProps) Get(ctx context.Context, id int64) (domain.Property, error) {
	f.mu.Lock()
	f.reads++
	p, ok := f.rows[id]
	hook := f.afterRead
	f.mu.Unlock()

	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	if hook != nil {
		hook()
	}
	return p, nil
}

// pauseNextRead makes the next List or Get block after reading until the
// returned release func is called. started is closed once the read is parked.
func (f *fakeProps) pauseNextRead() (started <-chan struct{}, release func()) {
	s, r := make(chan struct{}), make(chan struct{})
	var once sync.Once
	f.mu.Lock()
	f.afterRead = func() {
		once.Do(func() {
			f.mu.Lock()
			f.afterRead = nil
			f.mu.Unlock()
			close(s)
			<-r
		})
	}
	f.mu.Unlock()
	return s, func() { close(r) }
}

func (f *fakeProps) Create(ctx context.Context, in domain.PropertyFields) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	p := domain.Property{ID: f.next, PropertyFields: in}
	p.CreatedAt, p.UpdatedAt = fixedNow, fixedNow
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProps) Update(ctx context.Context, id int64, in domain.PropertyFields) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	p.PropertyFields = in
	p.UpdatedAt = fixedNow.Add(time.Minute)
	f.rows[id] = p
	return p, nil
}

func (f *fakeProps) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProps) GetByReference(ctx context.Context, ref string) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.Property
	for _, p := range f.rows {
		if p.Reference == ref && (best == nil || p.ID < best.ID) {
			p := p
			best = &p
		}
	}
	if best == nil {
		return domain.Property{}, domain.ErrNotFound
	}
	return *best, nil
}

type fakeEnquiries struct {
	next int64
	rows map[int64]domain.Enquiry
}

func newFakeEnquiries() *fakeEnquiries { return &fakeEnquiries{rows: map[int64]domain.Enquiry{}} }

func (f *fakeEnquiries) List(ctx context.Context) ([]domain.Enquiry, error) {
	out := []domain.Enquiry{}
	for i := int64(1); i <= f.next; i++ {
		if e, ok := f.rows[i]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeEnquiries) Get(ctx context.Context, id int64) (domain.Enquiry, error) {
	e, ok := f.rows[id]
	if !ok {
		return domain.Enquiry{}, domain.ErrNotFound
	}
	return e, nil
}
func (f *fakeEnquiries) Create(ctx context.Context, in domain.EnquiryFields) (domain.Enquiry, error) {
	f.next++
	e := domain.Enquiry{ID: f.next, EnquiryFields: in}
	f.rows[e.ID] = e
	return e, nil
}
func (f *fakeEnquiries) Update(ctx context.Context, id int64, in domain.EnquiryFields) (domain.Enquiry, error) {
	e, ok := f.rows[id]
	if !ok {
		return domain.Enquiry{}, domain.ErrNotFound
	}
	e.EnquiryFields = in
	f.rows[id] = e
	return e, nil
}
func (f *fakeEnquiries) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}
func (f *fakeEnquiries) MarkRead(ctx context.Context, id int64) (domain.Enquiry, error) {
	e, ok := f.rows[id]
	if !ok {
		return domain.Enquiry{}, domain.ErrNotFound
	}
	e.IsRead = true
	f.rows[id] = e
	return e, nil
}

// jsonCache stores values as JSON, the way the Redis adapter does.
type jsonCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *jsonCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *jsonCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *jsonCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
		c.dels = append(c.dels, k)
	}
	return nil
}

type fakeFeed struct {
	items []map[string]any
	err   error
}

func (f *fakeFeed) FetchProperties(ctx context.Context) ([]map[string]any, error) {
	return f.items, f.err
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func validProperty(ref string) domain.PropertyFields {
	return domain.PropertyFields{
		Reference:    ref,
		ListingType:  "Sale",
		PropertyType: "Villa",
		Community:    "Arabian Ranches",
		Region:       "Dubai",
		Country:      "UAE",
		Price:        ptr(int64(3500000)),
		Currency:     "AED",
		Title:        "Family villa",
		Bedrooms:     ptr(int64(4)),
		Description:  ptr("Corner plot"),
	}
}
