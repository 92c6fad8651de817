package app_test

import (
	"context"
	"testing"
	"time"

	"listings_admin/internal/app"
	"listings_admin/internal/domain"
)

func TestGet_CacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	store := newFakeProps()
	cache := &jsonCache{}
	svc := app.NewPropertyService(store, cache, 10*time.Minute)

	created, err := svc.Create(ctx, validProperty("NS1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Miss (first time, populates cache)
	p, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.Title != "Family villa" {
		t.Fatalf("unexpected property: %+v", p)
	}

	// Mutate the store behind the service's back; the next read must come from cache.
	row := store.rows[created.ID]
	row.Title = "SHOULD NOT SEE THIS"
	store.rows[created.ID] = row

	p2, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p2.Title != "Family villa" {
		t.Fatalf("expected cached title, got %s", p2.Title)
	}
	if !p2.CreatedAt.Equal(created.CreatedAt) || deref(p2.Description) != "Corner plot" {
		t.Fatalf("cached copy lost fields: %+v", p2)
	}
}

func TestList_CachedAndInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeProps()
	cache := &jsonCache{}
	svc := app.NewPropertyService(store, cache, time.Minute)

	if _, err := svc.Create(ctx, validProperty("A")); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.List(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("list: %v %d", err, len(first))
	}
	reads := store.reads
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.reads != reads {
		t.Fatalf("second list should be served from cache")
	}

	if _, err := svc.Create(ctx, validProperty("B")); err != nil {
		t.Fatalf("create: %v", err)
	}
	after, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected list to be refreshed after create, got %d", len(after))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := app.NewPropertyService(newFakeProps(), nil, time.Minute)
	if _, err := svc.Get(context.Background(), 9); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc := app.NewPropertyService(newFakeProps(), &jsonCache{}, time.Minute)
	out, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", out)
	}
}

func TestList_ReadRacingWriteDoesNotCacheStaleRows(t *testing.T) {
	ctx := context.Background()
	store := newFakeProps()
	cache := &jsonCache{}
	svc := app.NewPropertyService(store, cache, time.Minute)
	created, err := svc.Create(ctx, validProperty("NS1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	started, release := store.pauseNextRead()
	done := make(chan []domain.Property)
	go func() {
		rs, _ := svc.List(ctx)
		done <- rs
	}()
	<-started

	if _, err := svc.Patch(ctx, created.ID, []byte(`{"title":"Edited"}`)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	release()
	if old := <-done; len(old) != 1 || old[0].Title != "Family villa" {
		t.Fatalf("racing read should see the pre-write rows, got %+v", old)
	}

	after, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if after[0].Title != "Edited" {
		t.Fatalf("stale list cached: %q", after[0].Title)
	}
}

func TestGet_ReadRacingWriteDoesNotCacheStaleRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeProps()
	svc := app.NewPropertyService(store, &jsonCache{}, time.Minute)
	created, err := svc.Create(ctx, validProperty("NS2"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	started, release := store.pauseNextRead()
	done := make(chan struct{})
	go func() {
		_, _ = svc.Get(ctx, created.ID)
		close(done)
	}()
	<-started

	if _, err := svc.Patch(ctx, created.ID, []byte(`{"title":"Edited"}`)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	release()
	<-done

	p, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Title != "Edited" {
		t.Fatalf("stale record cached: %q", p.Title)
	}
}
