//go:build integration

package sqlstore_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings_admin/internal/domain"
	"listings_admin/internal/storage/sqlstore"
)

func pstr(s string) *string { return &s }
func pint(i int64) *int64   { return &i }

// startMySQL runs an isolated MySQL and returns a DSN once it accepts pings.
func startMySQL(t *testing.T) string {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=listings",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/listings?charset=utf8mb4&loc=UTC", resource.GetPort("3306/tcp"))
	if err := pool.Retry(func() error {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	return dsn
}

func TestStore_MySQL_CRUDAndRead(t *testing.T) {
	dsn := startMySQL(t)
	ctx := context.Background()

	store, err := sqlstore.Open(ctx, sqlstore.DriverMySQL, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	st := store.Stores()

	p, err := st.Properties.Create(ctx, domain.PropertyFields{
		Reference:    "NS1503",
		ListingType:  "Sale",
		PropertyType: "Apartment",
		Community:    "Palm Jumeirah",
		Region:       "Dubai",
		Country:      "UAE",
		Agent:        json.RawMessage(`[{"id":"7","name":"Omar"}]`),
		Price:        pint(4500000),
		Currency:     "AED",
		Bedrooms:     pint(3),
		Title:        "Sea view",
		Images:       json.RawMessage(`["https://img/a.jpg"]`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"7","name":"Omar"}]`, string(p.Agent))

	byRef, err := st.Properties.GetByReference(ctx, "NS1503")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byRef.ID)

	// MySQL reports zero affected rows for a no-op update
	same, err := st.Properties.Update(ctx, p.ID, p.Writable())
	require.NoError(t, err)
	assert.Equal(t, p.ID, same.ID)

	e, err := st.Enquiries.Create(ctx, domain.EnquiryFields{Email: "x@y.ae", Name: pstr("Lina")})
	require.NoError(t, err)
	assert.False(t, e.IsRead)
	e, err = st.Enquiries.MarkRead(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, e.IsRead)

	require.NoError(t, st.Properties.Delete(ctx, p.ID))
	_, err = st.Properties.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
