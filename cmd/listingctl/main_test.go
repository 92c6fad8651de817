package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"listings_admin/internal/app"
	"listings_admin/internal/storage/sqlstore"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<properties>
  <property>
    <reference>NS1503</reference>
    <title>Beach villa</title>
    <community>Palm Jebel Ali</community>
    <price>21000000</price>
  </property>
  <property>
    <reference>NS2001</reference>
    <title>Marina flat</title>
    <community>Dubai Marina</community>
    <price>1800000 AED</price>
    <bedrooms>2</bedrooms>
  </property>
</properties>`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	e := &env{}
	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	assert.Nil(t, e.store, "store left open")
	return out.String()
}

func TestListingctl_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:"+filepath.Join(dir, "cli.db"))
	t.Setenv("REDIS_ADDR", "")

	out := run(t, "migrate")
	assert.Contains(t, out, "001_init.sql")

	out = run(t, "seed")
	assert.Contains(t, out, "property created: true")
	out = run(t, "seed")
	assert.Contains(t, out, "property created: false")

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer feedSrv.Close()

	out = run(t, "import", "--url", feedSrv.URL, "--workers", "2")
	var rep app.ImportReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 0, rep.Errors)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, app.ActionUpdated, rep.Results[0].Action, "seeded reference is replaced")
	assert.Equal(t, app.ActionCreated, rep.Results[1].Action)

	path := filepath.Join(dir, "properties.csv")
	run(t, "export", "properties", "-o", path)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "reference", rows[0][1])
	assert.Equal(t, "NS1503", rows[1][1])
}

func TestListingctl_ExportUnknownEntity(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:"+filepath.Join(t.TempDir(), "cli.db"))

	e := &env{}
	cmd := newRootCmd(e)
	cmd.SetArgs([]string{"export", "users"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bannerHighlights")
	assert.Nil(t, e.store, "failed command must still close the store")
}

func TestListingctl_FailedImportClosesStore(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:"+filepath.Join(t.TempDir(), "cli.db"))

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer feedSrv.Close()

	var opened *sqlstore.Store
	e := &env{}
	cmd := newRootCmd(e)
	cmd.AddCommand(&cobra.Command{
		Use: "peek",
		RunE: e.withStore(func(cmd *cobra.Command, args []string) error {
			opened = e.store
			return errors.New("boom")
		}),
	})

	cmd.SetArgs([]string{"import", "--url", feedSrv.URL})
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.ExecuteContext(context.Background()))
	assert.Nil(t, e.store)

	cmd.SetArgs([]string{"peek"})
	require.EqualError(t, cmd.ExecuteContext(context.Background()), "boom")
	require.NotNil(t, opened)
	assert.Nil(t, e.store)
	assert.Error(t, opened.Ping(context.Background()), "closed store still answers")
}
