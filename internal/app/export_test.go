package app_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings_admin/internal/app"
	"listings_admin/internal/domain"
)

func exportRecords(t *testing.T, e app.Entity) [][]string {
	t.Helper()
	var buf bytes.Buffer
	_, err := e.ExportCSV(context.Background(), &buf)
	require.NoError(t, err)
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestExportCSV_NPlusOneRowsStableHeader(t *testing.T) {
	ctx := context.Background()
	svc := app.NewPropertyService(newFakeProps(), nil, time.Minute)

	empty := exportRecords(t, svc)
	require.Len(t, empty, 1)
	header := empty[0]
	assert.Equal(t, "id", header[0])
	assert.Equal(t, "reference", header[1])
	assert.Equal(t, []string{"updatedAt", "createdAt"}, header[len(header)-2:])

	for _, ref := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, validProperty(ref))
		require.NoError(t, err)
	}
	recs := exportRecords(t, svc)
	require.Len(t, recs, 4)
	assert.Equal(t, header, recs[0])
	assert.Equal(t, "1", recs[1][0])
	assert.Equal(t, "C", recs[3][1])
}

func TestExportCSV_ValueRendering(t *testing.T) {
	ctx := context.Background()
	svc := app.NewPropertyService(newFakeProps(), nil, time.Minute)
	in := validProperty("NS1")
	in.Title = `Sea "view", <b>bold</b>`
	in.Agent = json.RawMessage(`[{"id":"1","name":"Sara"}]`)
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	recs := exportRecords(t, svc)
	require.Len(t, recs, 2)
	row := map[string]string{}
	for i, col := range recs[0] {
		row[col] = recs[1][i]
	}
	assert.Equal(t, `Sea "view", <b>bold</b>`, row["title"])
	assert.Equal(t, `[{"id":"1","name":"Sara"}]`, row["agent"])
	assert.Equal(t, "3500000", row["price"])
	assert.Equal(t, "false", row["isFeatured"])
	assert.Equal(t, "", row["bathrooms"])
	assert.Equal(t, "", row["images"])
	assert.Equal(t, "2024-03-01T12:00:00Z", row["createdAt"])
}

func TestExportCSV_EnquiryIncludesReadFlag(t *testing.T) {
	svc := app.NewEnquiryService(newFakeEnquiries(), nil, time.Minute)
	recs := exportRecords(t, svc)
	assert.Contains(t, recs[0], "isRead")
	assert.Contains(t, recs[0], "propertyReference")
}

func TestServices_EntityLookup(t *testing.T) {
	st := domain.Stores{Properties: newFakeProps(), Enquiries: newFakeEnquiries()}
	svcs := app.NewServices(st, nil, time.Minute)

	for _, name := range []string{"bannerHighlights", "banner-highlights"} {
		e, ok := svcs.Entity(name)
		require.True(t, ok, name)
		assert.Equal(t, app.KindBannerHighlight, e.Kind())
	}
	_, ok := svcs.Entity("hotels")
	assert.False(t, ok)
	assert.Len(t, svcs.Entities(), 9)
	assert.Equal(t, "Sitemap entry", app.KindSitemap.Title())
	assert.True(t, strings.HasPrefix(app.KindBannerHighlight.Title(), "Banner"))
}
