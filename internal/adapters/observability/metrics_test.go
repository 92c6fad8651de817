package observability

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := InitRegistry()

	// record samples so counters are non-zero
	ObserveHTTP("/api/properties", "GET", 200, 12*time.Millisecond)
	ObserveImportItem("created")
	ObserveExternal("feed", "properties", 200, time.Second)

	mh := MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"listings_http_requests_total",
		"listings_import_items_total",
		"listings_external_requests_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestServe_DisabledWithoutAddr(t *testing.T) {
	if srv := Serve("", InitRegistry()); srv != nil {
		t.Fatalf("expected nil server for empty addr")
	}
}

func TestNewLogger_ProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod")
	l.Info().Str("k", "v").Msg("hello")
	l.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, `"service":"listings-admin"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug should be filtered in prod: %s", out)
	}
}
