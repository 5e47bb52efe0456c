package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showme/internal/batch"
	"showme/internal/blob/mem"
	"showme/internal/country"
	"showme/internal/geo"
	"showme/internal/render"
)

const worldFixture = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"sovereignt":"France","economy":"6. Developing region","income_grp":"4. Lower middle income"},"geometry":{"type":"Polygon","coordinates":[[[0,40],[10,40],[10,50],[0,50],[0,40]]]}},
{"type":"Feature","properties":{"sovereignt":"Tunisia","economy":"7. Least developed region","income_grp":"5. Low income"},"geometry":{"type":"MultiPolygon","coordinates":[[[[20,30],[28,30],[28,38],[20,38],[20,30]]],[[[27,37],[34,37],[34,44],[27,44],[27,37]]]]}}
]}`

func newTestServer(t *testing.T) (*httptest.Server, *mem.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.geojson")
	if err := os.WriteFile(path, []byte(worldFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := geo.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	rend, err := render.New()
	if err != nil {
		t.Fatal(err)
	}
	svc := country.NewService(fs, rend)
	store := mem.New("http://blob.test", "showme")
	mux := BuildRoutes(Deps{
		Service: svc,
		Blob:    store,
		Batch:   batch.NewRunner(svc, store, 2),
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store
}

func TestCountryEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/country/tunisia")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("content-type"); ct != "image/png" {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := resp.Header.Get("content-disposition"); cd != "attachment; filename=country.png" {
		t.Fatalf("content-disposition = %q", cd)
	}
}

func TestCountryEndpointNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/country/wassef")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCountryEndpointUnknownAxis(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/country/France?by=by-continent")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	body := `{"names":["7. Least developed region","random_economy"],"axis":"by-economy"}`
	resp, err := http.Post(ts.URL+"/batch", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.URLs) != 1 {
		t.Fatalf("expected one url, got %v", out.URLs)
	}
	if !strings.Contains(out.URLs[0], "http://blob.test/showme/") {
		t.Fatalf("url missing store base: %q", out.URLs[0])
	}
}

func TestBatchEndpointEmptyNames(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(ts.URL+"/batch", "application/json", strings.NewReader(`{"names":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestArtifactGetAndDelete(t *testing.T) {
	ts, store := newTestServer(t)

	// 先出一次图，制品随之落库
	resp, err := http.Get(ts.URL + "/country/France")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d", resp.StatusCode)
	}
	urls := batchPublish(t, ts, `{"names":["France"]}`)
	if len(urls) != 1 {
		t.Fatalf("publish urls = %v", urls)
	}

	resp, err = http.Get(ts.URL + "/artifact/sovereignt_France.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("artifact get status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/artifact/sovereignt_France.png", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("artifact delete status = %d", resp.StatusCode)
	}
	if ok, _ := store.Exists(req.Context(), "sovereignt_France.png"); ok {
		t.Fatal("artifact should be gone after delete")
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func batchPublish(t *testing.T, ts *httptest.Server, body string) []string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/batch", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.URLs
}

func TestStatsEndpointWithoutStore(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["total"] != 0 || out["today"] != 0 {
		t.Fatalf("stats without store must be zero, got %v", out)
	}
}

func TestPublishWithoutBus(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(ts.URL+"/publish", "application/json",
		strings.NewReader(`{"subject":"showme.render","message":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestLocateWithoutGeoIP(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/locate?ip=1.1.1.1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
