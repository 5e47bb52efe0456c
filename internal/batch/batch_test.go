package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showme/internal/blob/mem"
	"showme/internal/country"
	"showme/internal/geo"
	"showme/internal/render"
)

const worldFixture = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"sovereignt":"France","economy":"6. Developing region","income_grp":"4. Lower middle income"},"geometry":{"type":"Polygon","coordinates":[[[0,40],[10,40],[10,50],[0,50],[0,40]]]}},
{"type":"Feature","properties":{"sovereignt":"Tunisia","economy":"7. Least developed region","income_grp":"5. Low income"},"geometry":{"type":"MultiPolygon","coordinates":[[[[20,30],[28,30],[28,38],[20,38],[20,30]]],[[[27,37],[34,37],[34,44],[27,44],[27,37]]]]}}
]}`

func newTestRunner(t *testing.T) (*Runner, *mem.Store) {
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
	store := mem.New("http://blob.test", "showme")
	return NewRunner(country.NewService(fs, rend), store, 2), store
}

func TestRunPartialFailure(t *testing.T) {
	r, _ := newTestRunner(t)
	urls := r.Run(context.Background(), []string{"France", "Wassef"}, country.AxisByName,
		country.DefaultBuffer, country.DefaultTolerance)
	if len(urls) != 1 {
		t.Fatalf("expected exactly one url, got %v", urls)
	}
	if !strings.Contains(urls[0], "http://blob.test/showme/") {
		t.Fatalf("url missing store base: %q", urls[0])
	}
	if !strings.Contains(urls[0], "sovereignt_France.png") {
		t.Fatalf("url missing artifact key: %q", urls[0])
	}
}

func TestRunAllFailed(t *testing.T) {
	r, _ := newTestRunner(t)
	urls := r.Run(context.Background(), []string{"Atlantis", "Wakanda"}, country.AxisByName,
		country.DefaultBuffer, country.DefaultTolerance)
	if len(urls) != 0 {
		t.Fatalf("all-failed batch must return empty list, got %v", urls)
	}
}

func TestRunByEconomyAxis(t *testing.T) {
	r, _ := newTestRunner(t)
	urls := r.Run(context.Background(), []string{"7. Least developed region", "random_economy"},
		country.AxisByEconomy, country.DefaultBuffer, country.DefaultTolerance)
	if len(urls) != 1 {
		t.Fatalf("expected exactly one url, got %v", urls)
	}
	if !strings.Contains(urls[0], "economy_7. Least developed region.png") {
		t.Fatalf("unexpected key in url %q", urls[0])
	}
}

func TestRunPublishIsIdempotent(t *testing.T) {
	r, store := newTestRunner(t)
	ctx := context.Background()

	first := r.Run(ctx, []string{"France"}, country.AxisByName, country.DefaultBuffer, country.DefaultTolerance)
	if len(first) != 1 {
		t.Fatalf("first run: %v", first)
	}
	before, err := store.Get(ctx, "sovereignt_France.png")
	if err != nil {
		t.Fatal(err)
	}

	second := r.Run(ctx, []string{"France"}, country.AxisByName, country.DefaultBuffer, country.DefaultTolerance)
	if len(second) != 1 || second[0] != first[0] {
		t.Fatalf("second run must return the same url: %v vs %v", second, first)
	}
	after, err := store.Get(ctx, "sovereignt_France.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) {
		t.Fatal("repeated publish must not rewrite the stored artifact")
	}
}

func TestRunNormalizesNames(t *testing.T) {
	r, store := newTestRunner(t)
	urls := r.Run(context.Background(), []string{"tunisia"}, country.AxisByName,
		country.DefaultBuffer, country.DefaultTolerance)
	if len(urls) != 1 {
		t.Fatalf("expected one url, got %v", urls)
	}
	ok, err := store.Exists(context.Background(), "sovereignt_Tunisia.png")
	if err != nil || !ok {
		t.Fatalf("normalized key missing: ok=%v err=%v", ok, err)
	}
}
