package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gountain/catalog/internal/cache"
	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/domain"
	"github.com/gountain/catalog/internal/readiness"
	"github.com/gountain/catalog/internal/storage"
)

func alt(v float64) *float64 { return &v }

func fixtures() []domain.Destination {
	return []domain.Destination{
		{ID: "mont-blanc", Name: "Mont Blanc", Continent: "Europa", Type: "Pico", Coords: []float64{45.83, 6.86},
			AltitudeM: alt(4808), Difficulty: "PD+", Months: "Jun–Sep", Boots: []string{"La Sportiva Nepal Cube GTX"}, Order: 1},
		{ID: "kilimanjaro", Name: "Kilimanjaro", Continent: "África", Type: "Pico", Coords: []float64{-3.07, 37.35},
			AltitudeM: alt(5895), Difficulty: "Trekking", Months: "Todo el año", Boots: []string{"Cualquiera"}, Order: 2},
		{ID: "aconcagua", Name: "Aconcagua", Continent: "América del Sur", Type: "Pico", Coords: []float64{-32.65, -70.01},
			AltitudeM: alt(6961), Difficulty: "F", Months: "Dec–Feb", Boots: []string{"Botas triple capa (8000 m+)"}, Order: 3},
		{ID: "chilkoot-trail", Name: "Chilkoot Trail", Continent: "América del Norte", Type: "Travesía", Order: 4},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	engine := catalog.NewEngine(nil)
	srv := NewServer(engine, NewMemoryRepo(engine, fixtures()))
	srv.MapboxToken = "pk.test"
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, u string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, u string, in, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(in)
	require.NoError(t, err)
	resp, err := http.Post(u, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthAndEnv(t *testing.T) {
	_, ts := newTestServer(t)

	var health map[string]string
	resp := getJSON(t, ts.URL+"/health", &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])

	var env map[string]string
	resp = getJSON(t, ts.URL+"/api/env", &env)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "pk.test", env["MAPBOX_TOKEN"])
}

func TestListDestinations_FiltersAndPaging(t *testing.T) {
	_, ts := newTestServer(t)

	var got domain.ListResult
	resp := getJSON(t, ts.URL+"/destinations?type=Pico&limit=2", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Limit)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "mont-blanc", got.Items[0].ID)
	assert.Equal(t, "kilimanjaro", got.Items[1].ID)

	resp = getJSON(t, ts.URL+"/destinations?type=Pico&limit=2&offset=2", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "aconcagua", got.Items[0].ID)

	resp = getJSON(t, ts.URL+"/destinations?offset=99", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, got.Total)
	assert.Empty(t, got.Items)
}

func TestListDestinations_SeasonAndAltitude(t *testing.T) {
	_, ts := newTestServer(t)

	q := url.Values{}
	q.Add("season", catalog.Winter)
	q.Set("alt_min", "6000")

	var got domain.ListResult
	resp := getJSON(t, ts.URL+"/destinations?"+q.Encode(), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, "aconcagua", got.Items[0].ID)
}

func TestListDestinations_BadAltitude(t *testing.T) {
	_, ts := newTestServer(t)

	var p Problem
	resp := getJSON(t, ts.URL+"/destinations?alt_min=high", &p)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	assert.Equal(t, ProblemTypeBadRequest, p.Type)
	assert.Contains(t, p.Detail, "alt_min")
}

func TestDestinationCRUD(t *testing.T) {
	_, ts := newTestServer(t)

	var created domain.Destination
	resp := postJSON(t, ts.URL+"/destinations", map[string]any{
		"nombre":     "Pico de Orizaba",
		"continente": "América del Norte",
		"tipo":       "Pico",
		"coords":     []float64{19.03, -97.27},
		"meses":      "Nov–Feb",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pico-de-orizaba", created.ID)
	assert.Equal(t, 5, created.Order)
	assert.Equal(t, []string{catalog.Autumn, catalog.Winter}, created.Seasons)

	var p Problem
	resp = postJSON(t, ts.URL+"/destinations", map[string]any{
		"nombre":     "Pico de Orizaba",
		"continente": "América del Norte",
	}, &p)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var fetched domain.Destination
	resp = getJSON(t, ts.URL+"/destinations/pico-de-orizaba", &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pico de Orizaba", fetched.Name)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/destinations/pico-de-orizaba", nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusOK, del.StatusCode)

	resp = getJSON(t, ts.URL+"/destinations/pico-de-orizaba", &p)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ProblemTypeNotFound, p.Type)

	del, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNotFound, del.StatusCode)
}

func TestCreateDestination_Validation(t *testing.T) {
	_, ts := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{"nombre":`},
		{"missing name", `{"continente":"Europa"}`},
		{"missing continent", `{"nombre":"Aneto"}`},
		{"bad coords", `{"nombre":"Aneto","continente":"Europa","coords":[42.6]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/destinations", "application/json", bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGeoJSON(t *testing.T) {
	_, ts := newTestServer(t)

	var fc domain.FeatureCollection
	resp := getJSON(t, ts.URL+"/destinations.geojson", &fc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)

	first := fc.Features[0]
	assert.Equal(t, [2]float64{6.86, 45.83}, first.Geometry.Coordinates)
	assert.Equal(t, "mont-blanc", first.Properties.ID)
	assert.Equal(t, catalog.DefaultPalette()["La Sportiva Nepal Cube GTX"], first.Properties.Color)
}

func TestGeoJSON_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine := catalog.NewEngine(nil)
	srv := NewServer(engine, NewMemoryRepo(engine, fixtures()))
	srv.Cache = cache.NewRedisCache(client, "test:", time.Minute)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	var fc domain.FeatureCollection
	getJSON(t, ts.URL+"/destinations.geojson?continent=Europa", &fc)
	require.Len(t, fc.Features, 1)

	key := "test:" + cacheKey("geojson", catalog.FilterState{Continent: catalog.NewSet("Europa")})
	assert.True(t, mr.Exists(key))

	resp := postJSON(t, ts.URL+"/destinations", map[string]any{
		"nombre":     "Aneto",
		"continente": "Europa",
		"coords":     []float64{42.63, 0.65},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, mr.Exists(key))

	getJSON(t, ts.URL+"/destinations.geojson?continent=Europa", &fc)
	assert.Len(t, fc.Features, 2)
}

func TestBounds(t *testing.T) {
	_, ts := newTestServer(t)

	var b domain.Bounds
	resp := getJSON(t, ts.URL+"/bounds?continent="+url.QueryEscape("Europa,África"), &b)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.Bounds{West: 6.86, South: -3.07, East: 37.35, North: 45.83}, b)

	resp = getJSON(t, ts.URL+"/bounds?type="+url.QueryEscape("Travesía"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFacets(t *testing.T) {
	_, ts := newTestServer(t)

	var f domain.Facets
	resp := getJSON(t, ts.URL+"/facets", &f)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"África", "América del Norte", "América del Sur", "Europa"}, f.Continents)
	assert.Equal(t, []string{"Pico", "Travesía"}, f.Types)
	assert.Equal(t, []string{catalog.Winter, catalog.Spring, catalog.Summer, catalog.Autumn}, f.Seasons)
}

func TestReadinessEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	req := ReadinessRequest{
		Route: readiness.RouteAttributes{Difficulty: 6, ElevationLoad: 6, DistanceLoad: 5, Exposure: 4, Weather: 4},
		User:  readiness.UserAttributes{Fitness: 6, Skill: 6, Experience: 5, Gear: 6, Recovery: 6},
	}
	var got ReadinessResponse
	resp := postJSON(t, ts.URL+"/readiness", req, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 57, got.Score)
	assert.Equal(t, readiness.StateBorderline, got.State)
	assert.Equal(t, readiness.StateColor(readiness.StateBorderline), got.Color)

	resp, err := http.Post(ts.URL+"/readiness", "application/json", bytes.NewBufferString("nope"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSQLiteRepo_ServesSameAPI(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.UpsertMany(ctx, fixtures()))

	srv := NewServer(catalog.NewEngine(nil), &SQLiteRepo{Store: store})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	q := url.Values{}
	q.Add("boot", "Botas triple capa (8000 m+)")
	var got domain.ListResult
	resp := getJSON(t, ts.URL+"/destinations?"+q.Encode(), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, "aconcagua", got.Items[0].ID)
	assert.Equal(t, []string{catalog.Winter}, got.Items[0].Seasons)

	var fetched domain.Destination
	resp = getJSON(t, ts.URL+"/destinations/kilimanjaro", &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, catalog.AllSeasons, fetched.Seasons)

	resp = postJSON(t, ts.URL+"/destinations", map[string]any{"id": "aconcagua", "nombre": "Aconcagua", "continente": "América del Sur"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var created domain.Destination
	resp = postJSON(t, ts.URL+"/destinations", map[string]any{"nombre": "Mulhacén", "continente": "Europa"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 5, created.Order)

	resp = getJSON(t, ts.URL+"/destinations?continent=Europa", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, got.Total)
	assert.Equal(t, "mont-blanc", got.Items[0].ID)
	assert.Equal(t, created.ID, got.Items[1].ID)
}
