package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/youssefMoMo/youssef-portfolio/internal/config"
)

func testConfig(baseURL string) config.UpstreamConfig {
	u, _ := url.Parse(baseURL)
	return config.UpstreamConfig{
		APIBaseURL:           baseURL,
		GamesBaseURL:         baseURL,
		ThumbnailsBaseURL:    baseURL,
		AllowedHosts:         []string{u.Hostname()},
		Timeout:              2,
		MaxRequestsPerSecond: 100,
	}
}

func TestResolveUniverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/universes/v1/places/123/") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"universeId": 999})
	}))
	defer srv.Close()

	client := NewGameClient(testConfig(srv.URL))
	universeID, err := client.ResolveUniverse(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}
	if universeID != "999" {
		t.Errorf("universeID = %s, want 999", universeID)
	}
}

func TestResolveUniverseErrorOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGameClient(testConfig(srv.URL))
	if _, err := client.ResolveUniverse(context.Background(), "123"); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestGetGamesParsesVisitVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"name":"A","visits":100},
			{"id":2,"name":"B","visits":"bad"},
			{"id":3,"name":"C","visits":7.9},
			{"id":4,"name":"D"}
		]}`))
	}))
	defer srv.Close()

	client := NewGameClient(testConfig(srv.URL))
	games, err := client.GetGames(context.Background(), []string{"1", "2", "3", "4"})
	if err != nil {
		t.Fatal(err)
	}

	if v := games["1"].Visits; v == nil || *v != 100 {
		t.Errorf("numeric visits should survive, got %v", v)
	}
	if games["2"].Visits != nil {
		t.Error("non-numeric visits should be nil")
	}
	if v := games["3"].Visits; v == nil || *v != 7 {
		t.Errorf("fractional visits should truncate to 7, got %v", v)
	}
	if games["4"].Visits != nil {
		t.Error("missing visits should be nil")
	}
}

func TestGetIconsSkipsPendingThumbnails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"targetId":1,"state":"Completed","imageUrl":"https://cdn.example/a.png"},
			{"targetId":2,"state":"Pending","imageUrl":""}
		]}`))
	}))
	defer srv.Close()

	client := NewGameClient(testConfig(srv.URL))
	icons, err := client.GetIcons(context.Background(), []string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}

	if icons["1"] != "https://cdn.example/a.png" {
		t.Errorf("icons[1] = %q", icons["1"])
	}
	if _, ok := icons["2"]; ok {
		t.Error("pending thumbnails should be dropped")
	}
}

func TestHostAllowListRefusesBeforeDialing(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.AllowedHosts = []string{"games.example.com"}

	client := NewGameClient(cfg)
	if _, err := client.ResolveUniverse(context.Background(), "123"); err == nil {
		t.Fatal("expected a refusal for a non-allow-listed host")
	}
	if called {
		t.Error("the upstream must never be contacted when the host is not allow-listed")
	}
}

func TestRedirectsAreTreatedAsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://elsewhere.example/", http.StatusFound)
	}))
	defer srv.Close()

	client := NewGameClient(testConfig(srv.URL))
	if _, err := client.ResolveUniverse(context.Background(), "123"); err == nil {
		t.Fatal("a redirecting upstream should yield an error, not be followed")
	}
}

func TestTruncateVisits(t *testing.T) {
	if v := truncateVisits(float64(12.9)); v == nil || *v != 12 {
		t.Errorf("truncateVisits(12.9) = %v, want 12", v)
	}
	if v := truncateVisits("250"); v == nil || *v != 250 {
		t.Errorf("truncateVisits(\"250\") = %v, want 250", v)
	}
	if v := truncateVisits(json.Number("42")); v == nil || *v != 42 {
		t.Errorf("truncateVisits(json.Number 42) = %v, want 42", v)
	}
	if truncateVisits("bad") != nil {
		t.Error("truncateVisits(\"bad\") should be nil")
	}
	if truncateVisits(nil) != nil {
		t.Error("truncateVisits(nil) should be nil")
	}
}
