package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/youssefMoMo/youssef-portfolio/internal/domain"
)

// fakeGameAPI scripts the three upstream calls and records what was asked.
type fakeGameAPI struct {
	mu sync.Mutex

	universes map[string]string
	games     map[string]domain.GameInfo
	icons     map[string]string

	resolveErr error
	gamesErr   error
	iconsErr   error

	resolveCalls []string
	gamesCalls   [][]string
	iconsCalls   [][]string
}

func (f *fakeGameAPI) ResolveUniverse(_ context.Context, placeID string) (string, error) {
	f.mu.Lock()
	f.resolveCalls = append(f.resolveCalls, placeID)
	f.mu.Unlock()

	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	universeID, ok := f.universes[placeID]
	if !ok {
		return "", errors.New("unknown place")
	}
	return universeID, nil
}

func (f *fakeGameAPI) GetGames(_ context.Context, universeIDs []string) (map[string]domain.GameInfo, error) {
	f.mu.Lock()
	f.gamesCalls = append(f.gamesCalls, universeIDs)
	f.mu.Unlock()

	if f.gamesErr != nil {
		return nil, f.gamesErr
	}
	return f.games, nil
}

func (f *fakeGameAPI) GetIcons(_ context.Context, universeIDs []string) (map[string]string, error) {
	f.mu.Lock()
	f.iconsCalls = append(f.iconsCalls, universeIDs)
	f.mu.Unlock()

	if f.iconsErr != nil {
		return nil, f.iconsErr
	}
	return f.icons, nil
}

func int64p(v int64) *int64 { return &v }

func TestAggregateJoinsInInputOrder(t *testing.T) {
	api := &fakeGameAPI{
		universes: map[string]string{"1": "u1", "2": "u2", "3": "u3"},
		games: map[string]domain.GameInfo{
			"u1": {Name: "First", Visits: int64p(10)},
			"u2": {Name: "Second", Visits: int64p(20)},
			"u3": {Name: "Third", Visits: int64p(30)},
		},
	}
	svc := NewGamesService(api)

	stats, total, err := svc.Aggregate(context.Background(), []string{"3", "1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 60 {
		t.Errorf("total = %d, want 60", total)
	}

	wantOrder := []string{"3", "1", "2"}
	for i, stat := range stats {
		if stat.InputID != wantOrder[i] {
			t.Errorf("stats[%d].InputID = %s, want %s", i, stat.InputID, wantOrder[i])
		}
	}
	if *stats[0].Name != "Third" || *stats[2].Name != "Second" {
		t.Error("metadata joined onto the wrong records")
	}
}

func TestAggregateDeduplicatesBeforeBatchCalls(t *testing.T) {
	api := &fakeGameAPI{
		universes: map[string]string{"123": "u1", "456": "u1"},
		games:     map[string]domain.GameInfo{"u1": {Name: "A", Visits: int64p(5)}},
	}
	svc := NewGamesService(api)

	stats, _, err := svc.Aggregate(context.Background(), []string{"123", "123", "456"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected one record per input, got %d", len(stats))
	}

	// Two distinct place IDs resolving to one universe: two resolve calls,
	// then one-element batches.
	if len(api.resolveCalls) != 2 {
		t.Errorf("resolve called %d times, want 2 (duplicates share one call)", len(api.resolveCalls))
	}
	if len(api.gamesCalls) != 1 || len(api.gamesCalls[0]) != 1 {
		t.Errorf("games batch = %v, want a single call with one universe", api.gamesCalls)
	}
	if len(api.iconsCalls) != 1 || len(api.iconsCalls[0]) != 1 {
		t.Errorf("icons batch = %v, want a single call with one universe", api.iconsCalls)
	}
}

func TestAggregateFallsBackToPlaceIDOnResolveFailure(t *testing.T) {
	api := &fakeGameAPI{
		resolveErr: errors.New("upstream down"),
		games:      map[string]domain.GameInfo{},
	}
	svc := NewGamesService(api)

	stats, total, err := svc.Aggregate(context.Background(), []string{"777"})
	if err != nil {
		t.Fatal(err)
	}
	if stats[0].UniverseID != "777" {
		t.Errorf("UniverseID = %s, want the original place ID", stats[0].UniverseID)
	}
	if stats[0].Name != nil || stats[0].VisitCount != nil || stats[0].IconURL != nil {
		t.Error("unresolved record should carry null fields")
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestAggregateDegradesWhenBatchCallsFail(t *testing.T) {
	api := &fakeGameAPI{
		universes: map[string]string{"1": "u1"},
		gamesErr:  errors.New("games API down"),
		icons:     map[string]string{"u1": "https://cdn.example/icon.png"},
	}
	svc := NewGamesService(api)

	stats, total, err := svc.Aggregate(context.Background(), []string{"1"})
	if err != nil {
		t.Fatal(err)
	}
	if stats[0].Name != nil || stats[0].VisitCount != nil {
		t.Error("metadata fields should be null when the games call fails")
	}
	if stats[0].IconURL == nil || *stats[0].IconURL != "https://cdn.example/icon.png" {
		t.Error("icon lookup should survive a metadata failure")
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

// The worked example: duplicates of one place share its metadata, a
// non-numeric visit count yields null and contributes nothing to the sum.
func TestAggregateWorkedExample(t *testing.T) {
	api := &fakeGameAPI{
		universes: map[string]string{"123": "u1", "456": "u2"},
		games: map[string]domain.GameInfo{
			"u1": {Name: "A", Visits: int64p(100)},
			"u2": {Name: "B", Visits: nil}, // upstream sent a non-numeric value
		},
	}
	svc := NewGamesService(api)

	stats, total, err := svc.Aggregate(context.Background(), []string{"123", "123", "456"})
	if err != nil {
		t.Fatal(err)
	}

	if *stats[0].VisitCount != 100 || *stats[1].VisitCount != 100 {
		t.Error("both duplicate records should carry the shared visit count")
	}
	if stats[2].VisitCount != nil {
		t.Error("non-numeric visits should be null")
	}
	if total != 100 {
		// The duplicated place counts once toward the total.
		t.Errorf("total = %d, want 100", total)
	}
}
