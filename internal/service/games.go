// Package service holds the aggregation orchestration behind the gamesData
// endpoint: resolve place IDs to universes, batch the metadata and icon
// lookups, join everything back in caller order.
package service

import (
	"context"
	"sync"

	"github.com/youssefMoMo/youssef-portfolio/internal/domain"
	"github.com/youssefMoMo/youssef-portfolio/internal/upstream"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// resolveWorkers bounds how many place→universe lookups run at once.
const resolveWorkers = 4

type GamesService struct {
	api upstream.GameAPI
}

func NewGamesService(api upstream.GameAPI) *GamesService {
	return &GamesService{api: api}
}

// Aggregate resolves every place ID, fetches metadata and icons for the
// deduplicated universe set, and joins the results back onto the input
// order. Upstream failures degrade to nil fields; they never fail the
// request. The second return value is the sum of the non-nil visit counts.
func (s *GamesService) Aggregate(ctx context.Context, placeIDs []string) ([]domain.GameStat, int64, error) {
	universeIDs := s.resolveAll(ctx, placeIDs)

	unique := dedupe(universeIDs)

	var (
		games map[string]domain.GameInfo
		icons map[string]string
	)

	// The two batch calls are independent; a failure in one leaves the
	// other's fields intact.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.api.GetGames(gctx, unique)
		if err != nil {
			log.Warnf("games lookup failed for %d universes: %v", len(unique), err)
			return nil
		}
		games = result
		return nil
	})
	g.Go(func() error {
		result, err := s.api.GetIcons(gctx, unique)
		if err != nil {
			log.Warnf("icon lookup failed for %d universes: %v", len(unique), err)
			return nil
		}
		icons = result
		return nil
	})
	_ = g.Wait()

	stats := make([]domain.GameStat, 0, len(placeIDs))
	for i, placeID := range placeIDs {
		stat := domain.GameStat{
			InputID:    placeID,
			UniverseID: universeIDs[i],
		}

		if info, ok := games[stat.UniverseID]; ok {
			if info.Name != "" {
				name := info.Name
				stat.Name = &name
			}
			if info.Visits != nil {
				visits := *info.Visits
				stat.VisitCount = &visits
			}
		}

		if iconURL, ok := icons[stat.UniverseID]; ok {
			stat.IconURL = &iconURL
		}

		stats = append(stats, stat)
	}

	// Each universe counts once toward the total, however many input IDs
	// resolved to it. Missing or non-numeric counts contribute nothing.
	var totalVisits int64
	for _, universeID := range unique {
		if info, ok := games[universeID]; ok && info.Visits != nil {
			totalVisits += *info.Visits
		}
	}

	return stats, totalVisits, nil
}

// resolveAll maps each place ID to its universe ID, falling back to the
// place ID itself when the lookup fails. Lookups for distinct place IDs are
// independent, so they run under a bounded group; duplicates share one call.
func (s *GamesService) resolveAll(ctx context.Context, placeIDs []string) []string {
	resolved := make(map[string]string, len(placeIDs))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(resolveWorkers)

	for _, placeID := range dedupe(placeIDs) {
		g.Go(func() error {
			universeID, err := s.api.ResolveUniverse(ctx, placeID)
			if err != nil {
				// Silent degradation: the place ID doubles as the
				// canonical ID downstream.
				log.Debugf("universe lookup failed for place %s: %v", placeID, err)
				universeID = placeID
			}

			mu.Lock()
			resolved[placeID] = universeID
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	universeIDs := make([]string, len(placeIDs))
	for i, placeID := range placeIDs {
		universeIDs[i] = resolved[placeID]
	}
	return universeIDs
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
