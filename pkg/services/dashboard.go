package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"cms-console/pkg/models"

	"golang.org/x/sync/errgroup"
)

const dashboardConcurrency = 4

// Tile is one counter on the dashboard. Available is false when the
// backend could not be asked.
type Tile struct {
	Label     string
	Value     int
	Available bool
}

type DashboardService struct {
	gw     *Gateway
	logger *slog.Logger
}

func NewDashboardService(gw *Gateway, logger *slog.Logger) *DashboardService {
	return &DashboardService{gw: gw, logger: logger}
}

// Tiles counts every listable resource concurrently. A failing resource
// yields an unavailable tile instead of failing the dashboard, except for a
// rejected token, which is returned.
func (s *DashboardService) Tiles(ctx context.Context, token string, resources []models.Resource) ([]Tile, error) {
	tiles := make([]Tile, 0, len(resources)+1)
	var listable []models.Resource
	for _, r := range resources {
		if r.Supports(models.OpList) {
			listable = append(listable, r)
		}
	}

	results := make([]Tile, len(listable))
	var activeQuestions *Tile

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, r := range listable {
		results[i] = Tile{Label: r.DisplayLabel()}
		if r.Name == ResourceQuestions {
			activeQuestions = &Tile{Label: "Active Questions"}
		}
		g.Go(func() error {
			env, err := s.gw.List(gctx, token, r.Name)
			if err != nil {
				if IsUnauthorized(err) {
					return err
				}
				s.logger.WarnContext(gctx, "dashboard count failed", "resource", r.Name, "error", err)
				return nil
			}
			if r.Name == ResourceQuestions {
				questions, err := DecodeList[models.Question](env)
				if err != nil {
					s.logger.WarnContext(gctx, "dashboard count failed", "resource", r.Name, "error", err)
					return nil
				}
				stats := CountQuestions(questions)
				results[i].Value, results[i].Available = stats.Total, true
				activeQuestions.Value, activeQuestions.Available = stats.Active, true
				return nil
			}
			items, err := DecodeList[json.RawMessage](env)
			if err != nil {
				s.logger.WarnContext(gctx, "dashboard count failed", "resource", r.Name, "error", err)
				return nil
			}
			results[i].Value, results[i].Available = len(items), true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tiles = append(tiles, results...)
	if activeQuestions != nil {
		tiles = append(tiles, *activeQuestions)
	}
	return tiles, nil
}
