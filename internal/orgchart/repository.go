package orgchart

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/jobarch/internal/profiles"
)

type repo struct {
	profiles profiles.System
	logger   *slog.Logger
}

func New(profiles profiles.System, logger *slog.Logger) System {
	return &repo{
		profiles: profiles,
		logger:   logger.With("system", "orgchart"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Graph(ctx context.Context, family string) (*Graph, error) {
	rows, err := r.profiles.Family(ctx, family)
	if err != nil {
		return nil, err
	}

	g := Build(rows, family)
	r.logger.Debug("graph built", "family", family, "nodes", len(g.Nodes))
	return &g, nil
}
