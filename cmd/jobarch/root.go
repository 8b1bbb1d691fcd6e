package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/jobarch/internal/api"
	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infrastructure"
)

type options struct {
	configDir string
}

// env is the configuration and domain shared by every subcommand.
type env struct {
	cfg    *config.Config
	domain *api.Domain
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "jobarch",
		Short:         "Browse the job architecture taxonomy",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configDir, "config", ".", "Directory holding config.toml and its overlays")

	cmd.AddCommand(
		newFamiliesCmd(opts),
		newOptionsCmd(opts),
		newResolveCmd(opts),
		newDecksCmd(opts),
		newSlidesCmd(opts),
		newOrgChartCmd(opts),
		newSearchCmd(opts),
		newOpenAPICmd(opts),
	)
	return cmd
}

func (o *options) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadFrom(o.configDir)
	if err != nil {
		return nil, err
	}

	infra, err := infrastructure.NewWithLogger(cfg, infrastructure.NewLogger(&cfg.Log, cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	domain := api.NewDomain(cfg, &api.Runtime{
		Infrastructure: infra,
		Pagination:     cfg.API.Pagination,
		SearchLimit:    cfg.API.SearchLimit,
	})
	return &env{cfg: cfg, domain: domain}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
