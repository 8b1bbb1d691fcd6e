package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/jobarch/internal/api"
	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/openapi"
)

func pathFlags(cmd *cobra.Command, p *profiles.Path) {
	cmd.Flags().StringVar(&p.Family, "family", "", "Job family")
	cmd.Flags().StringVar(&p.SubFamily, "sub-family", "", "Sub job family")
	cmd.Flags().StringVar(&p.Profile, "profile", "", "Job profile")
}

func newFamiliesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List job families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			o, err := e.domain.Profiles.Options(cmd.Context(), profiles.Path{})
			if err != nil {
				return err
			}
			for _, f := range o.Families {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newOptionsCmd(opts *options) *cobra.Command {
	var path profiles.Path
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the drop-down values for a partial selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			o, err := e.domain.Profiles.Options(cmd.Context(), path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), o)
		},
	}
	pathFlags(cmd, &path)
	return cmd
}

func newResolveCmd(opts *options) *cobra.Command {
	var path profiles.Path
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the profile at a complete family, sub-family and profile path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, err := e.domain.Profiles.Resolve(cmd.Context(), path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
	pathFlags(cmd, &path)
	return cmd
}

func newDecksCmd(opts *options) *cobra.Command {
	var path profiles.Path
	cmd := &cobra.Command{
		Use:   "decks",
		Short: "List infographic decks, optionally matched to a path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			sys := e.domain.Infographics
			if path == (profiles.Path{}) {
				files, err := sys.Index(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), files)
			}
			files, err := sys.ForPath(cmd.Context(), path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), files)
		},
	}
	pathFlags(cmd, &path)
	return cmd
}

func newSlidesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slides <id>",
		Short: "Print the extracted slides of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid deck id: %w", err)
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			_, s, err := e.domain.Infographics.Slides(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
}

func newOrgChartCmd(opts *options) *cobra.Command {
	var family, format string
	cmd := &cobra.Command{
		Use:   "orgchart",
		Short: "Export the org chart as JSON or Graphviz DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "dot" {
				return fmt.Errorf("unknown format %q: want json or dot", format)
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			g, err := e.domain.OrgChart.Graph(cmd.Context(), family)
			if err != nil {
				return err
			}
			if format == "dot" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), g.DOT())
				return err
			}
			return writeJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "Restrict the chart to one job family")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or dot")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Rank profiles by the share of terms they contain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			matches, err := e.domain.Profiles.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), matches)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum matches; 0 uses the configured limit")
	return cmd
}

func newOpenAPICmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Write the OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			spec := api.Specification(e.cfg, e.domain)
			if out != "" {
				return openapi.WriteJSON(spec, out)
			}
			data, err := openapi.MarshalJSON(spec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

