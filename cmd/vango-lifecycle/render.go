package main

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lifecycle/internal/config"
	"github.com/vango-dev/lifecycle/internal/demo"
	"github.com/vango-dev/lifecycle/internal/export"
	"github.com/vango-dev/lifecycle/pkg/render"
)

type renderOptions struct {
	pretty     bool
	hydratable bool
	page       bool
	out        string
	delay      time.Duration
	timeout    time.Duration
}

func renderCmd(dir *string) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Server render the demo tree",
		Long: `Server render the demo tree. The renderer waits for suspended
components, so the output never holds a fallback.

Without --out the markup goes to stdout. A relative --out path is
written below export.dir, an s3://bucket/key URL is uploaded.

Examples:
  vango-lifecycle render --pretty
  vango-lifecycle render --page --out=index.html
  vango-lifecycle render --hydratable --out=s3://pages/demo.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = cfg.Render.Pretty
			}
			if !cmd.Flags().Changed("hydratable") {
				opts.hydratable = cfg.Render.Hydratable
			}
			return runRender(cmd, cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&opts.hydratable, "hydratable", false, "Write component markers and prepared state")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Render a full HTML document")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Destination file or s3:// URL")
	cmd.Flags().DurationVar(&opts.delay, "delay", 50*time.Millisecond, "How long the quote takes to load")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Maximum time to wait for suspended components")
	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, opts renderOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	r := render.NewRenderer(render.RendererConfig{
		Pretty:     opts.pretty,
		Hydratable: opts.hydratable,
	}, nil)
	tree := demo.App.Node(demo.AppProps{Title: cfg.Name, QuoteDelay: opts.delay})

	var buf bytes.Buffer
	var err error
	if opts.page {
		err = r.RenderPage(ctx, &buf, render.PageData{Title: cfg.Name, Body: tree})
	} else {
		err = r.RenderToWriter(ctx, &buf, tree)
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	store, name, err := export.Resolve(opts.out, cfg.Export)
	if err != nil {
		return err
	}
	location, err := store.Put(ctx, name, export.ContentType(name), &buf)
	if err != nil {
		return err
	}
	success(cmd.ErrOrStderr(), "Rendered to %s", location)
	return nil
}
