package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lifecycle/internal/demo"
	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/render"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
)

func hydrateCmd(dir *string) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "hydrate",
		Short: "Server render the demo tree, then hydrate it",
		Long: `Server render the demo tree with hydration markers, hydrate the
markup and print every hook the hydrated instances ran, followed by
the resulting markup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			props := demo.AppProps{Title: cfg.Name, QuoteDelay: delay}
			r := render.NewRenderer(render.RendererConfig{Hydratable: true}, nil)
			markup, err := r.RenderToString(ctx, demo.App.Node(props))
			if err != nil {
				return err
			}

			container, err := dom.ParseFragment(markup, "div")
			if err != nil {
				return err
			}
			root := dom.NewElement("div")
			for _, n := range dom.Children(container) {
				container.RemoveChild(n)
				root.AppendChild(n)
			}

			props.Trace = &demo.Trace{}
			sched := scheduler.New(scheduler.WithLogger(logger))
			scope, err := bundle.Hydrate(sched, demo.App, root, props)
			if err != nil {
				return err
			}
			defer scope.Any().Destroy(false)

			markup, err = dom.RenderChildren(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, event := range props.Trace.Events() {
				info(out, "%s", event)
			}
			fmt.Fprintln(out, markup)
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 10*time.Millisecond, "How long the quote takes to load on the server")
	return cmd
}
