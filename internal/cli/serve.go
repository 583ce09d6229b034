package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/pkg/pipeline"
	"github.com/matzehuels/cardfan/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags renderFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [deck.toml]",
		Short: "Preview the fan in a browser",
		Long: `Serve a preview page with an offset slider, plus the frame endpoints
behind it. Render flags set the defaults that requests can override.`,
		Example: `  cardfan serve deck.toml --addr :8080 --style shaded`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeck(args)
			if err != nil {
				return err
			}

			var defaults pipeline.Options
			flags.apply(&defaults, c.Config.Render)
			defaults.SetRenderDefaults()
			if err := defaults.ValidateForRender(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = firstNonEmpty(c.Config.Server.Addr, server.DefaultAddr)
			}
			srv := server.New(d, runner,
				server.WithLogger(c.Logger),
				server.WithRenderDefaults(defaults),
			)
			printInfo("Previewing %s at %s", deckName(args), StyleLink.Render("http://"+addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd, "")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")

	return cmd
}
