package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/pkg/pipeline"
	"github.com/matzehuels/cardfan/pkg/scroll"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		offsets []float64
		pages   []int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render [deck.toml]",
		Short: "Render the fan at one or more scroll offsets",
		Long: `Render the fan at the given offsets (in points) and pages, in order.

Offsets are fed through one engine, so a sequence like --offset 0,120,200
renders the frames of a drag exactly as a scroll view would produce them.
Without --offset or --page the fan is rendered at rest on the first card.`,
		Example: `  cardfan render deck.toml --page 3 -f png -o fan
  cardfan render --offset 0,100,200 -f svg,json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Offsets: offsets, Pages: pages}
			deckOptions(&opts, args)
			flags.apply(&opts, c.Config.Render)
			return c.runRender(cmd, opts, flags.noCache, output)
		},
	}

	flags.register(cmd, "")
	cmd.Flags().Float64SliceVar(&offsets, "offset", nil, "scroll offsets in points (repeatable)")
	cmd.Flags().IntSliceVar(&pages, "page", nil, "pages to render at rest (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "fan", "output base path")

	return cmd
}

// animateCommand creates the animate command.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		flags  renderFlags
		tl     pipeline.Timeline
		tour   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "animate [deck.toml]",
		Short: "Render a swipe between pages as numbered frames",
		Example: `  cardfan animate deck.toml --from 0 --to 3 --steps 48 -o frames
  cardfan animate --tour --steps 12 -f webp`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{}
			deckOptions(&opts, args)
			flags.apply(&opts, c.Config.Render)

			if tour {
				d, err := loadDeck(args)
				if err != nil {
					return err
				}
				ease, err := (&pipeline.Timeline{Easing: tl.Easing}).Ease()
				if err != nil {
					return err
				}
				opts.Offsets = scroll.Tour(d.Geometry().PageWidth, len(d.Cards), tl.Steps, ease)
			} else {
				t := tl
				opts.Timeline = &t
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			return c.runRender(cmd, opts, flags.noCache, filepath.Join(output, "frame"))
		},
	}

	flags.register(cmd, "png")
	cmd.Flags().IntVar(&tl.From, "from", 0, "start page")
	cmd.Flags().IntVar(&tl.To, "to", 1, "end page")
	cmd.Flags().IntVar(&tl.Steps, "steps", pipeline.DefaultSteps, "frames per swipe")
	cmd.Flags().StringVar(&tl.Easing, "easing", "", "swipe easing (linear, sine, cubic, sigmoid; default linear)")
	cmd.Flags().BoolVar(&tour, "tour", false, "swipe through every card and back")
	cmd.Flags().StringVarP(&output, "output", "o", "frames", "output directory")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, noCache bool, base string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Rendering frames...")
	spin.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result, base)
	if err != nil {
		return err
	}
	prog.done("Rendered "+plural(len(result.Frames), "frame"), "bytes", result.Stats.Bytes)

	printSuccess("Rendered %s of %s", plural(len(result.Frames), "frame"), plural(result.Stats.Cards, "card"))
	printStats(result.Stats.Frames, result.Stats.Cards, result.CacheInfo.FramesHit && result.CacheInfo.RenderHits == len(result.Frames))
	const maxListed = 8
	for i, p := range paths {
		if i == maxListed {
			printDetail("... and %d more", len(paths)-maxListed)
			break
		}
		printFile(p)
	}
	return nil
}

// writeArtifacts writes every artifact of result next to base. A single
// frame is written as base.<format>, several as base-NNN.<format>.
func writeArtifacts(result *pipeline.Result, base string) ([]string, error) {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var paths []string
	for i, artifacts := range result.Artifacts {
		for _, format := range sortedFormats(artifacts) {
			path := base + "." + format
			if len(result.Artifacts) > 1 {
				path = fmt.Sprintf("%s-%03d.%s", base, i, format)
			}
			if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
				return paths, fmt.Errorf("write %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func sortedFormats(artifacts map[string][]byte) []string {
	var out []string
	for _, f := range []string{"svg", "png", "webp", "json"} {
		if _, ok := artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
