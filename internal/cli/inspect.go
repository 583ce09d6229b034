package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/pkg/deck"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		offsets []float64
		pages   []int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [deck.toml]",
		Short: "Print the per-card transforms of the fan",
		Long: `Print, for each requested offset, every card's path, progress and
transform components, plus the stacking order.

Offsets are fed through one engine in order, so a drag can be replayed
step by step: --offset 250,300,400 shows the card being swiped change path.`,
		Example: `  cardfan inspect --page 2
  cardfan inspect deck.toml --offset 0,125,250 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeck(args)
			if err != nil {
				return err
			}
			for _, off := range offsets {
				if err := apperrors.ValidateOffset(off); err != nil {
					return err
				}
			}
			opts := pipeline.Options{Offsets: offsets, Pages: pages}
			resolved, err := opts.ResolveOffsets(d.Geometry())
			if err != nil {
				return err
			}
			frames, err := pipeline.ComputeFrames(d, resolved)
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				return apperrors.New(apperrors.ErrCodeInvalidDeck, "card size is zero, nothing to inspect")
			}
			return writeInspection(cmd.OutOrStdout(), d, frames, asJSON)
		},
	}

	cmd.Flags().Float64SliceVar(&offsets, "offset", nil, "scroll offsets in points (repeatable)")
	cmd.Flags().IntSliceVar(&pages, "page", nil, "pages to inspect at rest (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print frames as JSON")

	return cmd
}

func writeInspection(w io.Writer, d *deck.Deck, frames []fan.Frame, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(frames)
	}
	for i, frame := range frames {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, frameHeading(frame))
		fmt.Fprintln(w, frameTable(d, frame))
	}
	return nil
}

// =============================================================================
// Frame Formatting
// =============================================================================

func frameHeading(frame fan.Frame) string {
	return StyleTitle.Render(fmt.Sprintf("offset %.1f", frame.OffsetX)) +
		StyleDim.Render(fmt.Sprintf("  page %.3f · front card %d · swipe index %d",
			frame.OffsetPercent, frame.CurrentIndex, frame.Swipe.Index))
}

// frameTable renders one row per card. Z is the stacking position, 0 being
// the backmost card.
func frameTable(d *deck.Deck, frame fan.Frame) string {
	z := zPositions(frame)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(frame.Cards))
	for i, cf := range frame.Cards {
		label, color := cardLabel(d, cf.Index)
		hidden := ""
		if cf.Hidden {
			hidden = "hidden"
		}
		rows[i] = []string{
			strconv.Itoa(cf.Index),
			swatch(color, " "+label+" "),
			cf.Path.String(),
			fmt.Sprintf("%+.3f", cf.Progress),
			fmt.Sprintf("%+.1f", cf.TranslateX),
			fmt.Sprintf("%.3f", cf.Scale),
			fmt.Sprintf("%+.1f°", cf.Rotation*180/math.Pi),
			strconv.Itoa(z[cf.Index]),
			hidden,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Card", "Path", "Progress", "Translate", "Scale", "Rotation", "Z", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(frame.Cards) || col == 1 {
				return lipgloss.NewStyle()
			}
			cf := frame.Cards[row]
			switch {
			case cf.Index == frame.CurrentIndex:
				return StyleHighlight
			case cf.Hidden:
				return StyleDim
			case cf.Path != fan.PathStandard:
				return StyleWarning
			}
			return StyleNumber
		})
	return t.Render()
}

func zPositions(frame fan.Frame) map[int]int {
	z := make(map[int]int, len(frame.Order))
	for pos, idx := range frame.Order {
		z[idx] = pos
	}
	return z
}

func cardLabel(d *deck.Deck, i int) (label, color string) {
	if i < 0 || i >= len(d.Cards) {
		return strconv.Itoa(i), deck.DefaultColor
	}
	return d.Cards[i].Label, d.Cards[i].Color
}
