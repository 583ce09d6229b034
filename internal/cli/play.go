package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/host"
	"github.com/matzehuels/cardfan/pkg/scroll"
)

// dragStep is the share of a page one arrow key press drags.
const dragStep = 0.1

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "play [deck.toml]",
		Short: "Drive the fan interactively in the terminal",
		Long: `Drive the fan with the keyboard. Arrow keys drag the scroll surface by a
tenth of a page, enter releases the drag and snaps to the nearest page, and
shift+arrow flicks to the neighbouring page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeck(args)
			if err != nil {
				return err
			}
			m := newPlayModel(d, loggerFromContext(cmd.Context()))
			m.surface.ScrollToPage(page)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "start page")

	return cmd
}

// =============================================================================
// Terminal Cards
// =============================================================================

// termCard is a card surface that records what the fan pushed to it.
type termCard struct {
	index     int
	transform fan.Transform
	hidden    bool
	progress  float64
}

func (c *termCard) SetTransform(t fan.Transform) { c.transform = t }
func (c *termCard) SetHidden(hidden bool)        { c.hidden = hidden }

// termStack keeps the attached cards back to front.
type termStack struct {
	cards []host.Surface
}

func (s *termStack) Attach(c host.Surface) { s.cards = append(s.cards, c) }

func (s *termStack) Detach(c host.Surface) {
	s.cards = slices.DeleteFunc(s.cards, func(x host.Surface) bool { return x == c })
}

func (s *termStack) BringToFront(c host.Surface) {
	s.Detach(c)
	s.Attach(c)
}

// =============================================================================
// PlayModel
// =============================================================================

// playModel is the bubbletea model of the play command.
type playModel struct {
	deck    *deck.Deck
	fan     *host.Fan
	surface *scroll.Surface
	stack   *termStack
	width   int
}

func newPlayModel(d *deck.Deck, logger *log.Logger) playModel {
	surface := scroll.New(0)
	stack := &termStack{}
	f := host.New(stack,
		host.WithConfig(d.FanConfig()),
		host.WithScroller(surface),
		host.WithLogger(logger),
		host.WithStylizer(func(s host.Surface, _ int, p float64) {
			s.(*termCard).progress = p
		}),
	)
	f.SetViewSize(d.Fan.ViewWidth, d.Fan.ViewHeight)

	surfaces := make([]host.Surface, len(d.Cards))
	for i := range surfaces {
		surfaces[i] = &termCard{index: i}
	}
	f.SetCards(surfaces)
	surface.Subscribe(f)

	return playModel{deck: d, fan: f, surface: surface, stack: stack, width: 72}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	pw := m.surface.PageWidth()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.surface.Drag(pw * dragStep)
		case "left", "h":
			m.surface.Drag(-pw * dragStep)
		case "enter", " ":
			m.surface.EndDrag(0)
		case "shift+right", "L":
			m.surface.EndDrag(scroll.FlickVelocity)
		case "shift+left", "H":
			m.surface.EndDrag(-scroll.FlickVelocity)
		case "home", "r":
			m.surface.EndDrag(0)
			m.surface.ScrollToPage(0)
		case "end":
			m.surface.EndDrag(0)
			m.surface.ScrollToPage(m.surface.Pages() - 1)
		}
	case tea.WindowSizeMsg:
		m.width = max(24, msg.Width-4)
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Card Fan"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ drag  ⏎ release  shift+←/→ flick  r reset  q quit"))
	b.WriteString("\n\n")

	frame, ok := m.fan.Frame()
	if !ok {
		b.WriteString(StyleWarning.Render("card size is zero, nothing to show"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.strip(frame.OffsetX))
	b.WriteString("\n")
	b.WriteString(frameHeading(frame))
	if m.surface.Dragging() {
		b.WriteString(StyleDim.Render(" · dragging"))
	}
	b.WriteString("\n")
	b.WriteString(frameTable(m.deck, frame))
	b.WriteString("\n")
	return b.String()
}

// stripRows is the height of the strip at full card scale.
const stripRows = 5

// strip draws the visible cards back to front as colored blocks, sized by
// their scale and placed by their on-screen center.
func (m playModel) strip(offsetX float64) string {
	viewWidth := m.deck.Fan.ViewWidth
	cardWidth := m.deck.Fan.CardWidth
	cols := m.width

	grid := make([][]int, stripRows)
	for r := range grid {
		grid[r] = slices.Repeat([]int{-1}, cols)
	}

	for _, s := range m.stack.cards {
		card := s.(*termCard)
		if card.hidden {
			continue
		}
		scale := math.Hypot(card.transform.A, card.transform.D)
		center := (card.transform.C-offsetX)/viewWidth*float64(cols) + float64(cols)/2
		half := scale * cardWidth / viewWidth * float64(cols) / 2
		rows := max(1, int(math.Round(scale*stripRows)))
		top := (stripRows - rows) / 2
		for col := int(math.Round(center - half)); col < int(math.Round(center+half)); col++ {
			if col < 0 || col >= cols {
				continue
			}
			for r := top; r < top+rows; r++ {
				grid[r][col] = card.index
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for col := 0; col < cols; {
			idx := row[col]
			run := 1
			for col+run < cols && row[col+run] == idx {
				run++
			}
			if idx < 0 {
				b.WriteString(strings.Repeat(" ", run))
			} else {
				_, color := cardLabel(m.deck, idx)
				b.WriteString(swatch(color, fitLabel(fmt.Sprint(idx), run)))
			}
			col += run
		}
		b.WriteString("\n")
	}
	return b.String()
}

// fitLabel centers label in width cells, dropping it if it does not fit.
func fitLabel(label string, width int) string {
	if len(label) > width {
		return strings.Repeat(" ", width)
	}
	left := (width - len(label)) / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", width-left-len(label))
}
