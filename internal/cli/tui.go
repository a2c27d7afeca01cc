package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/transition"
)

var (
	tuiKeyStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	tuiDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	tuiExitStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	defaultTUIWidth = 80
	labelWidth      = 12
)

// =============================================================================
// AnimationModel - Terminal playback of a transition
// =============================================================================

// tickMsg advances playback by one frame.
type tickMsg time.Time

// AnimationModel is the bubbletea model that plays precomputed frames.
// Rectangles are drawn as horizontal bars, points and vertices as
// coordinates.
type AnimationModel struct {
	Title    string
	Frames   []chart.Scene
	Index    int
	Playing  bool
	Loop     bool
	Interval time.Duration
	Width    int
}

// NewAnimationModel starts playback from the first frame.
func NewAnimationModel(title string, frames []chart.Scene, interval time.Duration) AnimationModel {
	return AnimationModel{
		Title:    title,
		Frames:   frames,
		Playing:  len(frames) > 1,
		Interval: interval,
		Width:    defaultTUIWidth,
	}
}

func (m AnimationModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m AnimationModel) Init() tea.Cmd {
	if m.Playing {
		return m.tick()
	}
	return nil
}

func (m AnimationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Frames) - 1
	switch msg := msg.(type) {
	case tickMsg:
		if !m.Playing {
			return m, nil
		}
		if m.Index < last {
			m.Index++
		} else if m.Loop {
			m.Index = 0
		}
		if m.Index == last && !m.Loop {
			m.Playing = false
			return m, nil
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.Index == last && !m.Playing {
				m.Index = 0
			}
			m.Playing = !m.Playing
			if m.Playing {
				return m, m.tick()
			}
		case "left", "h":
			m.Playing = false
			m.Index = max(m.Index-1, 0)
		case "right", "l":
			m.Playing = false
			m.Index = min(m.Index+1, max(last, 0))
		case "r":
			m.Index = 0
			m.Playing = true
			return m, m.tick()
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, labelWidth+10)
	}
	return m, nil
}

func (m AnimationModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("space play/pause  ←/→ step  r restart  q quit"))
	b.WriteString("\n\n")

	if len(m.Frames) == 0 {
		b.WriteString(tuiDimStyle.Render("no frames"))
		return b.String()
	}
	sc := m.Frames[m.Index]
	b.WriteString(renderScene(sc, m.Width))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("frame %d/%d  t=%.2f", m.Index+1, len(m.Frames), sc.Fraction)))
	return b.String()
}

// renderScene draws one scene as text, one line per item in paint order.
func renderScene(sc chart.Scene, width int) string {
	barSpace := max(width-labelWidth-2, 1)
	extent := 0.0
	for _, it := range sc.Items {
		extent = math.Max(extent, barLength(it))
	}

	var b strings.Builder
	for _, it := range sc.Items {
		label := tuiKeyStyle.Width(labelWidth).MaxWidth(labelWidth).Render(it.Key)
		var body string
		if it.Geometry.IsRect() {
			n := 0
			if extent > 0 {
				n = int(math.Round(barLength(it) / extent * float64(barSpace)))
			}
			body = strings.Repeat("█", n)
		} else {
			body = fmt.Sprintf("(%.1f, %.1f)", it.Geometry.X, it.Geometry.Y)
		}
		style := styleBar
		if it.Transition == transition.Exit {
			style = tuiExitStyle
		}
		if it.Opacity < 0.5 {
			style = style.Faint(true)
		}
		b.WriteString(label + " " + style.Render(body) + "\n")
	}
	return b.String()
}

// barLength is the painted length of a rectangle along its value axis.
func barLength(it chart.Item) float64 {
	if !it.Geometry.IsRect() {
		return 0
	}
	if it.Geometry.Horizontal {
		return it.Geometry.Width
	}
	return it.Geometry.Height
}
