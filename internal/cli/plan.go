package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		f       chartFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "plan [data.csv|data.json] --previous [prev.csv]",
		Short: "Show the enter/update/exit plan between two datasets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), cmd.OutOrStdout(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	f.register(cmd)
	registerChartCompletions(cmd)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, w io.Writer, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	cur, prev, _, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	ch, _, _, _, err := runner.LayoutWithCacheInfo(ctx, cur, prev, opts)
	if err != nil {
		return err
	}
	enter, update, exit := ch.Plan().Counts()
	prog.done(fmt.Sprintf("Planned %d entries", ch.Plan().Len()))

	fmt.Fprintln(w, renderPlan(ch.Plan()))
	fmt.Fprintf(w, "%s %s %s\n",
		planStyle(transition.Enter).Render(fmt.Sprintf("+%d enter", enter)),
		planStyle(transition.Update).Render(fmt.Sprintf("~%d update", update)),
		planStyle(transition.Exit).Render(fmt.Sprintf("-%d exit", exit)))
	return nil
}

// renderPlan formats plan entries as a table.
func renderPlan(p *transition.Plan) string {
	rows := make([][]string, 0, p.Len())
	if p != nil {
		for _, e := range p.Entries {
			rows = append(rows, []string{e.Key, string(e.Kind), describeShape(e.From), describeShape(e.To)})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Kind", "From", "To").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(rows) {
				return planStyle(transition.Kind(rows[row][1]))
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// describeShape summarizes a shape's geometry in one short string.
func describeShape(s *layout.Shape) string {
	if s == nil {
		return "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f,%.1f", s.X, s.Y)
	switch {
	case s.IsRect():
		fmt.Fprintf(&b, " %.1f×%.1f", s.Width, s.Height)
	case s.Radius > 0:
		fmt.Fprintf(&b, " r%.1f", s.Radius)
	}
	return b.String()
}
