package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/scroll"
)

type windowFlags struct {
	length     int
	itemExtent float64
	viewport   float64
	offset     float64
	overscan   int
}

// windowCommand creates the window command, a calculator for the
// virtualized scroll window.
func (c *CLI) windowCommand() *cobra.Command {
	f := windowFlags{itemExtent: chart.DefaultItemExtent, overscan: chart.DefaultOverscan}

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Compute the visible window of a virtualized list",
		Example: `  chartcore window --length 10000 --viewport 600 --offset 4800
  chartcore window --length 50 --item-extent 10 --viewport 50 --offset 200 --overscan 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := scroll.ComputeWindow(f.length, f.itemExtent, f.viewport, f.offset, f.overscan)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("computed window", "offset", w.Offset, "size", w.Size)
			printWindow(cmd.OutOrStdout(), w, scroll.Position(w, f.itemExtent, f.offset))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.length, "length", "n", 0, "number of items")
	fl.Float64Var(&f.itemExtent, "item-extent", f.itemExtent, "pixels per item")
	fl.Float64Var(&f.viewport, "viewport", 0, "viewport extent in pixels")
	fl.Float64Var(&f.offset, "offset", 0, "scroll offset in pixels")
	fl.IntVar(&f.overscan, "overscan", f.overscan, "extra items on each side")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("viewport")

	return cmd
}

func printWindow(w io.Writer, win scroll.Window, position float64) {
	printKeyValue(w, "offset", strconv.Itoa(win.Offset))
	printKeyValue(w, "size", strconv.Itoa(win.Size))
	if win.Size > 0 {
		printKeyValue(w, "items", fmt.Sprintf("%d..%d", win.Offset, win.End()-1))
	} else {
		printKeyValue(w, "items", "none")
	}
	printKeyValue(w, "position", strconv.FormatFloat(position, 'f', -1, 64))
}
