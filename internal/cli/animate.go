package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// animateCommand creates the animate command, which plays a transition in
// the terminal.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		f       chartFlags
		frames  int
		fps     int
		loop    bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "animate [data.csv|data.json] --previous [prev.csv]",
		Short: "Play the transition between two datasets in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			opts.Frames = frames
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}
			return c.runAnimate(cmd.Context(), opts, time.Second/time.Duration(fps), loop, noCache)
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 30, "frames to sample")
	cmd.Flags().IntVar(&fps, "fps", 24, "playback speed")
	cmd.Flags().BoolVar(&loop, "loop", false, "restart when the transition ends")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	f.register(cmd)
	registerChartCompletions(cmd)

	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, opts pipeline.Options, interval time.Duration, loop, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Loading data...")
	spinner.Start()
	cur, prev, _, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.SetMessage("Computing frames...")
	ch, sc, _, _, err := runner.LayoutWithCacheInfo(ctx, cur, prev, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	frames := pipeline.Scenes(ch, sc, opts)
	spinner.StopWithSuccess(fmt.Sprintf("Prepared %d frames", len(frames)))

	title := fmt.Sprintf("%s chart · %d records", ch.Config().Type, len(cur))
	model := NewAnimationModel(title, frames, interval)
	model.Loop = loop

	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
