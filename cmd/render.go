package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fralonra/Shape-Z-sub000/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a scene progressively and save the converged frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	opts := cfg.Options()
	r, err := renderer.NewCPU(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d iterations", opts.FrameW, opts.FrameH, opts.Iterations)
	start := time.Now()
	renderErr := r.Render(sigCtx, opts.Iterations)
	if renderErr != nil && renderErr != renderer.ErrInterrupted {
		return renderErr
	}
	if renderErr == renderer.ErrInterrupted {
		logger.Warningf("interrupted after %d iterations; saving partial frame", r.Iteration())
	}
	logger.Infof("rendered %d iterations in %s", r.Iteration(), time.Since(start))

	// Display stats
	displayFrameStats(r.Stats())

	imgFile := ctx.String("out")
	if err = writePNG(imgFile, r.Frame()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	return renderErr
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Rows", "% of frame", "Render time", "Rows/sec"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d-%d", stat.BlockY, stat.BlockY+stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
			fmt.Sprintf("%.1f", stat.RowsPerSecond()),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("iteration %d", stats.Iteration),
		"",
		"TOTAL",
		stats.RenderTime.String(),
		fmt.Sprintf("%.0f samples/sec", stats.SamplesPerSecond()),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
