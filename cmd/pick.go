package cmd

import (
	"bytes"
	"fmt"

	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var hitKindNames = map[voxel.HitKind]string{
	voxel.Miss:      "miss",
	voxel.BoundsHit: "bounds",
	voxel.VoxelHit:  "voxel",
}

// Cast the camera ray through a pixel and report what it hits.
func Pick(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	w, h := float32(cfg.Render.Width), float32(cfg.Render.Height)
	x, y := float32(ctx.Int("x")), float32(ctx.Int("y"))
	if x < 0 || y < 0 || x >= w || y >= h {
		return errors.Errorf("pixel (%d, %d) outside the %dx%d frame", ctx.Int("x"), ctx.Int("y"), cfg.Render.Width, cfg.Render.Height)
	}

	// Sample through the pixel center.
	hit := sc.Pick(types.XY((x+0.5)/w, (y+0.5)/h), types.XY(w, h))
	logger.Noticef("pick result\n%s", formatHit(hit))
	return nil
}

func formatHit(hit voxel.HitRecord) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Kind", hitKindNames[hit.Kind]})
	if hit.Kind != voxel.Miss {
		table.Append([]string{"Point", fmt.Sprintf("%.4f", hit.Point)})
		table.Append([]string{"Face", hit.Face.String()})
		table.Append([]string{"Distance", fmt.Sprintf("%.4f", hit.Distance)})
	}
	if hit.Kind == voxel.VoxelHit {
		table.Append([]string{"Material", fmt.Sprintf("%d", hit.Material)})
		table.Append([]string{"Chunk", hit.Chunk.String()})
		table.Append([]string{"Local", hit.Local.String()})
		table.Append([]string{"Density", fmt.Sprintf("%d", hit.Density)})
	}
	table.Render()
	return buf.String()
}
