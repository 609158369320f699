package cmd

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene grid info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	sc, err := cfg.Build()
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sceneStats(sc))
	return nil
}

type chunkRow struct {
	coord   types.IVec3
	density int
	count   int
	usage   map[voxel.MaterialID]int
}

func sceneStats(sc *scene.Scene) string {
	var rows []chunkRow
	sc.View(func(sc *scene.Scene) {
		sc.Grid.Chunks(func(c types.IVec3, ch *voxel.Chunk) bool {
			row := chunkRow{coord: c, density: ch.Density(), count: ch.Count(), usage: make(map[voxel.MaterialID]int)}
			ch.ForEach(func(_ types.IVec3, m voxel.MaterialID) bool {
				row.usage[m]++
				return true
			})
			rows = append(rows, row)
			return true
		})
	})

	// Map iteration order is random.
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].coord, rows[j].coord
		for axis := 2; axis >= 0; axis-- {
			if a[axis] != b[axis] {
				return a[axis] < b[axis]
			}
		}
		return false
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Chunk", "Density", "Voxels", "Materials"})

	total := 0
	for _, row := range rows {
		ids := make([]int, 0, len(row.usage))
		for m := range row.usage {
			ids = append(ids, int(m))
		}
		sort.Ints(ids)

		table.Append([]string{
			row.coord.String(),
			fmt.Sprintf("%d", row.density),
			fmt.Sprintf("%d", row.count),
			fmt.Sprintf("%v", ids),
		})
		total += row.count
	}
	table.SetFooter([]string{fmt.Sprintf("%d chunks", len(rows)), "", fmt.Sprintf("%d", total), fmt.Sprintf("undo depth %d", sc.Grid.UndoDepth())})
	table.Render()
	return buf.String()
}
