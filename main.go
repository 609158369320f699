package main

import (
	"os"

	"github.com/fralonra/Shape-Z-sub000/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width (overrides the scene file)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height (overrides the scene file)",
		},
	}

	app := cli.NewApp()
	app.Name = "shapez"
	app.Usage = "edit and render voxel scenes using path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Description: `
Load a voxel scene from a yaml file and progressively path trace it for the
requested number of iterations. The converged frame is written as a png image.

Interrupting the render saves the partially converged frame.`,
			ArgsUsage: "scene.yaml",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "iterations, i",
					Usage: "accumulation passes (overrides the scene file)",
				},
				cli.IntFlag{
					Name:  "bounces",
					Usage: "indirect bounces per path (overrides the scene file)",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of cpu tracers; defaults to the number of cpus",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed for reproducible renders",
				},
				cli.BoolFlag{
					Name:  "no-quantize",
					Usage: "disable palette quantization of the primary hit color",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, frameFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "preview",
			Usage: "render a material thumbnail",
			Description: `
Render a palette material on a lit sphere. The palette is read from the
optional scene file; otherwise the default palette is used.`,
			ArgsUsage: "[scene.yaml]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "material, m",
					Value: 1,
					Usage: "palette index of the material",
				},
				cli.IntFlag{
					Name:  "size",
					Value: 128,
					Usage: "thumbnail width and height",
				},
				cli.IntFlag{
					Name:  "samples",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed for reproducible renders",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "preview.png",
					Usage: "image filename for the thumbnail",
				},
			},
			Action: cmd.RenderPreview,
		},
		{
			Name:      "pick",
			Usage:     "report the voxel under a pixel",
			ArgsUsage: "scene.yaml",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "x",
					Usage: "pixel column",
				},
				cli.IntFlag{
					Name:  "y",
					Usage: "pixel row",
				},
			}, frameFlags...),
			Action: cmd.Pick,
		},
		{
			Name:      "info",
			Usage:     "print chunk and voxel statistics for a scene",
			ArgsUsage: "scene.yaml",
			Action:    cmd.ShowSceneInfo,
		},
	}

	app.Run(os.Args)
}
