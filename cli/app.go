// Package cli contains the meshindex command line tool, which builds a mesh and exercises its spatial index.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	generalFlagConfig       = "config"
	generalFlagDebug        = "debug"
	generalFlagSubdivisions = "subdivisions"
	generalFlagRadius       = "radius"

	raycastFlagOrigin    = "origin"
	raycastFlagDirection = "direction"

	brushFlagCenter = "center"
	brushFlagRadius = "brush-radius"
	brushFlagDelta  = "delta"
	brushFlagList   = "list"
)

var app = &cli.App{
	Name:            "meshindex",
	Usage:           "build a sphere mesh and query or edit it through its octree",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    generalFlagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.IntFlag{
			Name:  generalFlagSubdivisions,
			Value: 3,
			Usage: "number of times the icosahedron faces are split",
		},
		&cli.Float64Flag{
			Name:  generalFlagRadius,
			Value: 1,
			Usage: "radius of the sphere",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "stats",
			Usage:  "print the shape of the octree",
			Action: StatsAction,
		},
		{
			Name:  "raycast",
			Usage: "find the face nearest along a ray",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  raycastFlagOrigin,
					Value: "0,0,5",
					Usage: "ray origin as `x,y,z`",
				},
				&cli.StringFlag{
					Name:  raycastFlagDirection,
					Value: "0,0,-1",
					Usage: "ray direction as `x,y,z`",
				},
			},
			Action: RaycastAction,
		},
		{
			Name:  "brush",
			Usage: "select geometry in a sphere and optionally displace it as an undoable edit",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     brushFlagCenter,
					Required: true,
					Usage:    "brush center as `x,y,z`",
				},
				&cli.Float64Flag{
					Name:  brushFlagRadius,
					Value: 0.25,
					Usage: "brush radius",
				},
				&cli.StringFlag{
					Name:  brushFlagDelta,
					Usage: "displacement as `x,y,z`",
				},
				&cli.BoolFlag{
					Name:  brushFlagList,
					Usage: "list the selected vertex IDs",
				},
			},
			Action: BrushAction,
		},
	},
}

// NewApp returns the CLI application writing to the given streams.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
