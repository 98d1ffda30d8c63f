package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/mapper"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/parser"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
)

// newCLIApp creates the CLI application with all commands. Snapshots are read
// from a file argument or, for "-", from stdin.
func newCLIApp(stdin io.Reader, stdout io.Writer) *cli.App {
	app := &cli.App{
		Name:      "planctl",
		Usage:     "Render and export captured room snapshots offline",
		Version:   Version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			renderCmd(),
			exportCmd(),
			bundleCmd(),
			inspectCmd(),
			sampleCmd(),
		},
	}
	// Errors are returned to the caller instead of exiting.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func unitsFlag() cli.Flag {
	return &cli.StringFlag{Name: "units", Aliases: []string{"u"}, Value: "metric", Usage: "Dimension labels: metric|imperial"}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"}
}

func rasterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "margin", Value: mapper.DefaultMargin, Usage: "Canvas margin in plan units"},
		&cli.StringFlag{Name: "background", Value: mapper.DefaultBackground, Usage: "Background colour (hex)"},
		&cli.StringFlag{Name: "accent", Value: mapper.DefaultAccent, Usage: "Object colour (hex)"},
	}
}

// renderCmd creates the render command.
func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Draw the 2D plan of a snapshot as SVG or PNG",
		ArgsUsage: "<snapshot|->",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "svg", Usage: "Image format: svg|png"},
			unitsFlag(),
			outFlag(),
		}, rasterFlags()...),
		Action: func(c *cli.Context) error {
			room, err := readSnapshot(c)
			if err != nil {
				return outputError(err)
			}
			renderer, err := newRenderer(c)
			if err != nil {
				return outputError(err)
			}
			plan := schematic.Build(room, planOptions(c))

			var buf bytes.Buffer
			switch format := c.String("format"); format {
			case "svg":
				buf.WriteString(renderer.SVG(plan))
			case "png":
				if err := renderer.PNG(&buf, plan); err != nil {
					return outputError(apperrors.NewExportFailed("png", err))
				}
			default:
				return outputError(apperrors.NewInvalidRequest("unsupported format: " + format))
			}
			return writeOutput(c, buf.Bytes())
		},
	}
}

// exportCmd creates the export command.
func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Serialize a snapshot as generic XML, CAD XML or JSON",
		ArgsUsage: "<snapshot|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "generic", Usage: "Document: generic|cad|json"},
			outFlag(),
		},
		Action: func(c *cli.Context) error {
			room, err := readSnapshot(c)
			if err != nil {
				return outputError(err)
			}

			var data []byte
			switch format := c.String("format"); format {
			case "generic", "xml":
				data = []byte(export.GenericXML(room))
			case "cad":
				data = []byte(export.CADXML(room))
			case "json":
				if data, err = export.JSON(room); err != nil {
					return outputError(apperrors.NewExportFailed("json", err))
				}
			default:
				return outputError(apperrors.NewInvalidRequest("unsupported format: " + format))
			}
			return writeOutput(c, data)
		},
	}
}

// bundleCmd creates the bundle command.
func bundleCmd() *cli.Command {
	return &cli.Command{
		Name:      "bundle",
		Usage:     "Write a zip with XML, JSON, PNG plan and the 3D model",
		ArgsUsage: "<snapshot|->",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Required: true, Usage: "3D model file (usdz)"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: ".", Usage: "Destination directory"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Bundle name (default CapturedRoom_<ulid>)"},
			unitsFlag(),
		}, rasterFlags()...),
		Action: func(c *cli.Context) error {
			room, err := readSnapshot(c)
			if err != nil {
				return outputError(err)
			}
			renderer, err := newRenderer(c)
			if err != nil {
				return outputError(err)
			}

			model, err := os.Open(c.String("model"))
			if err != nil {
				return outputError(apperrors.NewInvalidRequest("open model: " + err.Error()))
			}
			defer model.Close()

			name := c.String("name")
			if name == "" {
				name = export.NewBundleName()
			}

			path, err := export.WriteBundle(c.Context, c.String("dir"), export.Bundle{
				Name:   name,
				Room:   room,
				Raster: renderer.ForRoom(planOptions(c)),
				Model:  model,
			})
			if err != nil {
				return outputError(apperrors.NewExportFailed("bundle", err))
			}
			fmt.Fprintln(c.App.Writer, path)
			return nil
		},
	}
}

// inspectSummary is what inspect prints.
type inspectSummary struct {
	Counts        models.Counts `json:"counts"`
	ReferenceWall int           `json:"reference_wall"`
	ReferenceYaw  float64       `json:"reference_yaw_degrees"`
	SceneHeight   int           `json:"scene_height_cm"`
	Walls         []string      `json:"walls"`
	Bounds        [4]float64    `json:"plan_bounds"`
}

// inspectCmd creates the inspect command.
func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print element counts, reference wall and plan bounds",
		ArgsUsage: "<snapshot|->",
		Flags:     []cli.Flag{unitsFlag()},
		Action: func(c *cli.Context) error {
			room, err := readSnapshot(c)
			if err != nil {
				return outputError(err)
			}

			opts := planOptions(c)
			plan := schematic.Build(room, opts)
			bound := plan.Bound()

			summary := inspectSummary{
				Counts:        room.Counts(),
				ReferenceWall: plan.Frame.Wall,
				ReferenceYaw:  math.Round(plan.Frame.Angle*180/math.Pi*100) / 100,
				SceneHeight:   export.SceneHeight(room),
				Walls:         make([]string, 0, len(room.Walls)),
				Bounds:        [4]float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]},
			}
			for _, w := range room.Walls {
				summary.Walls = append(summary.Walls, opts.Labeler.Format(w.Dimensions.X))
			}
			return outputJSON(c.App.Writer, summary)
		},
	}
}

// sampleCmd creates the sample command.
func sampleCmd() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Print a sample 4 m x 3 m room snapshot",
		Flags: []cli.Flag{outFlag()},
		Action: func(c *cli.Context) error {
			data, err := parser.EncodeJSON(models.SampleRoom())
			if err != nil {
				return outputError(apperrors.NewInternal(err))
			}
			return writeOutput(c, data)
		},
	}
}

// ============================================================
// Helpers
// ============================================================

func readSnapshot(c *cli.Context) (*models.RoomSnapshot, error) {
	if c.NArg() == 0 {
		return nil, apperrors.NewInvalidRequest("snapshot file required (use - for stdin)")
	}

	arg := c.Args().First()
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, apperrors.NewInvalidRequest("read snapshot: " + err.Error())
	}

	room, err := parser.Parse(data, parser.DetectFormat(filepath.Base(arg), data))
	if err != nil {
		return nil, apperrors.NewInvalidRequest("invalid snapshot: " + err.Error())
	}
	return room, nil
}

func planOptions(c *cli.Context) schematic.Options {
	opts := schematic.DefaultOptions()
	opts.Labeler = dimension.NewLabeler(dimension.ParseMode(c.String("units")))
	return opts
}

func newRenderer(c *cli.Context) (*mapper.Renderer, error) {
	palette, err := mapper.NewPalette(c.String("background"), c.String("accent"))
	if err != nil {
		return nil, apperrors.NewInvalidRequest(err.Error())
	}
	return mapper.NewRenderer(palette, c.Float64("margin")), nil
}

func writeOutput(c *cli.Context, data []byte) error {
	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return outputError(apperrors.NewInternal(err))
		}
		return nil
	}
	_, err := c.App.Writer.Write(data)
	return err
}

// outputJSON writes JSON output.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if planErr := apperrors.As(err); planErr != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", planErr.Code, planErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
