package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cursor-guide/src/config"
	"cursor-guide/src/geometry"
	"cursor-guide/src/paint"
	"cursor-guide/src/settings"
)

const maxDimension = 8192

type previewOptions struct {
	settingsPath string
	outPath      string
	width        int
	height       int
	x            float64
	y            float64
	jsonOutput   bool
	verbose      bool
}

// PreviewResult describes a rendered frame.
type PreviewResult struct {
	Output    string  `json:"output"`
	Style     string  `json:"style"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Segments  int     `json:"segments"`
	Circle    bool    `json:"circle"`
	Pointers  int     `json:"pointers"`
	Dashed    bool    `json:"dashed"`
	Duration  float64 `json:"duration_seconds"`
	Timestamp string  `json:"timestamp"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &previewOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *previewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "guide-preview",
		Short:         "Render the cursor guide for a settings file into a PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.settingsPath, "settings", config.DefaultSettingsFile, "Path to the settings file")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "Output PNG path (use '-' for stdout)")
	cmd.Flags().IntVar(&opts.width, "width", 800, "Surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 600, "Surface height in pixels")
	cmd.Flags().Float64Var(&opts.x, "x", -1, "Cursor x from the left edge (default: center)")
	cmd.Flags().Float64Var(&opts.y, "y", -1, "Cursor y from the top edge (default: center)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print a JSON summary")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runWithOptions(opts previewOptions, stdout, stderr io.Writer) error {
	if opts.width <= 0 || opts.height <= 0 || opts.width > maxDimension || opts.height > maxDimension {
		return fmt.Errorf("surface size %dx%d outside 1..%d", opts.width, opts.height, maxDimension)
	}
	if opts.jsonOutput && opts.outPath == "-" {
		return fmt.Errorf("--json cannot be combined with --out -")
	}

	s, err := config.LoadSettings(opts.settingsPath, true)
	if err != nil {
		// Bad values fall back to defaults; the preview still renders.
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	if opts.verbose {
		fmt.Fprintf(stderr, "[verbose] settings %s: style=%s thickness=%.1f\n", opts.settingsPath, s.Render.Style, s.Render.Thickness)
	}

	center := geometry.Point{X: float64(opts.width) / 2, Y: float64(opts.height) / 2}
	if opts.x >= 0 {
		center.X = opts.x
	}
	if opts.y >= 0 {
		center.Y = opts.y
	}

	start := time.Now()
	scene, err := render(s.Render, center, opts.width, opts.height, opts.outPath, stdout)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	if opts.verbose {
		fmt.Fprintf(stderr, "[verbose] rendered %dx%d in %v\n", opts.width, opts.height, elapsed)
	}

	if !opts.jsonOutput {
		return nil
	}
	result := PreviewResult{
		Output:    opts.outPath,
		Style:     string(s.Render.Style),
		Width:     opts.width,
		Height:    opts.height,
		Segments:  len(scene.Segments),
		Circle:    scene.Circle != nil,
		Pointers:  len(scene.Triangles),
		Dashed:    len(scene.Dash) > 0,
		Duration:  elapsed.Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func render(cfg settings.RenderConfig, center geometry.Point, w, h int, outPath string, stdout io.Writer) (geometry.Scene, error) {
	scene := geometry.Build(center, geometry.Size{W: float64(w), H: float64(h)}, cfg)
	frame := paint.Render(scene, cfg, w, h)

	out := stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return scene, fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	if err := png.Encode(out, frame); err != nil {
		return scene, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return scene, nil
}
