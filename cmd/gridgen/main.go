package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"gridgen/internal/models"
	"gridgen/pkg/config"
	"gridgen/pkg/expansion"
	"gridgen/pkg/geometry"
	"gridgen/pkg/maskio"
	"gridgen/pkg/render"
)

func main() {
	// Parse command line arguments
	mode := flag.String("mode", "single", "Analysis mode: single (seed/constraint masks) or multi (per-class contours)")
	seedPath := flag.String("seed", "", "Seed mask image (single mode)")
	constraintPath := flag.String("constraint", "", "Optional constraint mask image (single mode)")
	contoursPath := flag.String("contours", "", "Per-class contours JSON file (multi mode)")
	width := flag.Int("width", 0, "Raster width (multi mode)")
	height := flag.Int("height", 0, "Raster height (multi mode)")
	configPath := flag.String("config", "gridgen.yaml", "YAML configuration file")
	outDir := flag.String("out", "", "Output directory (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Println("================================")
	fmt.Println("GRIDGEN: SPATIAL REGION-GROWING ANALYSIS OVER LABELED RASTER MASKS")
	fmt.Println("================================")

	startTime := time.Now()
	var result *expansion.Result
	var edges [][2]r2.Vec

	switch *mode {
	case "single":
		result = runSingle(cfg, logger, *seedPath, *constraintPath)
	case "multi":
		result, edges = runMulti(cfg, logger, *contoursPath, *width, *height)
	default:
		log.Fatalf("Unsupported mode %q, supported: single, multi", *mode)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	saveOutputs(cfg, logger, result, edges)

	fmt.Printf("\nAnalysis completed in %.2f seconds\n", time.Since(startTime).Seconds())
	fmt.Printf("Outputs saved to: %s\n", cfg.Output.Dir)
	fmt.Printf("Grids produced: %d\n", len(result.Binary))
}

func runSingle(cfg *config.Config, logger *slog.Logger, seedPath, constraintPath string) *expansion.Result {
	if seedPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	seed, err := loadMask(seedPath)
	if err != nil {
		log.Fatalf("Failed to load seed mask: %v", err)
	}
	var constraint *models.BinaryMask
	if constraintPath != "" {
		constraint, err = loadMask(constraintPath)
		if err != nil {
			log.Fatalf("Failed to load constraint mask: %v", err)
		}
	}

	opts := []expansion.Option{
		expansion.WithLogger(logger),
		expansion.WithRestrictToLimit(cfg.Expansion.RestrictToLimit),
	}
	if cfg.Expansion.MinArea > 0 {
		opts = append(opts, expansion.WithMinArea(cfg.Expansion.MinArea))
	}
	expander, err := expansion.NewExpander(seed, constraint, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize expansion: %v", err)
	}

	fmt.Printf("Expanding %dx%d seed mask at distances %v...\n", seed.Width, seed.Height, cfg.Expansion.Distances)
	result, err := expander.Expand(cfg.Expansion.Distances)
	if err != nil {
		log.Fatalf("Expansion failed: %v", err)
	}
	return result
}

func runMulti(cfg *config.Config, logger *slog.Logger, contoursPath string, width, height int) (*expansion.Result, [][2]r2.Vec) {
	if contoursPath == "" || width <= 0 || height <= 0 {
		flag.Usage()
		os.Exit(1)
	}
	byClass, err := loadContours(contoursPath)
	if err != nil {
		log.Fatalf("Failed to load contours: %v", err)
	}

	expander, err := expansion.NewMultiClassExpander(width, height, byClass,
		expansion.WithMultiLogger(logger))
	if err != nil {
		log.Fatalf("Failed to initialize multi-class expansion: %v", err)
	}

	fmt.Printf("Expanding %d objects on a %dx%d raster at distances %v...\n",
		expander.ObjectCount(), width, height, cfg.Expansion.Distances)
	result, err := expander.ExpandAll(cfg.Expansion.Distances)
	if err != nil {
		log.Fatalf("Multi-class expansion failed: %v", err)
	}
	return result, expander.Partition().Edges()
}

// loadMask reads an NPY array or any image file, by extension.
func loadMask(path string) (*models.BinaryMask, error) {
	if filepath.Ext(path) == ".npy" {
		return maskio.LoadBinaryNPY(path)
	}
	return maskio.LoadPNG(path)
}

// loadContours reads {"class": [[[x, y], ...], ...], ...} JSON.
func loadContours(path string) (map[string][]geometry.Contour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string][][][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	out := make(map[string][]geometry.Contour, len(raw))
	for class, contours := range raw {
		for _, c := range contours {
			contour := make(geometry.Contour, len(c))
			for i, p := range c {
				contour[i] = r2.Vec{X: p[0], Y: p[1]}
			}
			out[class] = append(out[class], contour)
		}
	}
	return out, nil
}

func saveOutputs(cfg *config.Config, logger *slog.Logger, result *expansion.Result, edges [][2]r2.Vec) {
	var layers []render.Layer
	var width, height int

	for _, key := range result.Keys() {
		name := key.String()
		bin := result.Binary[key]
		width, height = bin.Width, bin.Height
		layers = append(layers, render.Layer{Name: name, Mask: bin})

		if cfg.Output.SaveNPY {
			if err := maskio.SaveBinaryNPY(filepath.Join(cfg.Output.Dir, name+".npy"), bin); err != nil {
				logger.Warn("failed to save binary grid", "name", name, "err", err)
			}
			if err := maskio.SaveLabeledNPY(filepath.Join(cfg.Output.Dir, name+"_labeled.npy"), result.Labeled[key]); err != nil {
				logger.Warn("failed to save labeled grid", "name", name, "err", err)
			}
			if err := maskio.SaveLabeledNPY(filepath.Join(cfg.Output.Dir, name+"_referenced.npy"), result.Referenced[key]); err != nil {
				logger.Warn("failed to save referenced grid", "name", name, "err", err)
			}
		}
		if cfg.Output.SavePNG {
			if err := maskio.SavePNG(filepath.Join(cfg.Output.Dir, name+".png"), bin); err != nil {
				logger.Warn("failed to save mask image", "name", name, "err", err)
			}
		}
	}

	colors := make(map[string]color.RGBA, len(cfg.Render.Colors))
	for name, c := range cfg.Render.Colors {
		colors[name] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
	}
	bg := color.RGBA{
		R: cfg.Render.Background[0],
		G: cfg.Render.Background[1],
		B: cfg.Render.Background[2],
		A: 255,
	}
	img, err := render.CompositeWithEdges(width, height, layers, colors, bg, edges, color.RGBA{A: 255})
	if err != nil {
		logger.Warn("failed to render composite", "err", err)
		return
	}
	if err := render.SavePNG(filepath.Join(cfg.Output.Dir, "composite.png"), img); err != nil {
		logger.Warn("failed to save composite", "err", err)
	}
}
