package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"
)

func main() {
	configPath := flag.String("config", "", "Read pattern configuration from a YAML file. Individual flags override values from the file.")

	kind := flag.String("kind", "text", "Set the pattern kind: text or image.")
	text := flag.String("text", "A", "Set the text to repeat across the surface.")
	fontName := flag.String("font", "regular", "Set the font: regular, bold, italic, medium, mono or smallcaps.")
	fontSize := flag.Float64("font-size", 120, "Set the font size in raster units at the base resolution.")
	letterSpacing := flag.Float64("letter-spacing", 0, "Set extra spacing between letters in raster units.")
	imagePath := flag.String("image", "", "Set the image file to repeat across the surface. Transparency becomes the pattern silhouette.")
	imageScale := flag.Float64("image-scale", 1, "Set the scale factor applied to the image tile.")
	spacingX := flag.Float64("spacing-x", 20, "Set the horizontal spacing between tiles in raster units.")
	spacingY := flag.Float64("spacing-y", 120, "Set the vertical spacing between tiles in raster units.")
	tilt := flag.Float64("tilt", 0, "Set the per-tile rotation in degrees.")

	radius := flag.Float64("radius", 15, "Set the cylinder radius in mm.")
	height := flag.Float64("height", 60, "Set the cylinder height in mm.")
	depth := flag.Float64("depth", 0.4, "Set the emboss depth in mm (0.1 to 0.6).")
	resolution := flag.Int("resolution", DefaultResolution, "Set the heightmap resolution in pixels.")

	out := flag.String("o", "", "Output STL filename. Defaults to stamp-TIMESTAMP.stl.")
	outDir := flag.String("out-dir", ".", "Directory for timestamped STL files in watch mode.")
	writeHeightmap := flag.String("write-heightmap", "", "Write the rendered heightmap to a PNG file, for inspection.")

	watch := flag.Bool("watch", false, "Watch the config file and regenerate whenever it changes.")
	debounceMs := flag.Int("debounce", 500, "Set the watch-mode debounce window in milliseconds.")

	quiet := flag.Bool("quiet", false, "Suppress progress output.")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rollstamp [options]\n\n")
		fmt.Fprintf(os.Stderr, "Generates a pair of nesting 3d-printable stamp rollers from a repeating\ntext or image pattern and writes them to a binary STL file.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["kind"] {
		k, err := ParsePatternKind(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		cfg.Kind = k
	} else if set["image"] && *configPath == "" {
		cfg.Kind = PatternImage
	}
	if set["text"] {
		cfg.Text = *text
	}
	if set["font"] {
		cfg.Font = *fontName
	}
	if set["font-size"] {
		cfg.FontSize = *fontSize
	}
	if set["letter-spacing"] {
		cfg.LetterSpacing = *letterSpacing
	}
	if set["image"] {
		cfg.ImagePath = *imagePath
	}
	if set["image-scale"] {
		cfg.ImageScale = *imageScale
	}
	if set["spacing-x"] {
		cfg.SpacingX = *spacingX
	}
	if set["spacing-y"] {
		cfg.SpacingY = *spacingY
	}
	if set["tilt"] {
		cfg.Tilt = *tilt
	}
	if set["radius"] {
		cfg.Radius = *radius
	}
	if set["height"] {
		cfg.Height = *height
	}
	if set["depth"] {
		cfg.Depth = *depth
	}
	if set["resolution"] {
		cfg.Resolution = *resolution
	}
	cfg.Quiet = *quiet

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *watch {
		if *configPath == "" {
			fmt.Fprintf(os.Stderr, "watch mode needs -config\n")
			os.Exit(1)
		}
		runWatch(*configPath, cfg, *outDir, time.Duration(*debounceMs)*time.Millisecond, *quiet)
		return
	}

	pair, err := Generate(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *writeHeightmap != "" {
		if err := pair.Heightmap.WritePNG(*writeHeightmap); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *writeHeightmap, err)
			os.Exit(1)
		}
	}

	path := *out
	if path == "" {
		path = filepath.Join(*outDir, exportName(pair.GeneratedAt))
	}
	if err := WriteSTL(path, pair); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Wrote %s: %d + %d triangles.\n",
			path, pair.Positive.TriangleCount(), pair.Negative.TriangleCount())
	}
}

// runWatch polls the config file and feeds every change into the
// pipeline; each committed pair is exported as a fresh timestamped STL.
func runWatch(configPath string, cfg Config, outDir string, debounce time.Duration, quiet bool) {
	p := NewPipeline(debounce)
	p.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	p.OnCommit = func(pair *MeshPair) {
		path, err := p.Export(outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			return
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Wrote %s: %d + %d triangles.\n",
				path, pair.Positive.TriangleCount(), pair.Negative.TriangleCount())
		}
	}

	p.Update(cfg)

	var lastMod time.Time
	if fi, err := os.Stat(configPath); err == nil {
		lastMod = fi.ModTime()
	}
	for {
		time.Sleep(200 * time.Millisecond)

		fi, err := os.Stat(configPath)
		if err != nil || fi.ModTime().Equal(lastMod) {
			continue
		}
		lastMod = fi.ModTime()

		next, err := LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		next.Quiet = quiet
		p.Update(next)
	}
}
