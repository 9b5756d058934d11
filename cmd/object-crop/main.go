package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/object-crop-tools/internal/config"
	"github.com/ironsheep/object-crop-tools/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Fprintln(os.Stderr, "object-crop - cuts per-object crops out of background-removed image pairs")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: object-crop [options] <image-or-directory>...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Inputs are background-removed rasters (for example leaf_nobg.png); a")
	fmt.Fprintln(os.Stderr, "directory argument is scanned for them. Each raster is segmented into")
	fmt.Fprintln(os.Stderr, "objects by pixel proximity, and both it and its paired original are")
	fmt.Fprintln(os.Stderr, "cropped per object, with JSON metadata and a statistics report.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file (missing file means defaults)")
	writeConfig := flag.String("write-config", "", "write the default configuration to this path and exit")
	showVersion := flag.Bool("version", false, "print version information and exit")

	maxDistance := flag.Float64("max-distance", 0, "override: maximum distance between pixels of one object")
	minPixels := flag.Int("min-pixels", 0, "override: minimum pixel count per kept object")
	minLength := flag.Float64("min-length", 0, "override: length threshold that retains small elongated objects")
	padding := flag.Int("padding", 0, "override: crop padding in pixels")
	outputDir := flag.String("output", "", "override: output directory (default: next to each input)")
	noCrop := flag.Bool("no-crop", false, "segment and write metadata only, no crop files")
	workers := flag.Int("workers", 0, "override: images processed concurrently (default: CPU count)")

	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("object-crop %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	// Diagnostics go to stderr; stdout stays clean for shell pipelines.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("writing configuration: %v", err)
		}
		fmt.Printf("wrote default configuration to %s\n", *writeConfig)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	// Only flags the user actually passed override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-distance":
			cfg.Segmentation.MaxDistance = *maxDistance
		case "min-pixels":
			cfg.Segmentation.MinPixels = *minPixels
		case "min-length":
			v := *minLength
			cfg.Segmentation.MinLength = &v
		case "padding":
			cfg.Output.Padding = *padding
		case "output":
			cfg.Output.Directory = *outputDir
		case "no-crop":
			cfg.Output.Cropping = !*noCrop
		case "workers":
			cfg.Batch.Workers = *workers
		}
	})

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	paths, err := p.ExpandInputs(flag.Args())
	if err != nil {
		log.Fatalf("%v", err)
	}

	summary := p.RunBatch(paths)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
