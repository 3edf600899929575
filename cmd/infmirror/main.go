package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/esimov/infmirror"
	"github.com/esimov/infmirror/geom"
	"github.com/esimov/infmirror/utils"
)

const HelpBanner = `
┬┌┐┌┌─┐┌┬┐┬┬─┐┬─┐┌─┐┬─┐
││││├┤ ││││├┬┘├┬┘│ │├┬┘
┴┘└┘└  ┴ ┴┴┴└─┴└─└─┘┴└─

Recursive perspective mirror renderer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	corners     = flag.String("corners", "", "Mirror window corners, clockwise, e.g. \"100,80 300,90 290,260 110,250\"")
	iterations  = flag.Int("iter", infmirror.DefaultIterations, "Number of nested reflections")
	filter      = flag.String("filter", "lanczos", "Resampling filter (lanczos, catmullrom, linear, nearest...)")
	merge       = flag.String("merge", "or", "Merge operation (or, src_over, dst_over, src_atop, xor, darken, lighten, multiply, screen, overlay, exclusion)")
	backend     = flag.String("backend", "native", "Rendering backend")
	maskPath    = flag.String("mask", "", "Mask file restricting the reflected pixels")
	shape       = flag.String("shape", "", "Mask outline control points, e.g. \"10,10 90,10 90,90 10,90\"")
	shapeMode   = flag.String("mode", "sharp", "Mask outline interpolation (sharp, bezier, hermite)")
	scene       = flag.String("scene", "", "TOML scene file")
	faceDetect  = flag.Bool("face", false, "Place the mirror window over the detected face")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	cascade     = flag.String("cc", "", "Cascade classifier")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	quiet       = flag.Bool("quiet", false, "Suppress the progress output")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	proc := infmirror.NewProcessor()
	if *scene != "" {
		s, err := infmirror.LoadScene(*scene)
		if err != nil {
			fatal("Unable to load the scene file: ", err)
		}
		if err := s.Apply(proc); err != nil {
			fatal("Invalid scene file: ", err)
		}
	}

	// Flags given explicitly on the command line take precedence over the scene.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		flagErr = applyFlag(proc, f.Name)
	})
	if flagErr != nil {
		flag.Usage()
		fatal("Invalid option: ", flagErr)
	}

	if proc.FaceDetect && len(proc.CascadePath) == 0 {
		fatal("Please specify a face classifier in case you are using the -face flag!", nil)
	}

	err := proc.Execute(&infmirror.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Quiet:    *quiet,
	})
	if err != nil {
		fatal("Error rendering the image: ", err)
	}
}

// applyFlag copies the value of the named flag into the processor.
func applyFlag(proc *infmirror.Processor, name string) error {
	var err error

	switch name {
	case "corners":
		proc.Corners, err = geom.ParsePoints(*corners)
	case "iter":
		proc.Iterations = *iterations
	case "filter":
		proc.Filter = *filter
	case "merge":
		proc.Merge = *merge
	case "backend":
		proc.Backend = *backend
	case "mask":
		proc.MaskPath = *maskPath
	case "shape":
		proc.Shape, err = geom.ParsePoints(*shape)
	case "mode":
		proc.ShapeMode, err = geom.ParseMode(*shapeMode)
	case "face":
		proc.FaceDetect = *faceDetect
	case "angle":
		proc.FaceAngle = *faceAngle
	case "cc":
		proc.CascadePath = *cascade
	}
	if err != nil {
		return fmt.Errorf("-%s: %w", name, err)
	}
	return nil
}

func fatal(msg string, err error) {
	if err != nil {
		msg = utils.DecorateText(msg, utils.ErrorMessage) +
			utils.DecorateText(err.Error(), utils.DefaultMessage)
	} else {
		msg = utils.DecorateText(msg, utils.ErrorMessage)
	}
	log.Fatal(msg + utils.DefaultColor)
}
