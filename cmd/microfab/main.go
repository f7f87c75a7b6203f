// Command microfab compiles declarative shape descriptions into motion
// programs for the two-photon lithography instrument, fits interface
// planes from height-probe samples, and manages the calibration database.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/nanofab-data/microfab/internal/calib"
	"github.com/nanofab-data/microfab/internal/config"
	"github.com/nanofab-data/microfab/internal/motion"
	"github.com/nanofab-data/microfab/internal/planefit"
	"github.com/nanofab-data/microfab/internal/preview"
	"github.com/nanofab-data/microfab/internal/units"
	"github.com/nanofab-data/microfab/internal/version"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: microfab <command> [flags]

Commands:
  lower     compile a shape job file into a motion program
  planefit  fit an interface plane from height samples
  fits      list stored plane fits
  migrate   manage the calibration database schema
  version   print build information
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "lower":
		err = runLower(os.Args[2:])
	case "planefit":
		err = runPlaneFit(os.Args[2:])
	case "fits":
		err = runFits(os.Args[2:])
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "version":
		fmt.Printf("microfab %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("[microfab] %v", err)
	}
}

func runLower(args []string) error {
	fs := flag.NewFlagSet("lower", flag.ExitOnError)
	jobPath := fs.String("job", "", "path to the shape job file (JSON)")
	configPath := fs.String("config", "", "optional write-parameter config file (JSON)")
	frame := fs.String("frame", "stage", "coordinate frame the program is bound to")
	outPath := fs.String("out", "", "output program file (default: stdout)")
	plotPath := fs.String("plot", "", "optional toolpath PNG")
	htmlPath := fs.String("html", "", "optional toolpath HTML chart")
	dbPath := fs.String("db", "", "optional calibration database to record the program in")
	fs.Parse(args)

	if *jobPath == "" {
		return fmt.Errorf("lower: -job is required")
	}

	cfg := config.DefaultWriteConfig()
	if *configPath != "" {
		loaded, err := config.LoadWriteConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	job, err := LoadJob(*jobPath)
	if err != nil {
		return err
	}
	frameName := motion.Frame(*frame)
	if job.Frame != "" {
		frameName = motion.Frame(job.Frame)
	}

	shape, err := BuildShape(job.Shape, cfg)
	if err != nil {
		return fmt.Errorf("build shape: %w", err)
	}

	program, err := shape.Lower(frameName)
	if err != nil {
		return fmt.Errorf("lower %s: %w", job.Shape.Kind, err)
	}
	if err := program.ValidateGates(); err != nil {
		return fmt.Errorf("lowered program is malformed: %w", err)
	}
	log.Printf("[Lower] Compiled %s into %d instructions (frame %s, center %s)",
		job.Shape.Kind, program.Len(), frameName, shape.Center())

	if *outPath != "" {
		if err := program.WriteFile(*outPath); err != nil {
			return err
		}
		log.Printf("[Lower] Program written to %s", *outPath)
	} else {
		fmt.Print(program.Render(motion.RenderOptions{Header: true, Trailer: true}))
	}

	if *plotPath != "" {
		if err := preview.PlotXY(program, *plotPath); err != nil {
			return err
		}
		log.Printf("[Lower] Toolpath plot written to %s", *plotPath)
	}
	if *htmlPath != "" {
		if err := preview.WriteHTML(program, *htmlPath); err != nil {
			return err
		}
		log.Printf("[Lower] Toolpath chart written to %s", *htmlPath)
	}

	if *dbPath != "" {
		store, err := calib.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		programID, err := store.SaveProgram(job.Shape.Kind, program)
		if err != nil {
			return err
		}
		log.Printf("[Lower] Program recorded as %s", programID)
	}
	return nil
}

func runPlaneFit(args []string) error {
	fs := flag.NewFlagSet("planefit", flag.ExitOnError)
	inPath := fs.String("in", "", "CSV file of x,y,z height samples (µm)")
	label := fs.String("label", "", "optional label for the stored fit")
	dbPath := fs.String("db", "", "optional calibration database to record the fit in")
	fs.Parse(args)

	if *inPath == "" {
		return fmt.Errorf("planefit: -in is required")
	}

	samples, err := readSamples(*inPath)
	if err != nil {
		return err
	}

	plane, err := planefit.Fit(samples)
	if err != nil {
		return fmt.Errorf("fit %d samples: %w", len(samples), err)
	}
	plane.LogResults(log.Printf, "[PlaneFit]")

	if *dbPath != "" {
		store, err := calib.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		fitID, err := store.SavePlaneFit(*label, plane)
		if err != nil {
			return err
		}
		log.Printf("[PlaneFit] Fit recorded as %s", fitID)
	}
	return nil
}

func runFits(args []string) error {
	fs := flag.NewFlagSet("fits", flag.ExitOnError)
	dbPath := fs.String("db", "", "calibration database")
	limit := fs.Int("limit", 10, "maximum number of fits to list")
	devUnits := fs.String("units", units.UM, "length units for deviations ("+units.GetValidUnitsString()+")")
	fs.Parse(args)

	if *dbPath == "" {
		return fmt.Errorf("fits: -db is required")
	}
	if !units.IsValid(*devUnits) {
		return fmt.Errorf("fits: invalid units %q (valid: %s)", *devUnits, units.GetValidUnitsString())
	}
	store, err := calib.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListPlaneFits(*limit)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %-12s  polar %.2f°  azimuth %.1f°  dev %.3f %s (max %.3f)  n=%d  %s\n",
			r.FitID, r.Label, r.Plane.PolarDeg, r.Plane.AzimuthDeg,
			units.ConvertLength(r.Plane.MeanDev, *devUnits), *devUnits,
			units.ConvertLength(r.Plane.MaxDev, *devUnits), r.Plane.SampleCount,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if len(records) == 0 {
		log.Printf("[Fits] No plane fits stored in %s", *dbPath)
	}
	return nil
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "", "calibration database")
	dir := fs.String("dir", "migrations", "migrations directory")
	fs.Parse(args)

	if *dbPath == "" || fs.NArg() < 1 {
		return fmt.Errorf("migrate: -db and an action (up|down|version|force <v>) are required")
	}
	store, err := calib.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch fs.Arg(0) {
	case "up":
		return store.MigrateUp(*dir)
	case "down":
		return store.MigrateDown(*dir)
	case "version":
		version, dirty, err := store.MigrateVersion(*dir)
		if err != nil {
			return err
		}
		log.Printf("[Migrate] version=%d dirty=%v", version, dirty)
		return nil
	case "force":
		if fs.NArg() < 2 {
			return fmt.Errorf("migrate force: version argument required")
		}
		version, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("migrate force: invalid version %q: %w", fs.Arg(1), err)
		}
		return store.MigrateForce(*dir, version)
	}
	return fmt.Errorf("migrate: unknown action %q", fs.Arg(0))
}

// readSamples parses a CSV of x,y,z rows. A non-numeric first row is
// treated as a header and skipped.
func readSamples(path string) ([]planefit.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	var samples []planefit.Sample
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples file: %w", err)
		}
		row++
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: want x,y,z columns, got %d", row, len(record))
		}

		var vals [3]float64
		parseErr := error(nil)
		for i := 0; i < 3; i++ {
			vals[i], parseErr = strconv.ParseFloat(record[i], 64)
			if parseErr != nil {
				break
			}
		}
		if parseErr != nil {
			if row == 1 {
				// Header row
				continue
			}
			return nil, fmt.Errorf("row %d: %w", row, parseErr)
		}
		samples = append(samples, planefit.Sample{X: vals[0], Y: vals[1], Z: vals[2]})
	}
	return samples, nil
}
