package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caloperf/caloperf/app"
	"github.com/caloperf/caloperf/buildinfo"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
)

// //////////////////////////////////////////////////////////////////////////////
// commandLineArgs
type commandLineArgs struct {
	logLevelValue   int
	inputFile       string
	outputDirectory string
	createDot       bool
	createSVG       bool
	lightTheme      int64
	darkTheme       int64
}

func (cla *commandLineArgs) parseCommandLine(_ *slog.Logger) error {
	logLevelString := ""

	flag.StringVar(&logLevelString, "level", "INFO", "Logging verbosity level. Must be one of: {DEBUG, INFO, WARN, ERROR}.")
	flag.StringVar(&cla.inputFile, "input", "", "Full filepath to the JSON or YAML analysis definition.")
	flag.StringVar(&cla.outputDirectory, "output", "", "Path to output directory for created files. Defaults to inputFile parent directory.")
	flag.BoolVar(&cla.createDot, "dot", false, "Write the camera pixel neighbour graph in DOT format.")
	flag.BoolVar(&cla.createSVG, "svg", false, "Render the D2 summary to SVG.")
	flag.Int64Var(&cla.lightTheme, "lightTheme", d2themescatalog.NeutralGrey.ID, "Light theme ID to use for generated SVG. Defaults to NeutralGrey.")
	flag.Int64Var(&cla.darkTheme, "darkTheme", d2themescatalog.DarkMauve.ID, "Dark theme ID to use for generated SVG. Defaults to DarkMauve.")
	flag.Parse()

	// Parse the verbosity level
	switch strings.ToLower(logLevelString) {
	case "debug":
		cla.logLevelValue = int(slog.LevelDebug)
	case "info":
		cla.logLevelValue = int(slog.LevelInfo)
	case "warn":
		cla.logLevelValue = int(slog.LevelWarn)
	case "error":
		cla.logLevelValue = int(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level specified: %s", logLevelString)
	}
	if len(cla.inputFile) <= 0 {
		return errors.New("empty inputFile path provided")
	}
	absPath, absPathErr := filepath.Abs(cla.inputFile)
	if absPathErr != nil {
		return absPathErr
	}
	cla.inputFile = absPath
	if len(cla.outputDirectory) <= 0 {
		cla.outputDirectory = path.Dir(cla.inputFile)
	}
	return nil
}

// //////////////////////////////////////////////////////////////////////////////
//
// _ __  __ _(_)_ _
// | '  \/ _` | | ' \
// |_|_|_\__,_|_|_||_|
//
// //////////////////////////////////////////////////////////////////////////////
func main() {
	lvl := &slog.LevelVar{}
	lvl.Set(slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	cla := commandLineArgs{}
	parseError := cla.parseCommandLine(logger)
	if parseError != nil {
		logger.Error("Failed to parse command line arguments", "error", parseError)
		os.Exit(-1)
	}
	lvl.Set(slog.Level(cla.logLevelValue))
	logger.Info("Welcome to caloperf!",
		"version", buildinfo.BuildInfo(),
		"go", runtime.Version())

	params := &app.ApplicationParams{
		InputFile:       cla.inputFile,
		OutputDirectory: cla.outputDirectory,
		CreateDot:       cla.createDot,
		CreateSVG:       cla.createSVG,
		LightThemeID:    cla.lightTheme,
		DarkThemeID:     cla.darkTheme,
	}
	report, err := app.NewApplication(params, logger)
	if err != nil {
		logger.Error("Failed to evaluate definition", "error", err)
		os.Exit(1)
	}
	logger.Info("caloperf report generated",
		"name", report.Name,
		"records", report.Dataset.Len(),
		"outputs", len(report.Outputs))
}
