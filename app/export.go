package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"oss.terrastruct.com/d2/d2exporter"
	"oss.terrastruct.com/d2/d2layouts/d2elklayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// createD2Image lays out the D2 summary with ELK and renders it to SVG.
func createD2Image(inputFile string,
	outputFile string,
	lightTheme int64,
	darkTheme int64,
	log *slog.Logger) error {
	log.Info("Creating D2 image from source", "path", inputFile)
	srcFile, srcFileErr := os.ReadFile(inputFile)
	if srcFileErr != nil {
		return srcFileErr
	}
	ctx := context.Background()
	_, config, configErr := d2lib.Compile(ctx, string(srcFile), nil, nil)
	if configErr != nil {
		return fmt.Errorf("failed to compile %s: %w", inputFile, configErr)
	}
	applyErr := config.ApplyTheme(lightTheme)
	if applyErr != nil {
		return applyErr
	}
	ruler, rulerErr := textmeasure.NewRuler()
	if rulerErr != nil {
		return rulerErr
	}
	dimErr := config.SetDimensions(nil, ruler, nil)
	if dimErr != nil {
		return dimErr
	}
	layoutErr := d2elklayout.Layout(ctx, config, nil)
	if layoutErr != nil {
		return layoutErr
	}
	diagram, diagramErr := d2exporter.Export(ctx, config, nil)
	if diagramErr != nil {
		return diagramErr
	}
	sketch := false
	padding := int64(50)
	render, renderErr := d2svg.Render(diagram, &d2svg.RenderOpts{
		ThemeID:     &lightTheme,
		Sketch:      &sketch,
		DarkThemeID: &darkTheme,
		Pad:         &padding,
	})
	if renderErr != nil {
		return renderErr
	}
	log.Info("Writing D2 image", "path", outputFile)
	return os.WriteFile(outputFile, render, 0600)
}
