package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"slidesmith/engine"
)

const usage = `slidesmith <command> [flags]

Commands:
  generate   build a deck from a free-text prompt
  edit       apply a free-text edit request to a deck
  preview    dry-run edit instructions against a deck
  extract    print a deck's canonical slide description as JSON
  convert    convert a deck to a PDF handout
  history    list recently produced artifacts

Run 'slidesmith <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app, err := NewApp(DefaultConfigPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if err := dispatch(app, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dispatch(app *App, command string, args []string) error {
	ctx := context.Background()
	switch command {
	case "generate":
		return runGenerate(ctx, app, args)
	case "edit":
		return runEdit(ctx, app, args)
	case "preview":
		return runPreview(app, args)
	case "extract":
		return runExtract(app, args)
	case "convert":
		return runConvert(app, args)
	case "history":
		return runHistory(app, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runGenerate(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	prompt := fs.String("prompt", "", "what the presentation should cover")
	descFile := fs.String("description", "", "path to a structured slide description JSON (skips the content generator)")
	template := fs.String("template", "", "donor .pptx template path")
	logo := fs.String("logo", "", "logo image path")
	logoPos := fs.String("logo-position", "top-right", "logo anchor: top-left, top-right, bottom-left, bottom-right, center")
	logoSize := fs.String("logo-size", "medium", "logo size: small, medium, large")
	fs.Parse(args)

	var (
		out string
		err error
	)
	if *descFile != "" {
		var desc engine.SlideDescription
		if err := readJSONFile(*descFile, &desc); err != nil {
			return err
		}
		out, err = app.PPT.GenerateFromDescription(desc, *template, *logo, *logoPos, *logoSize)
	} else {
		out, err = app.PPT.GeneratePresentation(ctx, *prompt, *template, *logo, *logoPos, *logoSize)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runEdit(ctx context.Context, app *App, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck .pptx path")
	prompt := fs.String("prompt", "", "edit request")
	editsFile := fs.String("edits", "", "path to an edit instruction set JSON (skips the content generator)")
	slide := fs.Int("slide", 0, "1-based slide to scope the request to (0 = unscoped)")
	fs.Parse(args)

	var (
		out    string
		report *engine.BatchReport
		err    error
	)
	if *editsFile != "" {
		var set engine.EditInstructionSet
		if err := readJSONFile(*editsFile, &set); err != nil {
			return err
		}
		out, report, err = app.PPT.ApplyEdits(*deckPath, set)
	} else {
		out, report, err = app.PPT.EditPresentation(ctx, *deckPath, *prompt, *slide)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	for _, w := range report.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	fmt.Fprintf(os.Stderr, "%d/%d instructions applied\n", report.Applied(), len(report.Outcomes))
	return nil
}

func runPreview(app *App, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck .pptx path")
	editsFile := fs.String("edits", "", "path to an edit instruction set JSON")
	slide := fs.Int("slide", 0, "1-based slide to preview (0 = whole deck)")
	fs.Parse(args)

	var set engine.EditInstructionSet
	if err := readJSONFile(*editsFile, &set); err != nil {
		return err
	}
	result, err := app.PPT.PreviewEdits(*deckPath, set, *slide)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runExtract(app *App, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck .pptx path")
	fs.Parse(args)

	desc, err := app.PPT.ExtractDeck(*deckPath)
	if err != nil {
		return err
	}
	return printJSON(desc)
}

func runConvert(app *App, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck .pptx path")
	fs.Parse(args)

	out, err := app.PPT.ConvertToPDF(*deckPath)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runHistory(app *App, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum entries to list")
	fs.Parse(args)

	entries, err := app.PPT.History(*limit)
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %v", path, err)
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
