// Command dyspositif adapts documents for dyslexic readers: syllable
// coloring, silent-letter graying, digit coloring, a reading font, and
// larger page geometry. Results are written to a DYS subfolder next to each
// source document.
package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/alecthomas/kong"

	"github.com/dyspositif/dyspositif/pkg/convert"
	"github.com/dyspositif/dyspositif/pkg/dys"
)

const version = "1.0.0"

// CLI defines the command-line interface for dyspositif.
var CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Adapt   AdaptCmd   `cmd:"" default:"withargs" help:"Adapt one or more documents"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AdaptCmd adapts documents sequentially.
type AdaptCmd struct {
	Paths []string `arg:"" help:"Documents to adapt (docx, odt, doc, rtf, pdf)" type:"existingfile"`

	Config string `help:"YAML options file; flags override its values." type:"existingfile"`

	Font          string `help:"Reading font applied to all text." placeholder:"NAME"`
	Size          int    `help:"Font size in points."`
	LetterSpacing bool   `help:"Widen letter spacing."`
	LineSpacing   bool   `help:"Use 1.5 line spacing."`

	Syllables        bool `help:"Color alternating syllables."`
	MuteLetters      bool `help:"Gray out silent letters."`
	ColorDigits      bool `help:"Color digits by position (units, tens, hundreds)."`
	MulticolorDigits bool `help:"Give every digit value its own color; overrides --color-digits."`

	A3             bool `help:"Output on A3 pages."`
	EnlargeObjects bool `help:"Scale drawings up with the A3 page."`
	SkipHeaders    bool `help:"Leave headers and footers untouched."`

	DocaiConfig string `help:"Google Document AI YAML config, enables PDF input." type:"existingfile"`
	Soffice     string `help:"LibreOffice binary used for office-format input." default:"soffice"`

	Open bool `help:"Open each adapted document when done."`
}

// Run adapts each document in order, stopping at the first failure.
func (c *AdaptCmd) Run() error {
	opts, err := c.buildOptions()
	if err != nil {
		return err
	}

	var docai *convert.DocumentAIConverter
	if c.DocaiConfig != "" {
		cfg, err := convert.LoadDocumentAIConfig(c.DocaiConfig)
		if err != nil {
			return err
		}
		docai = &convert.DocumentAIConverter{Config: cfg}
	}
	soffice := convert.NewLibreOfficeConverter()
	soffice.Binary = c.Soffice

	ctx := context.Background()
	for _, path := range c.Paths {
		fmt.Printf("%s\n", path)

		docxPath := path
		converter, err := convert.ForPath(path, soffice, docai)
		if err != nil {
			return err
		}
		if converter != nil {
			fmt.Println("  converting to docx...")
			docxPath, err = converter.Convert(ctx, path, func(percent int, message string) {
				fmt.Printf("  %3d%% %s\n", percent, message)
			})
			if err != nil {
				return err
			}
		}

		outPath, err := dys.Process(docxPath, opts, func(percent int, message string) {
			fmt.Printf("  %3d%% %s\n", percent, message)
		})
		if err != nil {
			return err
		}
		fmt.Printf("  -> %s\n", outPath)

		if c.Open {
			openDocument(outPath)
		}
	}
	return nil
}

// buildOptions layers the defaults, the optional config file, and the
// command-line flags.
func (c *AdaptCmd) buildOptions() (dys.Options, error) {
	opts := dys.DefaultOptions()
	if c.Config != "" {
		loaded, err := dys.LoadOptions(c.Config)
		if err != nil {
			return dys.Options{}, err
		}
		opts = loaded
	}

	if c.Font != "" {
		opts.FontName = c.Font
	}
	if c.Size > 0 {
		opts.FontSize = c.Size
	}
	if c.LetterSpacing {
		opts.LetterSpacing = true
	}
	if c.LineSpacing {
		opts.LineSpacing = true
	}
	if c.Syllables {
		opts.Syllables = true
	}
	if c.MuteLetters {
		opts.MuteLetters = true
	}
	if c.ColorDigits || c.MulticolorDigits {
		opts.Digits = dys.ResolveDigits(c.ColorDigits, c.MulticolorDigits)
	}
	if c.A3 {
		opts.PageFormat = dys.PageA3
	}
	if c.EnlargeObjects {
		opts.EnlargeObjects = true
	}
	if c.SkipHeaders {
		opts.IncludeHeadersFooters = false
	}
	return opts, opts.Validate()
}

// openDocument hands the file to the desktop's default application.
// Failure to open is not a processing failure.
func openDocument(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		dys.GetLogger().WithField("path", path).WithField("error", err.Error()).Warn("could not open document")
	}
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("dyspositif %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("dyspositif"),
		kong.Description("Adapt documents for dyslexic readers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.Verbose {
		dys.GetLogger().SetLevel(dys.LogDebug)
	}
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
