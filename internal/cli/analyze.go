package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/mailfacts/internal/model"
	"github.com/ppiankov/mailfacts/internal/pipeline"
	"github.com/ppiankov/mailfacts/internal/source"
)

var (
	outJSON     string
	outMD       string
	subjectFlag string
	formatFlag  string
	htmlInput   bool
	noCache     bool
	noFooter    bool
	timeout     time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Extract applicant, property and company facts from one email",
	Long: `Analyze reads one message and reports:
- Applicant names, email addresses, phone numbers, income and employer
- Property addresses, postcodes, values and types
- Company names, registration numbers (with Companies House links),
  trading-as names and VAT numbers

The input format is picked from the file extension (.eml, .html/.htm,
.txt); use --format to override it. With no file, or "-", the message
is read from stdin.

Example:
  mailfacts analyze enquiry.eml
  mailfacts analyze enquiry.eml --json report.json --md report.md
  pbpaste | mailfacts analyze --subject "Remortgage enquiry"
  mailfacts analyze body.html --json -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Input flags
	analyzeCmd.Flags().StringVar(&subjectFlag, "subject", "", "subject line to use instead of the message's own")
	analyzeCmd.Flags().StringVar(&formatFlag, "format", "", "input format: eml, html or text (default: from file extension)")
	analyzeCmd.Flags().BoolVar(&htmlInput, "html", false, "treat the input as an HTML body (same as --format html)")

	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)

	format := formatFlag
	if htmlInput && format == "" {
		format = "html"
	}

	p := pipeline.NewPipeline(cfg)

	fmt.Fprintf(os.Stderr, "Analyzing email content...\n")

	src, name, err := openInput(cmd, p.Registry(), path, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to retrieve email content\n")
		return fmt.Errorf("analyze failed: %w", err)
	}
	if subjectFlag != "" {
		src = source.WithSubject(src, subjectFlag)
	}

	report, err := p.Analyze(ctx, src)
	if err != nil {
		if errors.Is(err, source.ErrUnreadable) {
			fmt.Fprintf(os.Stderr, "✗ Failed to retrieve email content\n")
		} else {
			fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
		}
		return fmt.Errorf("analyze failed: %w", err)
	}
	report.Source = name

	fmt.Fprintf(os.Stderr, "✓ Email analysis complete!\n")
	if cfg.Output.Verbose {
		printCounts(report)
	}
	fmt.Fprintln(os.Stderr)

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// applyCommonFlags lets explicitly set flags win over file/env configuration
func applyCommonFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if cmd.Flags().Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
}

func openInput(cmd *cobra.Command, registry *source.Registry, path, format string) (source.MailSource, string, error) {
	if path == "-" {
		src, err := registry.OpenReader("stdin", cmd.InOrStdin(), format)
		return src, "stdin", err
	}

	if format == "" {
		src, err := registry.Open(path)
		return src, path, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("%w: %v", source.ErrUnreadable, err)
	}
	defer f.Close()

	src, err := registry.OpenReader(path, f, format)
	return src, path, err
}

func printCounts(report *model.Report) {
	a, p, c := report.Record.Applicant, report.Record.Property, report.Record.Company

	fmt.Fprintf(os.Stderr, "✓ Applicant: %d names, %d emails, %d phones\n", len(a.Names), len(a.Emails), len(a.Phones))
	fmt.Fprintf(os.Stderr, "✓ Property: %d addresses, %d postcodes, %d values\n", len(p.Addresses), len(p.Postcodes), len(p.Values))
	fmt.Fprintf(os.Stderr, "✓ Company: %d names, %d registration numbers\n", len(c.Names), len(c.RegistrationNumbers))
	if report.Cached {
		fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
	}
}
