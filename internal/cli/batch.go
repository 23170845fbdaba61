package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ppiankov/mailfacts/internal/pipeline"
	"github.com/ppiankov/mailfacts/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache and noFooter are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list|dir>",
	Short: "Analyze many stored emails in parallel",
	Long: `Batch analyzes many messages concurrently:
- Read message paths from a list file (one per line, # comments), or
  take every .eml/.html/.htm/.txt file under a directory
- Analyze messages in parallel with a configurable worker count
- Write a JSON and a Markdown report per message

Example:
  mailfacts batch inbox/
  mailfacts batch enquiries.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./mailfacts-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Mailfacts Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Collecting messages...\n")
	paths, err := worker.CollectPaths(target)
	if err != nil {
		return fmt.Errorf("collect messages: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Found %d messages\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessPaths(ctx, paths)

	successCount := 0
	failureCount := 0
	emptyCount := 0
	renderer := p.Renderer()

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(result.Path))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		successCount++
		if result.Report.Record.IsEmpty() {
			emptyCount++
		}
		fmt.Fprintf(os.Stderr, "✓ %s -> %s\n", result.Path, slug)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d messages\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  No facts:   %d\n", emptyCount)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d messages failed", failureCount)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

const maxStemBytes = 100

// sanitizeFilename turns a message path into a safe report file stem
func sanitizeFilename(path string) string {
	s := filepath.Base(path)
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = filenameReplacer.Replace(s)

	if len(s) > maxStemBytes {
		cut := maxStemBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	if s == "" || s == "." {
		s = "message"
	}

	return s
}
