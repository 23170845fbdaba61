package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/mailfacts/internal/model"
)

// messageExtensions are the file types picked up when batching a directory
var messageExtensions = map[string]bool{
	".eml":  true,
	".txt":  true,
	".html": true,
	".htm":  true,
}

// Analyzer defines the interface for analyzing one stored message
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Report, error)
}

// FileJob analyzes one message file
type FileJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute executes the analysis
func (j *FileJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &FileResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// FileResult represents the result of a file job
type FileResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many message files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the files concurrently; results follow the order of paths
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{
			Path:     path,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		if fr, ok := result.(*FileResult); ok {
			fileResults[i] = fr
			continue
		}
		fileResults[i] = &FileResult{Path: paths[i], Error: result.GetError()}
	}

	return fileResults
}

// ProcessFile reads message paths from a list file or directory and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, target string) ([]*FileResult, error) {
	paths, err := CollectPaths(target)
	if err != nil {
		return nil, err
	}

	return b.ProcessPaths(ctx, paths), nil
}

// CollectPaths returns the message files named by target: every message file
// under a directory (sorted), or the entries of a list file
func CollectPaths(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	if info.IsDir() {
		paths, err := ReadPathsFromDir(target)
		if err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
		return paths, nil
	}

	paths, err := ReadPathsFromFile(target)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return paths, nil
}

// ReadPathsFromDir walks dir for message files
func ReadPathsFromDir(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if messageExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadPathsFromFile reads message paths from a file (one per line).
// Relative entries are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
