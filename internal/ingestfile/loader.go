package ingestfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"digest-orchestrator/internal/domain"
)

// maxLineBytes bounds a single JSONL record. Article bodies are large
// but anything past this is almost certainly a malformed file.
const maxLineBytes = 4 * 1024 * 1024

// Batch is a slice of decoded articles plus the line number to resume
// from after the batch has been ingested.
type Batch struct {
	Articles []domain.Article
	NextLine int
}

// Loader reads articles from a JSONL file in batches, skipping lines
// that fail to decode.
type Loader struct {
	path      string
	batchSize int
	logger    *slog.Logger
}

func NewLoader(path string, batchSize int, logger *slog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, batchSize: batchSize, logger: logger}
}

// Read decodes batches starting at startLine (zero-based) and passes
// each one to fn. A non-nil error from fn stops the read; the returned
// batch's NextLine tells the caller where ingestion left off.
func (l *Loader) Read(startLine int, fn func(Batch) error) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	batch := Batch{}
	line := 0
	for scanner.Scan() {
		line++
		if line <= startLine {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var article domain.Article
		if err := json.Unmarshal([]byte(text), &article); err != nil {
			l.logger.Warn("skipping malformed line", "file", l.path, "line", line, "error", err)
			continue
		}
		batch.Articles = append(batch.Articles, article)

		if len(batch.Articles) >= l.batchSize {
			batch.NextLine = line
			if err := fn(batch); err != nil {
				return err
			}
			batch = Batch{}
		}
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return fmt.Errorf("line exceeds %d bytes in %s: %w", maxLineBytes, l.path, err)
		}
		if err != io.EOF {
			return fmt.Errorf("read %s: %w", l.path, err)
		}
	}

	if len(batch.Articles) > 0 {
		batch.NextLine = line
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}
