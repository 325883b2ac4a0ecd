package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/iterator"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
)

// ErrAborted is returned when the operator does not confirm the export.
var ErrAborted = errors.New("export aborted")

// Result describes a finished export.
type Result struct {
	Collection string
	Path       string
	Count      int
}

// Exporter writes whole collections to JSON files.
type Exporter struct {
	source    Source
	outputDir string
	logger    *logging.Logger
	metrics   *metrics.Collector
}

// NewExporter creates an exporter writing into outputDir. logger and
// collector may be nil.
func NewExporter(source Source, outputDir string, logger *logging.Logger, collector *metrics.Collector) *Exporter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Exporter{
		source:    source,
		outputDir: outputDir,
		logger:    logger.With("component", "export"),
		metrics:   collector,
	}
}

// Prompt is the confirmation question for collection.
func Prompt(collection string) string {
	return fmt.Sprintf("Do you want to export all documents from collection %q? (Press Enter to continue)", collection)
}

// Confirm asks the operator to confirm exporting collection. Input that
// ends without a line returns ErrAborted.
func Confirm(in io.Reader, out io.Writer, collection string) error {
	err := cli.Confirm(in, out, Prompt(collection))
	if errors.Is(err, cli.ErrNoConfirmation) {
		return ErrAborted
	}
	return err
}

// OutputPath is the file a collection is written to. Subcollection paths
// are flattened into one file name.
func (e *Exporter) OutputPath(collection string) string {
	return filepath.Join(e.outputDir, strings.ReplaceAll(collection, "/", "_")+".json")
}

// Export reads every document of collection and writes them as one JSON
// array. Nothing is written unless the whole stream was read; an existing
// file is replaced in one rename.
func (e *Exporter) Export(ctx context.Context, collection string) (res *Result, err error) {
	ctx, span := tracing.Start(ctx, "export.collection", tracing.AttrCollection.String(collection))
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	docs, err := e.collect(ctx, collection)
	if err != nil {
		return nil, err
	}

	path := e.OutputPath(collection)
	if err := writeJSON(path, docs); err != nil {
		return nil, err
	}

	span.SetAttributes(
		tracing.AttrDocuments.Int(len(docs)),
		tracing.AttrLocalPath.String(path),
	)
	e.logger.InfoContext(ctx, "collection exported", "collection", collection, "documents", len(docs), "path", path)
	e.metrics.RecordDocuments(len(docs))

	return &Result{Collection: collection, Path: path, Count: len(docs)}, nil
}

func (e *Exporter) collect(ctx context.Context, collection string) ([]any, error) {
	it := e.source.Documents(ctx, collection)
	defer it.Stop()

	docs := make([]any, 0)
	for {
		data, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s after %d documents: %w", collection, len(docs), err)
		}
		docs = append(docs, coerceMap(data))
	}
	return docs, nil
}

// writeJSON encodes docs with a four-space indent into a temporary file in
// the target directory and renames it to path.
func writeJSON(path string, docs []any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
