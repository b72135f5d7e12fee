// Package dataset loads and writes the tabular datasets the other packages
// operate on, held in memory as Arrow tables.
package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

const (
	ParquetExt = ".parquet"
	CSVExt     = ".csv"
	JSONLExt   = ".jsonl"
	GzipExt    = ".gz"

	batchSize = 1 << 16
)

var (
	ErrLoad              = errors.New("loading dataset")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// DefaultNullValues are the cell values read as null.
var DefaultNullValues = []string{"", "NA", "NaN", "nan", "null"}

var shardPattern = regexp.MustCompile(`\.jsonl(\.gz)?$`)

type Options struct {
	// NullValues are CSV cell values read as null. Nil means
	// DefaultNullValues.
	NullValues []string
	Allocator  memory.Allocator
}

func (o Options) allocator() memory.Allocator {
	if o.Allocator == nil {
		return memory.NewGoAllocator()
	}
	return o.Allocator
}

func (o Options) nullValues() []string {
	if o.NullValues == nil {
		return DefaultNullValues
	}
	return o.NullValues
}

// Load reads the dataset at path. The format follows the extension: .csv,
// .parquet and .jsonl, the text formats optionally gzipped. A directory is
// read as JSONL shards in name order.
func Load(ctx context.Context, path string, opts Options) (arrow.Table, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	var tbl arrow.Table
	switch {
	case stat.IsDir():
		tbl, err = loadShards(path, opts)
	case hasExt(path, ParquetExt):
		tbl, err = loadParquet(ctx, path, opts)
	case hasExt(path, CSVExt):
		tbl, err = loadCSV(path, opts)
	case hasExt(path, JSONLExt):
		tbl, err = loadJSONL([]string{path}, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return tbl, nil
}

func hasExt(path, ext string) bool {
	return strings.HasSuffix(path, ext) || strings.HasSuffix(path, ext+GzipExt)
}

func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, GzipExt) {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return struct {
		io.Reader
		io.Closer
	}{gz, f}, nil
}

func loadParquet(ctx context.Context, path string, opts Options) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	mem := opts.allocator()
	return pqarrow.ReadTable(ctx, f,
		parquet.NewReaderProperties(mem),
		pqarrow.ArrowReadProperties{Parallel: true, BatchSize: batchSize},
		mem,
	)
}

// loadCSV reads every column as a string, then narrows columns whose values
// all parse as numbers or booleans.
func loadCSV(path string, opts Options) (arrow.Table, error) {
	in, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(in)
	_ = in.Close()
	if err != nil {
		return nil, err
	}

	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	mem := opts.allocator()
	reader := arrowcsv.NewReader(bytes.NewReader(raw), schema,
		arrowcsv.WithHeader(true),
		arrowcsv.WithNullReader(true, opts.nullValues()...),
		arrowcsv.WithAllocator(mem),
		arrowcsv.WithChunk(batchSize),
	)
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()
	for reader.Next() {
		record := reader.Record()
		record.Retain()
		records = append(records, record)
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	strs := array.NewTableFromRecords(schema, records)
	defer strs.Release()

	return narrow(strs, mem)
}

func loadShards(dir string, opts Options) (arrow.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !shardPattern.MatchString(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .jsonl shards in directory", ErrUnsupportedFormat)
	}
	return loadJSONL(paths, opts)
}
