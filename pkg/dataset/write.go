package dataset

import (
	"compress/gzip"
	"fmt"
	"os"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/logging"
)

// Write stores tbl at path as Parquet or CSV, chosen by extension.
func Write(tbl arrow.Table, path string) error {
	switch {
	case strings.HasSuffix(path, ParquetExt):
		return writeParquet(tbl, path)
	case strings.HasSuffix(path, CSVExt):
		return writeCSV(tbl, path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

func writeParquet(tbl arrow.Table, path string) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	// Don't close outFile; parquet handles closing it.
	return pqarrow.WriteTable(tbl, outFile, batchSize,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()),
	)
}

func writeCSV(tbl arrow.Table, path string) (err error) {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := outFile.Close()
		if err == nil {
			err = closeErr
		}
	}()

	writer := arrowcsv.NewWriter(outFile, tbl.Schema(),
		arrowcsv.WithHeader(true),
		arrowcsv.WithNullWriter(""),
	)

	tableReader := array.NewTableReader(tbl, batchSize)
	defer tableReader.Release()
	for tableReader.Next() {
		if err := writer.Write(tableReader.Record()); err != nil {
			return fmt.Errorf("writing records: %w", err)
		}
	}
	if err := tableReader.Err(); err != nil {
		return fmt.Errorf("reading table: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return err
	}
	return writer.Error()
}

// Columns returns the column names of tbl in order.
func Columns(tbl arrow.Table) []string {
	fields := tbl.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// LogShape reports the dimensions and columns of a dataset.
func LogShape(logger *zap.Logger, name string, tbl arrow.Table) {
	logging.OrNop(logger).Info("dataset shape",
		zap.String("dataset", name),
		zap.Int64("rows", tbl.NumRows()),
		zap.Int64("columns", tbl.NumCols()),
		zap.Strings("names", Columns(tbl)),
	)
}
