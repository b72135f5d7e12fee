package dataset

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/willbeason/bondsmith/fileio"
	"github.com/willbeason/bondsmith/jsonio"

	"github.com/molotkova/treatment-datasets/pkg/profile"
)

// loadJSONL reads one JSON object per line from the concatenation of paths.
// Columns are the union of keys in sorted order; nested values are kept as
// their JSON text and columns mixing value kinds are read as strings.
func loadJSONL(paths []string, opts Options) (arrow.Table, error) {
	gzipped := strings.HasSuffix(paths[0], GzipExt)
	for _, p := range paths[1:] {
		if strings.HasSuffix(p, GzipExt) != gzipped {
			return nil, fmt.Errorf("%w: mixing gzipped and plain shards", ErrUnsupportedFormat)
		}
	}

	var reader io.Reader = fileio.NewMultiFileReader(paths)
	if gzipped {
		// gzip correctly handles concatenated files.
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		reader = gz
	}

	rows := jsonio.NewReader(reader, func() *map[string]any {
		v := make(map[string]any)
		return &v
	})

	var objects []map[string]any
	fields := make(map[string]profile.Field)
	mixed := make(map[string]bool)
	for row, err := range rows.Read() {
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading row %d: %w", len(objects), err)
		}

		object := *row
		for key, value := range object {
			value = scalar(value)
			object[key] = value

			field, found := fields[key]
			if !found {
				field = &profile.EmptyField{}
			}
			if mixed[key] {
				continue
			}
			field, err = field.Add(value)
			if err != nil {
				mixed[key] = true
				continue
			}
			fields[key] = field
		}
		objects = append(objects, object)
	}

	names := make([]string, 0, len(fields)+len(mixed))
	for name := range fields {
		names = append(names, name)
	}
	for name := range mixed {
		if _, found := fields[name]; !found {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	schemaFields := make([]arrow.Field, len(names))
	for i, name := range names {
		dataType := arrow.DataType(arrow.BinaryTypes.String)
		if field, found := fields[name]; found && !mixed[name] {
			dataType = field.DataType()
		}
		schemaFields[i] = arrow.Field{Name: name, Type: dataType, Nullable: true}
	}
	schema := arrow.NewSchema(schemaFields, nil)

	builder := array.NewRecordBuilder(opts.allocator(), schema)
	defer builder.Release()

	for _, object := range objects {
		for i, name := range names {
			appendValue(builder.Field(i), object[name])
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{record}), nil
}

// scalar keeps JSON scalars and flattens objects and arrays to JSON text.
func scalar(value any) any {
	switch value.(type) {
	case nil, bool, float64, string:
		return value
	default:
		text, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(text)
	}
}

func appendValue(b array.Builder, value any) {
	if value == nil {
		b.AppendNull()
		return
	}
	switch fb := b.(type) {
	case *array.Int64Builder:
		fb.Append(int64(value.(float64)))
	case *array.Float64Builder:
		fb.Append(value.(float64))
	case *array.BooleanBuilder:
		fb.Append(value.(bool))
	case *array.StringBuilder:
		if s, ok := value.(string); ok {
			fb.Append(s)
		} else {
			text, _ := json.Marshal(value)
			fb.Append(string(text))
		}
	default:
		b.AppendNull()
	}
}
