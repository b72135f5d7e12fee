package dataset

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const compasCSV = `id,age,sex,decile_score,priors_ratio,is_violent,c_charge_desc
1,25,Male,3,0.5,false,Battery
2,,Female,10,1.25,true,?
3,41,?,1,,false,
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func fieldTypes(tbl arrow.Table) map[string]arrow.Type {
	result := make(map[string]arrow.Type)
	for _, f := range tbl.Schema().Fields() {
		result[f.Name] = f.Type.ID()
	}
	return result
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "compas.csv", compasCSV)

	tbl, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	defer tbl.Release()

	require.Equal(t, int64(3), tbl.NumRows())
	require.Equal(t, []string{"id", "age", "sex", "decile_score", "priors_ratio", "is_violent", "c_charge_desc"}, Columns(tbl))

	want := map[string]arrow.Type{
		"id":            arrow.INT64,
		"age":           arrow.INT64,
		"sex":           arrow.STRING,
		"decile_score":  arrow.INT64,
		"priors_ratio":  arrow.FLOAT64,
		"is_violent":    arrow.BOOL,
		"c_charge_desc": arrow.STRING,
	}
	if diff := cmp.Diff(want, fieldTypes(tbl)); diff != "" {
		t.Error(diff)
	}

	// "?" is not a null value by default.
	require.Equal(t, 1, tbl.Column(1).NullN())
	require.Equal(t, 0, tbl.Column(2).NullN())
	require.Equal(t, 1, tbl.Column(6).NullN())
}

func TestLoad_CSVPlaceholderNulls(t *testing.T) {
	path := writeFile(t, "compas.csv", compasCSV)

	tbl, err := Load(context.Background(), path, Options{NullValues: append([]string{"?"}, DefaultNullValues...)})
	require.NoError(t, err)
	defer tbl.Release()

	require.Equal(t, 1, tbl.Column(2).NullN())
	require.Equal(t, 2, tbl.Column(6).NullN())
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compas.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(compasCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	tbl, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	defer tbl.Release()
	require.Equal(t, int64(3), tbl.NumRows())
}

func TestLoad_JSONLShards(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00.jsonl"),
		[]byte(`{"sex":"Male","age":25,"flags":{"a":1},"code":"250"}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.jsonl"),
		[]byte(`{"sex":null,"age":31.5,"code":428}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	tbl, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	defer tbl.Release()

	require.Equal(t, int64(2), tbl.NumRows())
	require.Equal(t, []string{"age", "code", "flags", "sex"}, Columns(tbl))

	want := map[string]arrow.Type{
		"age":   arrow.FLOAT64,
		"code":  arrow.STRING,
		"flags": arrow.STRING,
		"sex":   arrow.STRING,
	}
	if diff := cmp.Diff(want, fieldTypes(tbl)); diff != "" {
		t.Error(diff)
	}
	require.Equal(t, 1, tbl.Column(3).NullN())
	require.Equal(t, 1, tbl.Column(2).NullN())

	flags := tbl.Column(2).Data().Chunk(0).(*array.String)
	require.Equal(t, `{"a":1}`, flags.Value(0))
}

func TestLoad_Unsupported(t *testing.T) {
	path := writeFile(t, "compas.xlsx", "")

	_, err := Load(context.Background(), path, Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.ErrorIs(t, err, ErrLoad)
}

func TestWrite_RoundTrip(t *testing.T) {
	in := writeFile(t, "compas.csv", compasCSV)
	tbl, err := Load(context.Background(), in, Options{})
	require.NoError(t, err)
	defer tbl.Release()

	annotated := Annotate(tbl, func(field arrow.Field) arrow.Metadata {
		return NewMetadataBuilder(field.Metadata).Add(KeyFairnessRole, map[string]string{
			"sex": "sensitive",
		}[field.Name]).Build()
	})
	defer annotated.Release()

	role, ok := annotated.Schema().Field(2).Metadata.GetValue(KeyFairnessRole)
	require.True(t, ok)
	require.Equal(t, "sensitive", role)
	_, ok = annotated.Schema().Field(1).Metadata.GetValue(KeyFairnessRole)
	require.False(t, ok)

	for _, ext := range []string{ParquetExt, CSVExt} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, Write(annotated, out))

			got, err := Load(context.Background(), out, Options{})
			require.NoError(t, err)
			defer got.Release()

			require.Equal(t, Columns(tbl), Columns(got))
			require.Equal(t, tbl.NumRows(), got.NumRows())
			if diff := cmp.Diff(fieldTypes(tbl), fieldTypes(got)); diff != "" {
				t.Error(diff)
			}
		})
	}

	require.ErrorIs(t, Write(tbl, filepath.Join(t.TempDir(), "out.json")), ErrUnsupportedFormat)
}

func TestMetadataBuilder(t *testing.T) {
	base := arrow.NewMetadata([]string{KeyComment}, []string{"age at screening"})

	got := NewMetadataBuilder(base).
		Add(KeyStructuralRole, "numerical").
		Add(KeyComment, "age").
		Add(KeyFairnessRole, "").
		Build()

	require.Equal(t, []string{KeyComment, KeyStructuralRole}, got.Keys())
	require.Equal(t, []string{"age", "numerical"}, got.Values())
}

func TestLogShape(t *testing.T) {
	tbl, err := Load(context.Background(), writeFile(t, "compas.csv", compasCSV), Options{})
	require.NoError(t, err)
	defer tbl.Release()

	core, logs := observer.New(zapcore.InfoLevel)
	LogShape(zap.New(core), "compas", tbl)
	LogShape(nil, "compas", tbl)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "compas", fields["dataset"])
	require.Equal(t, int64(3), fields["rows"])
	require.Equal(t, int64(7), fields["columns"])
}

func TestWrite_CSVKeepsSourceText(t *testing.T) {
	const diabetic = `encounter_id,diag_1,zip,num_lab_procedures,weight_ratio,readmitted
1,038,02134,41,0.5,false
2,250.10,10001,59,1.25,true
3,428,94107,11,+2,false
`

	tbl, err := Load(context.Background(), writeFile(t, "diabetic.csv", diabetic), Options{})
	require.NoError(t, err)
	defer tbl.Release()

	want := map[string]arrow.Type{
		"encounter_id":       arrow.INT64,
		"diag_1":             arrow.STRING,
		"zip":                arrow.STRING,
		"num_lab_procedures": arrow.INT64,
		"weight_ratio":       arrow.STRING,
		"readmitted":         arrow.BOOL,
	}
	if diff := cmp.Diff(want, fieldTypes(tbl)); diff != "" {
		t.Error(diff)
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(tbl, out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, diabetic, string(got))
}

func TestCanonical(t *testing.T) {
	tcs := []struct {
		text string
		want bool
	}{
		{"41", true},
		{"-3", true},
		{"0.5", true},
		{"true", true},
		{"038", false},
		{"250.10", false},
		{"+2", false},
		{"1e5", false},
		{"1.0", false},
		{"-0", false},
		{"True", false},
		{"Battery", true},
	}

	for _, tc := range tcs {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.want, canonical(tc.text, parseScalar(tc.text)))
		})
	}
}
