package typai_test

import (
	"bytes"
	"fmt"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/typai"
)

// ---- Helpers ----

func userType() *typai.Type {
	return typai.Object(
		typai.Field("id", typai.String()),
		typai.Field("name", typai.String()),
	)
}

// generateItems returns a wrapped arguments text of the form:
// {"items":[{"id":"obj_0","age":0,"active":true,"meta":{"score":0}}, ...]}
func generateItems(numObjects int) string {
	var buf bytes.Buffer
	buf.Grow(numObjects * 64)
	buf.WriteString(`{"items":[`)
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":"obj_%d","age":%d,"active":%t,"meta":{"score":%d}}`, i, i, i%2 == 0, i)
	}
	buf.WriteString(`]}`)
	return buf.String()
}

func itemsType() *typai.Type {
	return typai.Array(typai.Object(
		typai.Field("id", typai.String()),
		typai.Field("age", typai.Number()),
		typai.Field("active", typai.Boolean()),
		typai.Field("meta", typai.Object(typai.Field("score", typai.Number()))),
	))
}

// stringifyItems re-encodes the items array as a JSON string depth times.
func stringifyItems(tb testing.TB, text string, depth int) string {
	tb.Helper()
	var wrapper map[string]any
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		tb.Fatal(err)
	}
	inner := wrapper["items"]
	for i := 0; i < depth; i++ {
		b, err := json.Marshal(inner)
		if err != nil {
			tb.Fatal(err)
		}
		inner = string(b)
	}
	out, err := json.Marshal(map[string]any{"items": inner})
	if err != nil {
		tb.Fatal(err)
	}
	return string(out)
}

func benchParse(b *testing.B, text string, t *typai.Type, opts ...typai.Option) {
	b.Helper()
	p := typai.NewPipeline(t, opts...)
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_Parse_Object_Small_JSON(b *testing.B) {
	benchParse(b, `{"id":"u_1","name":"alice"}`, userType())
}

func Benchmark_Parse_Object_Small_JSON5(b *testing.B) {
	benchParse(b, `{id: 'u_1', name: 'alice',}`, userType())
}

func Benchmark_Parse_Object_Small_Stringified(b *testing.B) {
	benchParse(b, `"{\"id\":\"u_1\",\"name\":\"alice\"}"`, userType())
}

// ---- Arrays ----

func Benchmark_Parse_Array_1k(b *testing.B) {
	benchParse(b, generateItems(1000), itemsType())
}

func Benchmark_Parse_Array_1k_Stringified1(b *testing.B) {
	benchParse(b, stringifyItems(b, generateItems(1000), 1), itemsType())
}

func Benchmark_Parse_Array_1k_Stringified2(b *testing.B) {
	benchParse(b, stringifyItems(b, generateItems(1000), 2), itemsType())
}

func Benchmark_Parse_Array_1k_DecodeOnly(b *testing.B) {
	benchParse(b, generateItems(1000), itemsType(), typai.WithStages())
}

func Benchmark_GenerateSchema(b *testing.B) {
	t := itemsType()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := typai.GenerateSchema(t, "items", ""); err != nil {
			b.Fatal(err)
		}
	}
}
