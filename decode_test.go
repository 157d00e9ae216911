package typai_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typai"
)

func TestDecode_AggregatesErrors(t *testing.T) {
	typ := typai.Object(
		typai.Field("a", typai.Number()),
		typai.Field("b", typai.Boolean()),
		typai.Field("c", typai.String()),
	)
	_, err := typai.Decode(map[string]any{"a": "x", "b": "y", "c": "ok"}, typ)
	errs, ok := typai.AsValidationErrors(err)
	require.True(t, ok, "got %v", err)
	require.Len(t, errs, 2)

	assert.Equal(t, "/a", errs[0].Path.Pointer())
	assert.Equal(t, typai.CodeInvalidType, errs[0].Code)
	assert.Equal(t, "number", errs[0].Expected)
	assert.Equal(t, "x", errs[0].Received)
	assert.Contains(t, errs[0].Message, "number")

	assert.Equal(t, "/b", errs[1].Path.Pointer())
	assert.Equal(t, "boolean", errs[1].Expected)
}

func TestDecode_RequiredAndIgnorable(t *testing.T) {
	typ := typai.Object(
		typai.Field("a", typai.String()),
		typai.Field("r", typai.Ignorable(typai.String())),
	)
	_, err := typai.Decode(map[string]any{}, typ)
	errs, ok := typai.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, typai.CodeRequired, errs[0].Code)
	assert.Equal(t, []any{"a"}, errs[0].Path.Elements())
	assert.Nil(t, errs[0].Received)

	got, err := typai.Decode(map[string]any{"a": "x", "r": nil, "zzz": 1.0}, typ)
	require.NoError(t, err)
	// only declared properties are carried
	assert.Equal(t, map[string]any{"a": "x"}, got)

	got, err = typai.Decode(map[string]any{"a": "x", "r": "why"}, typ)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "r": "why"}, got)
}

func TestDecode_UnionFirstMatch(t *testing.T) {
	a := typai.Object(typai.Field("kind", typai.String()))
	b := typai.Object(typai.Field("kind", typai.String()), typai.Field("n", typai.Ignorable(typai.Number())))
	got, err := typai.Decode(map[string]any{"kind": "k", "n": 2.0}, typai.Union(a, b))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "k"}, got)

	got, err = typai.Decode(map[string]any{"kind": "k", "n": 2.0}, typai.Union(b, a))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "k", "n": 2.0}, got)
}

func TestDecode_UnionReportsFirstVariantErrors(t *testing.T) {
	typ := typai.Union(
		typai.Object(typai.Field("a", typai.Number()), typai.Field("b", typai.Number())),
		typai.String(),
	)
	_, err := typai.Decode(map[string]any{"a": "z", "b": "w"}, typ)
	errs, ok := typai.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "/a", errs[0].Path.Pointer())
	assert.Equal(t, "number", errs[0].Expected)
}

func TestDecode_LiteralAndEnum(t *testing.T) {
	v, err := typai.Decode(1, typai.Literal(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = typai.Decode("1", typai.Literal(1))
	errs, _ := typai.AsValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, typai.CodeInvalidLiteral, errs[0].Code)

	_, err = typai.Decode("angry", typai.Enum("happy", "sad"))
	errs, _ = typai.AsValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, typai.CodeInvalidEnum, errs[0].Code)
	assert.Equal(t, `"happy" | "sad"`, errs[0].Expected)

	v, err = typai.Decode(nil, typai.Union(typai.String(), typai.Null()))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecode_AcceptsGoCollections(t *testing.T) {
	v, err := typai.Decode([]string{"a", "b"}, typai.Array(typai.String()))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)

	v, err = typai.Decode(map[string]int{"n": 3}, typai.Object(typai.Field("n", typai.Number())))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 3.0}, v)
}

func TestDecode_ArrayElementPaths(t *testing.T) {
	typ := typai.Object(typai.Field("items", typai.Array(typai.Object(typai.Field("price", typai.Number())))))
	raw := map[string]any{"items": []any{
		map[string]any{"price": 1.0},
		map[string]any{"price": "cheap"},
		map[string]any{},
	}}
	_, err := typai.Decode(raw, typ)
	errs, ok := typai.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "items[1].price", errs[0].Path.String())
	assert.Equal(t, typai.CodeInvalidType, errs[0].Code)
	assert.Equal(t, "items[2].price", errs[1].Path.String())
	assert.Equal(t, typai.CodeRequired, errs[1].Code)
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := typai.Decode([]any{}, typai.Array(&typai.Type{}))
	require.NoError(t, err, "empty arrays never reach the element type")

	_, err = typai.Decode([]any{1.0}, typai.Array(&typai.Type{}))
	var ue *typai.UnsupportedTypeError
	assert.True(t, errors.As(err, &ue), "got %v", err)
}

func TestDecode_MaxDepth(t *testing.T) {
	typ := typai.Array(typai.Array(typai.Number()))
	_, err := typai.Decode([]any{[]any{1.0}}, typ, typai.WithMaxDepth(1))
	assert.ErrorIs(t, err, typai.ErrMaxDepth)
}

func TestDecode_NonFiniteNumbers(t *testing.T) {
	typ := typai.Object(typai.Field("n", typai.Number()))
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := typai.Decode(map[string]any{"n": f}, typ)
		errs, ok := typai.AsValidationErrors(err)
		require.True(t, ok, "%v: got %v", f, err)
		require.Len(t, errs, 1)
		assert.Equal(t, typai.CodeInvalidType, errs[0].Code)
		assert.Equal(t, []any{"n"}, errs[0].Path.Elements())
		assert.Equal(t, "number", errs[0].Expected)
	}

	got, err := typai.Decode(math.MaxFloat64, typai.Number())
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, got)
}

func TestExpectedLabel(t *testing.T) {
	root := typai.Object(
		typai.Field("items", typai.Array(typai.Object(typai.Field("price", typai.Describe(typai.Number(), "usd"))))),
		typai.Field("mode", typai.Union(typai.Object(typai.Field("speed", typai.Number())), typai.String())),
	)
	p := typai.Path{}
	assert.Equal(t, "number", typai.ExpectedLabel(root, p.Field("items").Index(3).Field("price")))
	assert.Equal(t, "number", typai.ExpectedLabel(root, p.Field("mode").Field("speed")))
	assert.Equal(t, "Array<{ price: number }>", typai.ExpectedLabel(root, p.Field("items")))
	// structure drifted: fall back to the root label
	assert.Equal(t, root.Name(), typai.ExpectedLabel(root, p.Field("missing")))
	assert.Equal(t, root.Name(), typai.ExpectedLabel(root, p.Field("items").Field("x")))
	assert.Equal(t, root.Name(), typai.ExpectedLabel(root, p))
}

type emotion struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
}

func TestDecodeInto(t *testing.T) {
	typ := typai.Object(typai.Field("emotion", typai.String()), typai.Field("intensity", typai.Number()))
	got, err := typai.DecodeInto[emotion](map[string]any{"emotion": "happy", "intensity": 0.7}, typ)
	require.NoError(t, err)
	assert.Equal(t, emotion{Emotion: "happy", Intensity: 0.7}, got)

	_, err = typai.DecodeInto[emotion](map[string]any{"emotion": 1.0}, typ)
	errs, ok := typai.AsValidationErrors(err)
	require.True(t, ok)
	assert.Len(t, errs, 2)
}
