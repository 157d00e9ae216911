package typai_test

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typai"
)

// compile runs a generated declaration through an independent JSON Schema
// implementation so the export stays valid outside of typai.
func compile(t *testing.T, doc *typai.Document) *jsonschema.Schema {
	t.Helper()
	b, err := json.Marshal(doc.Parameters)
	require.NoError(t, err)
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	require.NoError(t, err)

	c := jsonschema.NewCompiler()
	require.NoError(t, c.AddResource("parameters.json", v))
	sch, err := c.Compile("parameters.json")
	require.NoError(t, err)
	return sch
}

// instance re-reads a decoded value the way a validator would see it on the wire.
func instance(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	out, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	require.NoError(t, err)
	return out
}

func TestGeneratedSchema_AcceptsDecodedValues(t *testing.T) {
	root := typai.Object(
		typai.Field("emotion", typai.Enum("happy", "sad")),
		typai.Field("intensity", typai.WithDefault(typai.Number(), 0.5)),
		typai.Field("kind", typai.Literal("report")),
		typai.Field("tags", typai.Array(typai.String())),
		typai.Field("score", typai.Union(typai.Number(), typai.Null())),
		typai.Field("reasoning", typai.Ignorable(typai.Describe(typai.String(), "why"))),
	)
	doc, err := typai.GenerateSchema(root, "reportEmotion", "")
	require.NoError(t, err)
	sch := compile(t, doc)

	got, err := typai.ParseArguments(
		`{emotion: 'sad', intensity: "0.3", kind: 'report', tags: '["a","b"]', score: null}`,
		root,
	)
	require.NoError(t, err)
	assert.NoError(t, sch.Validate(instance(t, got)))

	// the schema rejects what the decoder rejects
	assert.Error(t, sch.Validate(instance(t, map[string]any{"emotion": "angry", "intensity": 1.0, "kind": "report", "tags": []any{}, "score": 1.0})))
	assert.Error(t, sch.Validate(instance(t, map[string]any{"emotion": "sad"})))
}

func TestGeneratedSchema_WrappedRoot(t *testing.T) {
	root := typai.Array(typai.Object(typai.Field("id", typai.String())))
	doc, err := typai.GenerateSchema(root, "list", "", typai.WithStrict())
	require.NoError(t, err)
	require.True(t, doc.Wrapped)
	sch := compile(t, doc)

	got, err := typai.ParseArguments(`{"items":[{"id":"a"},{"id":"b"}]}`, root)
	require.NoError(t, err)
	assert.NoError(t, sch.Validate(instance(t, map[string]any{"items": got})))

	assert.Error(t, sch.Validate(instance(t, got)), "bare array does not match the wrapper object")
	assert.Error(t, sch.Validate(instance(t, map[string]any{"items": got, "extra": true})))
}
