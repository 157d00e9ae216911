// Package typai turns a typed description of an LLM tool-call result into a
// provider schema, and decodes the provider's raw arguments back into a
// checked value.
//
// A descriptor is a small immutable tree of *Type nodes (String, Number,
// Object, Array, Union, Literal, Enum, plus the Annotate and Ignorable
// wrappers). The same tree drives four steps:
//
//   - GenerateSchema lowers it into a JSON Schema function declaration.
//     Non-object roots are wrapped as {items: root}.
//   - Normalize peels JSON that the model re-encoded as a string, at any
//     depth, guided by the expected structure. String fields are never
//     reparsed.
//   - ApplyDefaults fills absent or null values from "default" annotations.
//   - Decode validates the value and reports every mismatch with its path
//     and the expected type label.
//
// ParseArguments (or a reusable Pipeline) sequences the steps for one
// arguments text:
//
//	emotion := typai.Object(
//		typai.Field("emotion", typai.Enum("happy", "sad")),
//		typai.Field("intensity", typai.WithDefault(typai.Number(), 0.5)),
//	)
//	v, err := typai.ParseArguments(`{"emotion":"happy","intensity":null}`, emotion, typai.WithDefaults())
//
// Failures come in distinct categories: *ReparseError for text that is not
// JSON even under JSON5 rules, ValidationErrors for shape mismatches, and
// *InstructionError when the model called the wrong tool (see Tool.Parse).
// Provider calls live in provider/openai.
package typai
