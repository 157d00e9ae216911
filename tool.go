package typai

import (
	"fmt"
)

// Tool is a single function declaration offered to a model.
type Tool struct {
	Name        string
	Description string
	Parameters  *Type
}

// NewTool builds a tool declaration.
func NewTool(name, description string, params *Type) *Tool {
	return &Tool{Name: name, Description: description, Parameters: params}
}

// Declaration compiles the tool into the document sent to the provider.
func (t *Tool) Declaration(opts ...SchemaOption) (*Document, error) {
	return GenerateSchema(t.Parameters, t.Name, t.Description, opts...)
}

// Parse decodes the arguments of a call the model made to calledName. A name
// other than t.Name means the model did not follow instructions and yields an
// *InstructionError rather than a parse or decode failure.
func (t *Tool) Parse(calledName, rawArgs string, opts ...Option) (*ToolCall, error) {
	if calledName != t.Name {
		return nil, &InstructionError{
			Reason:   fmt.Sprintf("expected a call to %q, got %q", t.Name, calledName),
			Response: rawArgs,
		}
	}
	args, err := ParseArguments(rawArgs, t.Parameters, opts...)
	if err != nil {
		return nil, err
	}
	return &ToolCall{Tool: t, Name: t.Name, Arguments: args}, nil
}

// ToolCall is a decoded call. Index is the position of Tool in the list
// passed to Dispatch (0 for a single-tool query).
type ToolCall struct {
	Tool      *Tool
	Index     int
	Name      string
	Arguments any
}

// Dispatch selects the tool the model called among tools and decodes its
// arguments. An unknown name yields an *InstructionError.
func Dispatch(tools []*Tool, calledName, rawArgs string, opts ...Option) (*ToolCall, error) {
	for i, t := range tools {
		if t.Name != calledName {
			continue
		}
		call, err := t.Parse(calledName, rawArgs, opts...)
		if err != nil {
			return nil, err
		}
		call.Index = i
		return call, nil
	}
	return nil, &InstructionError{
		Reason:   fmt.Sprintf("model called unknown tool %q", calledName),
		Response: rawArgs,
	}
}

// Handler consumes the decoded arguments of one tool.
type Handler func(args any) error

// HandleToolCall invokes handlers[call.Index]. A missing or nil handler
// returns ErrUnhandledToolCall.
func HandleToolCall(call *ToolCall, handlers ...Handler) error {
	if call == nil || call.Index < 0 || call.Index >= len(handlers) || handlers[call.Index] == nil {
		name := ""
		if call != nil {
			name = call.Name
		}
		return fmt.Errorf("%w: %q", ErrUnhandledToolCall, name)
	}
	return handlers[call.Index](call.Arguments)
}

// Bind converts the call arguments into T. Arguments were decoded with the
// options given to Parse, so they are converted as they are.
func Bind[T any](call *ToolCall) (T, error) {
	if call == nil {
		var zero T
		return zero, fmt.Errorf("%w: nil call", ErrUnhandledToolCall)
	}
	return convert[T](call.Arguments)
}
