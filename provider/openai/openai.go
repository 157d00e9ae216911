// Package openai connects typai tools to the OpenAI Chat Completions API.
// Requests force a tool call (tool_choice "required") and the returned
// arguments go through the typai pipeline.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/reoring/typai"
	"github.com/reoring/typai/log"
)

const (
	queryInstruction    = "At the end, call the provided tool."
	dispatchInstruction = "Choose and call one of the provided tools."
)

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string // Optional: for OpenAI-compatible APIs
	// MaxRetries overrides the SDK retry count when >= 0. Nil keeps the SDK default.
	MaxRetries *int
	// Strict sets additionalProperties: false in every declared schema.
	Strict bool
	// RequestOptions are appended to the SDK client options.
	RequestOptions []option.RequestOption
}

// Client issues tool-forcing chat completions for one model.
type Client struct {
	client openai.Client
	model  string
	strict bool
}

// New creates a client for model.
func New(model string, opts Options) *Client {
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.MaxRetries != nil && *opts.MaxRetries >= 0 {
		clientOpts = append(clientOpts, option.WithMaxRetries(*opts.MaxRetries))
	}
	clientOpts = append(clientOpts, opts.RequestOptions...)
	return &Client{
		client: openai.NewClient(clientOpts...),
		model:  model,
		strict: opts.Strict,
	}
}

// ToolParam converts a tool into an SDK tool declaration.
func ToolParam(tool *typai.Tool, opts ...typai.SchemaOption) (openai.ChatCompletionToolParam, error) {
	doc, err := tool.Declaration(opts...)
	if err != nil {
		return openai.ChatCompletionToolParam{}, err
	}
	params, err := doc.Parameters.Map()
	if err != nil {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("marshal schema for %s: %w", doc.Name, err)
	}
	fn := openai.FunctionDefinitionParam{
		Name:       doc.Name,
		Parameters: shared.FunctionParameters(params),
	}
	if doc.Description != "" {
		fn.Description = openai.String(doc.Description)
	}
	return openai.ChatCompletionToolParam{Function: fn}, nil
}

// Prompt wraps a single user prompt as a message list.
func Prompt(text string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(text)}
}

// Query asks the model to call tool and decodes its arguments.
func (c *Client) Query(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	tool *typai.Tool,
	opts ...typai.Option,
) (*typai.ToolCall, error) {
	completion, err := c.complete(ctx, messages, queryInstruction, []*typai.Tool{tool})
	if err != nil {
		return nil, err
	}
	name, args, err := ExtractToolCall(completion)
	if err != nil {
		return nil, err
	}
	return tool.Parse(name, args, opts...)
}

// Dispatch offers every tool, lets the model pick one and decodes the call.
// ToolCall.Index identifies the chosen tool.
func (c *Client) Dispatch(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	tools []*typai.Tool,
	opts ...typai.Option,
) (*typai.ToolCall, error) {
	if len(tools) == 0 {
		return nil, errors.New("openai: no tools to dispatch")
	}
	completion, err := c.complete(ctx, messages, dispatchInstruction, tools)
	if err != nil {
		return nil, err
	}
	name, args, err := ExtractToolCall(completion)
	if err != nil {
		return nil, err
	}
	return typai.Dispatch(tools, name, args, opts...)
}

func (c *Client) complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	instruction string,
	tools []*typai.Tool,
) (*openai.ChatCompletion, error) {
	var schemaOpts []typai.SchemaOption
	if c.strict {
		schemaOpts = append(schemaOpts, typai.WithStrict())
	}
	params := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		p, err := ToolParam(t, schemaOpts...)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	msgs = append(msgs, messages...)
	msgs = append(msgs, openai.SystemMessage(instruction))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:      shared.ChatModel(c.model),
		Messages:   msgs,
		Tools:      params,
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("required")},
	})
	if err != nil {
		log.Errorf("openai: chat completion for model %s failed: %v", c.model, err)
		return nil, fmt.Errorf("provider error: %w", err)
	}
	return completion, nil
}

// ExtractToolCall returns the name and raw arguments of the first tool call.
// A response without choices is an *typai.UnexpectedResponseError; a choice
// without tool calls means the model ignored the instruction and yields an
// *typai.InstructionError.
func ExtractToolCall(completion *openai.ChatCompletion) (name, arguments string, err error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", "", &typai.UnexpectedResponseError{Message: "response has no choices"}
	}
	choice := completion.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		return "", "", &typai.InstructionError{
			Reason:   fmt.Sprintf("tool_calls is not found (finish_reason %q)", choice.FinishReason),
			Response: choice.Message.Content,
		}
	}
	fn := choice.Message.ToolCalls[0].Function
	log.Debugf("openai: model called %s", fn.Name)
	return fn.Name, fn.Arguments, nil
}
