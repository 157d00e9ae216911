package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/typai"
	"github.com/reoring/typai/descriptor"
	"github.com/reoring/typai/i18n"
	"github.com/reoring/typai/log"
	"github.com/reoring/typai/provider/openai"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	case "decode":
		return decodeCmd(args[1:], stdout, stderr)
	case "query":
		return queryCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "typai CLI\n\nUsage:\n  typai schema -f tool.yaml [-tool NAME] [-strict]\n  typai decode -f tool.yaml (-args TEXT | -args-file FILE) [-tool NAME] [-defaults] [-max-depth N] [-lang en|ja] [-v]\n  typai query  -f tool.yaml -prompt TEXT [-model M] [-base-url URL] [-defaults] [-timeout D] [-v]\n\nNotes:\n  - Descriptor files are YAML or JSON; several documents declare several tools.\n  - query reads the API key from OPENAI_API_KEY.")
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, tool string
	var strict bool
	fs.StringVar(&file, "f", "", "descriptor file (YAML or JSON)")
	fs.StringVar(&tool, "tool", "", "tool name when the file declares several (default: all)")
	fs.BoolVar(&strict, "strict", false, "set additionalProperties: false on every object")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if file == "" {
		fs.Usage()
		return 2
	}
	defs, err := descriptor.ReadFile(file)
	if err != nil {
		return fail(stderr, "load descriptor: %v", err)
	}
	if tool != "" {
		d, err := descriptor.Find(defs, tool)
		if err != nil {
			return fail(stderr, "%v", err)
		}
		defs = []*descriptor.Definition{d}
	}
	var opts []typai.SchemaOption
	if strict {
		opts = append(opts, typai.WithStrict())
	}
	docs := make([]*typai.Document, 0, len(defs))
	for _, d := range defs {
		doc, err := d.Tool().Declaration(opts...)
		if err != nil {
			return fail(stderr, "generate schema for %s: %v", d.Name, err)
		}
		docs = append(docs, doc)
	}
	var out any = docs
	if len(docs) == 1 {
		out = docs[0]
	}
	return printJSON(stdout, stderr, out)
}

func decodeCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, rawArgs, argsFile, tool, lang string
	var defaults, verbose bool
	var maxDepth int
	fs.StringVar(&file, "f", "", "descriptor file (YAML or JSON)")
	fs.StringVar(&rawArgs, "args", "", "tool call arguments text")
	fs.StringVar(&argsFile, "args-file", "", "file holding the tool call arguments text")
	fs.StringVar(&tool, "tool", "", "name of the tool that was called")
	fs.BoolVar(&defaults, "defaults", false, "backfill declared defaults")
	fs.IntVar(&maxDepth, "max-depth", typai.DefaultMaxDepth, "recursion ceiling")
	fs.StringVar(&lang, "lang", "en", "message language (en, ja)")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if file == "" || (rawArgs == "") == (argsFile == "") {
		fs.Usage()
		return 2
	}
	if verbose {
		log.SetLevel(log.LevelDebug)
	}
	i18n.SetLanguage(lang)

	if argsFile != "" {
		b, err := os.ReadFile(argsFile)
		if err != nil {
			return fail(stderr, "read arguments: %v", err)
		}
		rawArgs = string(b)
	}
	defs, err := descriptor.ReadFile(file)
	if err != nil {
		return fail(stderr, "load descriptor: %v", err)
	}
	opts := []typai.Option{typai.WithMaxDepth(maxDepth)}
	if defaults {
		opts = append(opts, typai.WithDefaults())
	}

	var call *typai.ToolCall
	if tool == "" {
		d, err := descriptor.Find(defs, "")
		if err != nil {
			return fail(stderr, "%v", err)
		}
		call, err = d.Tool().Parse(d.Name, rawArgs, opts...)
		if err != nil {
			return report(stderr, err)
		}
	} else {
		call, err = typai.Dispatch(descriptor.Tools(defs), tool, rawArgs, opts...)
		if err != nil {
			return report(stderr, err)
		}
	}
	return printJSON(stdout, stderr, call.Arguments)
}

func queryCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, prompt, model, baseURL string
	var defaults, strict, verbose bool
	var timeout time.Duration
	fs.StringVar(&file, "f", "", "descriptor file (YAML or JSON)")
	fs.StringVar(&prompt, "prompt", "", "user prompt")
	fs.StringVar(&model, "model", "gpt-4o-mini", "chat model")
	fs.StringVar(&baseURL, "base-url", "", "OpenAI-compatible base URL")
	fs.BoolVar(&defaults, "defaults", false, "backfill declared defaults")
	fs.BoolVar(&strict, "strict", false, "set additionalProperties: false on every object")
	fs.DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if file == "" || prompt == "" {
		fs.Usage()
		return 2
	}
	if verbose {
		log.SetLevel(log.LevelDebug)
	}
	defs, err := descriptor.ReadFile(file)
	if err != nil {
		return fail(stderr, "load descriptor: %v", err)
	}
	var opts []typai.Option
	if defaults {
		opts = append(opts, typai.WithDefaults())
	}

	client := openai.New(model, openai.Options{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: baseURL,
		Strict:  strict,
	})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tools := descriptor.Tools(defs)
	var call *typai.ToolCall
	if len(tools) == 1 {
		call, err = client.Query(ctx, openai.Prompt(prompt), tools[0], opts...)
	} else {
		call, err = client.Dispatch(ctx, openai.Prompt(prompt), tools, opts...)
	}
	if err != nil {
		return report(stderr, err)
	}
	return printJSON(stdout, stderr, map[string]any{"tool": call.Name, "arguments": call.Arguments})
}

// report prints one line per validation error, or the error itself.
func report(w io.Writer, err error) int {
	if errs, ok := typai.AsValidationErrors(err); ok {
		fmt.Fprintf(w, "decode failed: %d error(s)\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  %s\t%s\t%s (received %s)\n", e.Path.Pointer(), e.Code, e.Message, render(e.Received))
		}
		return 1
	}
	var re *typai.ReparseError
	if errors.As(err, &re) {
		fmt.Fprintf(w, "%s at %s: %v\n", i18n.T("parse_error", nil), re.Path.Pointer(), re.Cause)
		return 1
	}
	var de *typai.DepthError
	if errors.As(err, &de) {
		fmt.Fprintf(w, "%s at %s\n", i18n.T("max_depth", map[string]string{"limit": fmt.Sprint(de.Limit)}), de.Path.Pointer())
		return 1
	}
	if typai.IsInstructionError(err) {
		fmt.Fprintf(w, "%s: %v\n", i18n.T("instructions", nil), err)
		return 1
	}
	fmt.Fprintln(w, err)
	return 1
}

func render(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func printJSON(stdout, stderr io.Writer, v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail(stderr, "encode output: %v", err)
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}

func fail(w io.Writer, format string, a ...any) int {
	fmt.Fprintf(w, format+"\n", a...)
	return 1
}
