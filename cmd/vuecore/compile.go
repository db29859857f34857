package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vuecore/vuecore/pkg/ast"
	"github.com/vuecore/vuecore/pkg/htmlparser"
	"github.com/vuecore/vuecore/pkg/optimizer"
)

func compileCmd() *cobra.Command {
	var expectHTML bool
	var keepComments bool

	cmd := &cobra.Command{
		Use:   "compile <file.html>",
		Short: "Parse and statically optimize a template file",
		Long: `Run the HTML parser, mustache text parser, and static optimizer
over a template file and print the annotated AST as JSON.

This is a debug aid for inspecting what the optimizer marked static
and which nodes it promoted to static roots; it does not generate
render code.

Examples:
  vuecore compile card.html
  vuecore compile --keep-comments card.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], expectHTML, keepComments)
		},
	}

	cmd.Flags().BoolVar(&expectHTML, "expect-html", true, "enable HTML5 auto-close heuristics")
	cmd.Flags().BoolVar(&keepComments, "keep-comments", false, "preserve HTML comments in the output")

	return cmd
}

func runCompile(path string, expectHTML, keepComments bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	builder := ast.NewBuilder(func(text string, delim [2]string) (string, []ast.TextSegment, bool) {
		result, ok := htmlparser.ParseText(text, htmlparser.Delimiters(delim))
		if !ok {
			return "", nil, false
		}
		segments := make([]ast.TextSegment, len(result.RawTokens))
		for i, t := range result.RawTokens {
			segments[i] = ast.TextSegment{Expression: t.Binding != "", Text: firstNonEmpty(t.Binding, t.Literal)}
		}
		return result.Expression, segments, true
	})

	htmlparser.Parse(string(data), htmlparser.Options{
		ExpectHTML:        expectHTML,
		ShouldKeepComment: keepComments,
		Start:             builder.OnStart,
		End:               builder.OnEnd,
		Chars:             builder.OnChars,
		Comment:           builder.OnComment,
		Warn:              builder.OnWarn,
	})

	if builder.Root == nil {
		errorMsg("no root element found in %s", path)
		return fmt.Errorf("empty template")
	}

	optimizer.MarkStatic(builder.Root)
	optimizer.MarkStaticRoots(builder.Root, false)

	for _, w := range builder.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	out, err := json.MarshalIndent(builder.Root, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
