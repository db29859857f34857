package htmlparser

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/vuecore/vuecore/internal/rmetrics"
)

// Token is one piece of a parsed interpolation expression: either a
// JSON-encoded literal string or a dynamic `_s(expr)` call.
type Token struct {
	Dynamic bool
	Text    string // literal text (quoted), or the raw "_s(expr)" call
}

// RawToken mirrors Token in the `{'@binding': expr}` shape structured
// consumers (the AST builder) want instead of a joined expression
// string.
type RawToken struct {
	Binding string // empty for a literal segment
	Literal string
}

// TextParseResult is the {expression, tokens} pair spec section 4.10
// describes. Expression is every Token joined with "+", ready to embed
// in generated render code; Tokens is the structured form.
type TextParseResult struct {
	Expression string
	Tokens     []Token
	RawTokens  []RawToken
}

// Delimiters is a (open, close) mustache pair, default {{ }}.
type Delimiters [2]string

var defaultDelimiters = Delimiters{"{{", "}}"}

var delimiterRegexCache sync.Map // Delimiters -> *regexp.Regexp

func delimiterRegex(d Delimiters) *regexp.Regexp {
	if v, ok := delimiterRegexCache.Load(d); ok {
		return v.(*regexp.Regexp)
	}
	pattern := regexp.QuoteMeta(d[0]) + `((?:.|\n)+?)` + regexp.QuoteMeta(d[1])
	re := regexp.MustCompile(pattern)
	delimiterRegexCache.Store(d, re)
	return re
}

// ParseText scans text for delim-wrapped interpolations and returns the
// combined expression plus raw tokens, or ok=false if text has no
// interpolation at all (plain text, returned verbatim by the caller).
func ParseText(text string, delim Delimiters) (TextParseResult, bool) {
	start := time.Now()
	defer func() { rmetrics.RecordParse("text", time.Since(start)) }()

	if delim[0] == "" && delim[1] == "" {
		delim = defaultDelimiters
	}
	re := delimiterRegex(delim)
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return TextParseResult{}, false
	}

	var tokens []Token
	var raw []RawToken
	lastEnd := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		exprStart, exprEnd := m[2], m[3]

		if start > lastEnd {
			literal := text[lastEnd:start]
			tokens = append(tokens, Token{Text: jsonString(literal)})
			raw = append(raw, RawToken{Literal: literal})
		}

		expr := strings.TrimSpace(text[exprStart:exprEnd])
		expr = applyFilters(expr)
		tokens = append(tokens, Token{Dynamic: true, Text: "_s(" + expr + ")"})
		raw = append(raw, RawToken{Binding: expr})

		lastEnd = end
	}

	if lastEnd < len(text) {
		literal := text[lastEnd:]
		tokens = append(tokens, Token{Text: jsonString(literal)})
		raw = append(raw, RawToken{Literal: literal})
	}

	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}

	return TextParseResult{
		Expression: strings.Join(parts, "+"),
		Tokens:     tokens,
		RawTokens:  raw,
	}, true
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// applyFilters rewrites "expr | filterName | otherFilter(arg)" into
// nested calls "_f("otherFilter")(_f("filterName")(expr),arg)". The
// filter registry/lookup itself is out of scope (spec section 4.10);
// this only produces the call-site shape a render function would emit.
func applyFilters(expr string) string {
	if !strings.Contains(expr, "|") {
		return expr
	}
	parts := splitTopLevelPipes(expr)
	if len(parts) < 2 {
		return expr
	}
	result := strings.TrimSpace(parts[0])
	for _, filter := range parts[1:] {
		result = wrapFilter(result, strings.TrimSpace(filter))
	}
	return result
}

// splitTopLevelPipes splits on '|' that is outside quotes and not part
// of a '||' operator.
func splitTopLevelPipes(expr string) []string {
	var parts []string
	var buf strings.Builder
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case quote != 0:
			buf.WriteByte(c)
			if c == quote && (i == 0 || expr[i-1] != '\\') {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			buf.WriteByte(c)
		case c == '|' && i+1 < len(expr) && expr[i+1] == '|':
			buf.WriteByte(c)
			buf.WriteByte(expr[i+1])
			i++
		case c == '|':
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	parts = append(parts, buf.String())
	return parts
}

func wrapFilter(expr, filter string) string {
	name := filter
	var args []string
	if i := strings.IndexByte(filter, '('); i >= 0 && strings.HasSuffix(filter, ")") {
		name = filter[:i]
		argStr := filter[i+1 : len(filter)-1]
		if strings.TrimSpace(argStr) != "" {
			args = strings.Split(argStr, ",")
			for i := range args {
				args[i] = strings.TrimSpace(args[i])
			}
		}
	}
	call := `_f("` + strings.TrimSpace(name) + `")(` + expr
	for _, a := range args {
		call += "," + a
	}
	return call + ")"
}
