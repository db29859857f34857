package htmlparser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vuecore/vuecore/internal/rmetrics"
	"github.com/vuecore/vuecore/pkg/ast"
)

var (
	startTagOpenRe  = regexp.MustCompile(`^<([a-zA-Z][-.:0-9_a-zA-Z]*)`)
	startTagCloseRe = regexp.MustCompile(`^\s*(/?)>`)
	endTagRe        = regexp.MustCompile(`^<\/([a-zA-Z][-.:0-9_a-zA-Z]*)[^>]*>`)
	doctypeRe       = regexp.MustCompile(`(?i)^<!DOCTYPE[^>]*>`)
	attrRe          = regexp.MustCompile(`^\s*([^\s"'<>\/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)

	entityDecoder        = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", "\"", "&amp;", "&", "&#39;", "'")
	newlineEntityDecoder = strings.NewReplacer("&#10;", "\n", "&#9;", "\t")
)

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

var nonPhrasingTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "div": true, "dl": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "main": true, "menu": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"ul": true,
}

var optionalCloseTags = map[string]bool{
	"li": true, "dd": true, "dt": true, "option": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "td": true, "th": true, "p": true,
}

func isUnaryTag(tag string) bool { return voidTags[strings.ToLower(tag)] }

// Options carries the scan-time callbacks the parser fires events into;
// a nil callback is simply skipped.
type Options struct {
	ShouldKeepComment        bool
	ExpectHTML               bool
	IsPlainTextElement       func(tag string) bool
	ShouldDecodeNewlines     func(tag string) bool
	ShouldDecodeNewlinesHref func(tag string) bool

	Start   func(tag string, attrs []ast.Attribute, unary bool, start, end int)
	End     func(tag string, start, end int)
	Chars   func(text string, start, end int)
	Comment func(text string, start, end int)
	Warn    func(msg string, pos int)
}

func defaultIsPlainTextElement(tag string) bool {
	switch tag {
	case "script", "style", "textarea":
		return true
	default:
		return false
	}
}

type stackFrame struct {
	tag   string
	start int
}

type rawAttr struct {
	name     string
	value    string
	hasValue bool
	dynamic  bool
}

type startTagMatch struct {
	tagName    string
	attrs      []rawAttr
	unarySlash string
	start, end int
}

// Parse scans html top to bottom, firing opts' callbacks for every
// comment, start tag, end tag, and text run it recognizes (spec section
// 4.9). It never builds a tree; pkg/ast.Builder is the consumer.
func Parse(html string, opts Options) {
	start := time.Now()
	defer func() { rmetrics.RecordParse("html", time.Since(start)) }()

	if opts.IsPlainTextElement == nil {
		opts.IsPlainTextElement = defaultIsPlainTextElement
	}

	var stack []stackFrame
	index := 0
	last := html

	for len(last) > 0 {
		if len(stack) > 0 && opts.IsPlainTextElement(stack[len(stack)-1].tag) {
			top := stack[len(stack)-1].tag
			consumed, closed := scanPlainTextElement(last, index, top, &stack, opts)
			if consumed > 0 {
				index += consumed
				last = last[consumed:]
				_ = closed
				continue
			}
		}

		advanced := false

		if strings.HasPrefix(last, "<!--") {
			if end := strings.Index(last, "-->"); end >= 0 {
				if opts.ShouldKeepComment && opts.Comment != nil {
					opts.Comment(last[4:end], index, index+end+3)
				}
				index += end + 3
				last = last[end+3:]
				advanced = true
			}
		} else if !advanced && strings.HasPrefix(last, "<![") {
			if end := strings.Index(last, "]>"); end >= 0 {
				index += end + 2
				last = last[end+2:]
				advanced = true
			}
		} else if !advanced {
			if m := doctypeRe.FindString(last); m != "" {
				index += len(m)
				last = last[len(m):]
				advanced = true
			}
		}

		if !advanced && strings.HasPrefix(last, "</") {
			if m := endTagRe.FindStringSubmatch(last); m != nil {
				curIndex := index
				index += len(m[0])
				last = last[len(m[0]):]
				parseEndTag(m[1], curIndex, index, &stack, opts)
				advanced = true
			}
		}

		if !advanced && startTagOpenRe.MatchString(last) {
			match, rest, newIndex, ok := parseStartTag(last, index)
			if ok {
				handleStartTag(match, &stack, opts)
				index = newIndex
				last = rest
				advanced = true
			}
		}

		if advanced {
			continue
		}

		// Text run: gather up to the next '<' that begins a recognizable
		// construct, per spec's "otherwise" row.
		textEnd := nextRecognizableLT(last)
		var text string
		if textEnd < 0 {
			text = last
		} else {
			text = last[:textEnd]
		}

		if text == "" {
			if opts.Warn != nil {
				opts.Warn("malformed template: scanner made no progress", index)
			}
			if opts.Chars != nil {
				opts.Chars(last, index, index+len(last))
			}
			break
		}

		if opts.Chars != nil {
			opts.Chars(text, index, index+len(text))
		}
		index += len(text)
		last = last[len(text):]
	}

	// Close anything still open at EOF.
	parseEndTag("", index, index, &stack, opts)
}

// nextRecognizableLT returns the offset of the next '<' in s that opens
// a comment, conditional comment, doctype, end tag, or start tag, or -1
// if none exists (the whole remainder is text).
func nextRecognizableLT(s string) int {
	offset := 0
	for {
		rel := strings.IndexByte(s[offset:], '<')
		if rel < 0 {
			return -1
		}
		pos := offset + rel
		cand := s[pos:]
		if isRecognizableConstruct(cand) {
			return pos
		}
		offset = pos + 1
	}
}

// isRecognizableConstruct reports whether s opens a comment, conditional
// comment, doctype, end tag, or a start tag that actually closes. A bare
// "<" followed by a letter is not enough on its own (attrRe's character
// class excludes "<"/">", so a candidate start tag that never reaches
// its closing ">" can't be completed as one) — probing with
// parseStartTag is what tells a real tag open from a stray "<" that
// belongs to the surrounding text (spec section 4.9 "otherwise" row).
func isRecognizableConstruct(s string) bool {
	if strings.HasPrefix(s, "<!--") || strings.HasPrefix(s, "<![") {
		return true
	}
	if doctypeRe.MatchString(s) {
		return true
	}
	if strings.HasPrefix(s, "</") {
		return endTagRe.MatchString(s)
	}
	if !startTagOpenRe.MatchString(s) {
		return false
	}
	_, _, _, ok := parseStartTag(s, 0)
	return ok
}

// scanPlainTextElement handles the script/style/textarea short-circuit:
// everything up to the matching close tag is a single text chunk.
func scanPlainTextElement(last string, index int, tag string, stack *[]stackFrame, opts Options) (int, bool) {
	closeRe := regexp.MustCompile(`(?is)^([\s\S]*?)(</` + regexp.QuoteMeta(tag) + `[^>]*>)`)
	m := closeRe.FindStringSubmatchIndex(last)
	if m == nil {
		if opts.Warn != nil {
			opts.Warn(fmt.Sprintf("unclosed plain-text element <%s>", tag), index)
		}
		if opts.Chars != nil && last != "" {
			opts.Chars(last, index, index+len(last))
		}
		return len(last), false
	}

	text := last[m[2]:m[3]]
	if tag != "script" && tag != "style" {
		text = stripCDATAAndComments(text)
	}
	if opts.Chars != nil && text != "" {
		opts.Chars(text, index, index+len(text))
	}
	parseEndTag(tag, index+m[2]+len(text), index+m[1], stack, opts)
	return m[1], true
}

func stripCDATAAndComments(s string) string {
	s = strings.TrimPrefix(s, "<![CDATA[")
	s = strings.TrimSuffix(s, "]]>")
	s = strings.TrimPrefix(s, "<!--")
	s = strings.TrimSuffix(s, "-->")
	return s
}

// parseStartTag matches "<tagname" then repeatedly consumes attributes
// until startTagCloseRe matches. Returns ok=false (leaving last/index
// untouched) if the tag never closes, so the caller falls back to
// treating '<' as literal text.
func parseStartTag(last string, index int) (*startTagMatch, string, int, bool) {
	open := startTagOpenRe.FindStringSubmatchIndex(last)
	if open == nil {
		return nil, last, index, false
	}
	match := &startTagMatch{tagName: last[open[2]:open[3]], start: index}
	rest := last[open[1]:]
	consumed := open[1]

	for {
		if c := startTagCloseRe.FindStringSubmatchIndex(rest); c != nil {
			match.unarySlash = rest[c[2]:c[3]]
			consumed += c[1]
			rest = rest[c[1]:]
			match.end = index + consumed
			return match, rest, index + consumed, true
		}

		a := attrRe.FindStringSubmatchIndex(rest)
		if a == nil {
			return nil, last, index, false
		}
		name := rest[a[2]:a[3]]
		value, hasValue := "", false
		switch {
		case a[4] >= 0:
			value, hasValue = rest[a[4]:a[5]], true
		case a[6] >= 0:
			value, hasValue = rest[a[6]:a[7]], true
		case a[8] >= 0:
			value, hasValue = rest[a[8]:a[9]], true
		}
		match.attrs = append(match.attrs, rawAttr{
			name:     name,
			value:    value,
			hasValue: hasValue,
			dynamic:  isDynamicAttrName(name),
		})
		consumed += a[1]
		rest = rest[a[1]:]
	}
}

func isDynamicAttrName(name string) bool {
	if strings.HasPrefix(name, ":") || strings.HasPrefix(name, "@") || strings.HasPrefix(name, "#") {
		return true
	}
	if strings.HasPrefix(name, "v-bind:") || strings.HasPrefix(name, "v-on:") || strings.HasPrefix(name, "v-slot:") {
		return true
	}
	return strings.Contains(name, "[") && strings.Contains(name, "]")
}

func handleStartTag(match *startTagMatch, stack *[]stackFrame, opts Options) {
	tagName := match.tagName
	unary := match.unarySlash == "/" || isUnaryTag(tagName)

	if opts.ExpectHTML {
		if top := topFrame(*stack); top != nil && top.tag == "p" && nonPhrasingTags[strings.ToLower(tagName)] {
			parseEndTag("p", match.start, match.start, stack, opts)
		}
		if top := topFrame(*stack); top != nil && optionalCloseTags[strings.ToLower(tagName)] && top.tag == tagName {
			parseEndTag(tagName, match.start, match.start, stack, opts)
		}
	}

	attrs := make([]ast.Attribute, 0, len(match.attrs))
	for _, a := range match.attrs {
		value := a.value
		if a.hasValue {
			decodeNewlines := opts.ShouldDecodeNewlines != nil && opts.ShouldDecodeNewlines(tagName)
			if tagName == "a" && a.name == "href" && opts.ShouldDecodeNewlinesHref != nil {
				decodeNewlines = opts.ShouldDecodeNewlinesHref(tagName)
			}
			value = decodeAttrValue(value, decodeNewlines)
		}
		attrs = append(attrs, ast.Attribute{Name: a.name, Value: value, Dynamic: a.dynamic})
	}

	if !unary {
		*stack = append(*stack, stackFrame{tag: tagName, start: match.start})
	}
	if opts.Start != nil {
		opts.Start(tagName, attrs, unary, match.start, match.end)
	}
}

func decodeAttrValue(s string, decodeNewlines bool) string {
	out := entityDecoder.Replace(s)
	if decodeNewlines {
		out = newlineEntityDecoder.Replace(out)
	}
	return out
}

func topFrame(stack []stackFrame) *stackFrame {
	if len(stack) == 0 {
		return nil
	}
	return &stack[len(stack)-1]
}

// parseEndTag walks stack from the top looking for tagName (case-
// insensitive). Every intermediate unclosed frame gets a mismatch
// warning and an End callback; the matched frame and everything above
// it are then popped. tagName == "" closes everything (EOF flush).
// </br> is rewritten to a unary <br>; </p> with nothing open
// autogenerates a start+end pair.
func parseEndTag(tagName string, start, end int, stack *[]stackFrame, opts Options) {
	lower := strings.ToLower(tagName)
	pos := -1

	if tagName == "" {
		pos = 0
	} else {
		for i := len(*stack) - 1; i >= 0; i-- {
			if strings.ToLower((*stack)[i].tag) == lower {
				pos = i
				break
			}
		}
	}

	if pos >= 0 {
		for i := len(*stack) - 1; i >= pos; i-- {
			if (i > pos || tagName == "") && opts.Warn != nil {
				opts.Warn(fmt.Sprintf("tag <%s> has no matching end tag", (*stack)[i].tag), (*stack)[i].start)
			}
			if opts.End != nil {
				opts.End((*stack)[i].tag, start, end)
			}
		}
		*stack = (*stack)[:pos]
		return
	}

	switch lower {
	case "br":
		if opts.Start != nil {
			opts.Start("br", nil, true, start, end)
		}
	case "p":
		if opts.Start != nil {
			opts.Start("p", nil, false, start, end)
		}
		if opts.End != nil {
			opts.End("p", start, end)
		}
	}
}
