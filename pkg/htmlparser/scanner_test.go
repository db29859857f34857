package htmlparser

import (
	"strings"
	"testing"

	"github.com/vuecore/vuecore/pkg/ast"
)

type recorder struct {
	starts   []string
	ends     []string
	chars    []string
	comments []string
	warns    []string
}

func (r *recorder) opts() Options {
	return Options{
		ShouldKeepComment: true,
		ExpectHTML:        true,
		Start: func(tag string, attrs []ast.Attribute, unary bool, start, end int) {
			r.starts = append(r.starts, tag)
		},
		End: func(tag string, start, end int) {
			r.ends = append(r.ends, tag)
		},
		Chars: func(text string, start, end int) {
			if strings.TrimSpace(text) != "" {
				r.chars = append(r.chars, text)
			}
		},
		Comment: func(text string, start, end int) {
			r.comments = append(r.comments, text)
		},
		Warn: func(msg string, pos int) {
			r.warns = append(r.warns, msg)
		},
	}
}

func TestParseBasicElementTree(t *testing.T) {
	r := &recorder{}
	Parse(`<div id="app"><span>hi</span></div>`, r.opts())

	if len(r.starts) != 2 || r.starts[0] != "div" || r.starts[1] != "span" {
		t.Fatalf("unexpected starts: %v", r.starts)
	}
	if len(r.ends) != 2 || r.ends[0] != "span" || r.ends[1] != "div" {
		t.Fatalf("unexpected ends: %v", r.ends)
	}
	if len(r.chars) != 1 || r.chars[0] != "hi" {
		t.Fatalf("unexpected chars: %v", r.chars)
	}
}

func TestParseCapturesAttributesAndUnary(t *testing.T) {
	var gotAttrs []ast.Attribute
	var unary bool
	Parse(`<img src="a.png" :alt="label">`, Options{
		Start: func(tag string, attrs []ast.Attribute, u bool, start, end int) {
			gotAttrs = attrs
			unary = u
		},
	})
	if !unary {
		t.Fatal("expected img to be treated as unary (void element)")
	}
	if len(gotAttrs) != 2 {
		t.Fatalf("expected 2 attrs, got %v", gotAttrs)
	}
	found := map[string]ast.Attribute{}
	for _, a := range gotAttrs {
		found[a.Name] = a
	}
	if found["src"].Value != "a.png" || found["src"].Dynamic {
		t.Fatalf("unexpected src attr: %+v", found["src"])
	}
	if !found[":alt"].Dynamic || found[":alt"].Value != "label" {
		t.Fatalf("unexpected :alt attr: %+v", found[":alt"])
	}
}

func TestParseComment(t *testing.T) {
	r := &recorder{}
	Parse(`<div><!-- note --></div>`, r.opts())
	if len(r.comments) != 1 || strings.TrimSpace(r.comments[0]) != "note" {
		t.Fatalf("expected comment 'note', got %v", r.comments)
	}
}

func TestParseMismatchedEndTagWarns(t *testing.T) {
	r := &recorder{}
	Parse(`<div><span></div>`, r.opts())
	if len(r.warns) == 0 {
		t.Fatal("expected a mismatched end tag warning")
	}
	if len(r.ends) != 2 {
		t.Fatalf("expected both span and div to be closed, got %v", r.ends)
	}
}

func TestParseStrayLessThanInTextIsTreatedAsText(t *testing.T) {
	r := &recorder{}
	Parse(`<div>a<b</div>`, r.opts())

	if len(r.warns) != 0 {
		t.Fatalf("expected the stray '<' to recover without any warning, got %v", r.warns)
	}
	if len(r.starts) != 1 || r.starts[0] != "div" {
		t.Fatalf("expected a single start(div), got %v", r.starts)
	}
	if len(r.ends) != 1 || r.ends[0] != "div" {
		t.Fatalf("expected a single end(div), got %v", r.ends)
	}
	if len(r.chars) != 1 || r.chars[0] != "a<b" {
		t.Fatalf(`expected chars("a<b"), got %v`, r.chars)
	}
}

func TestParseUnclosedTagAtEOF(t *testing.T) {
	r := &recorder{}
	Parse(`<div><p>text`, r.opts())
	if len(r.ends) != 2 || r.ends[0] != "p" || r.ends[1] != "div" {
		t.Fatalf("expected EOF flush to close p then div, got %v", r.ends)
	}
}

func TestParsePlainTextElementScript(t *testing.T) {
	r := &recorder{}
	Parse(`<script>if (a < b) { x() }</script>`, r.opts())
	if len(r.chars) != 1 || r.chars[0] != "if (a < b) { x() }" {
		t.Fatalf("expected raw script body as a single text chunk, got %v", r.chars)
	}
	if len(r.starts) != 1 || len(r.ends) != 1 {
		t.Fatalf("expected exactly one script start/end, got %v / %v", r.starts, r.ends)
	}
}

func TestParseEndTagBrRewrite(t *testing.T) {
	r := &recorder{}
	Parse(`line1</br>line2`, r.opts())
	if len(r.starts) != 1 || r.starts[0] != "br" {
		t.Fatalf("expected </br> to synthesize a <br> start, got %v", r.starts)
	}
}
