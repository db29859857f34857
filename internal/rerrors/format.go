package rerrors

import (
	"fmt"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

var colorEnabled = true

// DisableColors turns off ANSI color output (e.g. when stdout isn't a tty).
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI color output back on.
func EnableColors() { colorEnabled = true }

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string    { return color(colorRed, text) }
func yellow(text string) string { return color(colorYellow, text) }
func cyan(text string) string   { return color(colorCyan, text) }
func gray(text string) string   { return color(colorGray, text) }
func bold(text string) string   { return color(colorBold, text) }

// Format renders a multi-line, source-framed error for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(red(bold("error ")))
		b.WriteString(bold(e.Code + ": "))
		b.WriteString(e.Message)
	} else {
		b.WriteString(red(bold("error: ")))
		b.WriteString(e.Message)
	}
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  ")
		b.WriteString(cyan(e.Location.String()))
		b.WriteString("\n\n")

		if len(e.Context) > 0 {
			startLine := e.Location.Line - len(e.Context)/2
			for i, line := range e.Context {
				lineNum := startLine + i
				if lineNum == e.Location.Line {
					b.WriteString("  ")
					b.WriteString(red("-> "))
					b.WriteString(fmt.Sprintf("%4d", lineNum))
					b.WriteString(gray(" | "))
					b.WriteString(line)
					b.WriteString("\n")
					if e.Location.Column > 0 {
						b.WriteString("       ")
						b.WriteString(gray("| "))
						b.WriteString(strings.Repeat(" ", e.Location.Column-1))
						b.WriteString(red("^"))
						b.WriteString("\n")
					}
				} else {
					b.WriteString("    ")
					b.WriteString(fmt.Sprintf("%4d", lineNum))
					b.WriteString(gray(" | "))
					b.WriteString(line)
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(yellow("hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	if e.Example != "" {
		b.WriteString("  example:\n")
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		b.WriteString("  ")
		b.WriteString(gray("see: "))
		b.WriteString(e.DocURL)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact renders a single-line "file:line: code: message" form.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// FormatJSON renders the error as a JSON object, for machine consumers
// (editor integrations, CI log parsers).
func (e *Error) FormatJSON() string {
	var b strings.Builder
	b.WriteString("{")
	if e.Code != "" {
		fmt.Fprintf(&b, "%q:%q,", "code", e.Code)
	}
	fmt.Fprintf(&b, "%q:%q,", "category", e.Category)
	fmt.Fprintf(&b, "%q:%q", "message", e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, ",%q:%q", "detail", e.Detail)
	}
	if e.Location != nil {
		fmt.Fprintf(&b, `,"location":{"file":%q,"line":%d,"column":%d}`, e.Location.File, e.Location.Line, e.Location.Column)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, ",%q:%q", "suggestion", e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, ",%q:%q", "docUrl", e.DocURL)
	}
	b.WriteString("}")
	return b.String()
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintError writes a formatted error (or a plain one-liner for a
// non-*Error) to stderr.
func PrintError(err error) {
	if e, ok := err.(*Error); ok {
		fmt.Fprint(os.Stderr, e.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\n%serror:%s %s\n\n", colorRed+colorBold, colorReset, err.Error())
}
