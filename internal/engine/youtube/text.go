package youtube

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

type textKind uint8

const (
	textAbsent textKind = iota
	textPlain
	textRuns
)

// Run is one fragment of a runs-style text.
type Run struct {
	Text               string              `json:"text"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
}

// Text is the union of the two shapes YouTube uses for display strings:
// {"simpleText": "..."} and {"runs": [{"text": "..."}, ...]}. A value that
// is neither decodes as absent.
type Text struct {
	kind  textKind
	plain string
	runs  []Run
}

// PlainText builds a simple-text value.
func PlainText(s string) Text { return Text{kind: textPlain, plain: s} }

// RunsText builds a runs value from plain fragments.
func RunsText(parts ...string) Text {
	runs := make([]Run, len(parts))
	for i, p := range parts {
		runs[i] = Run{Text: p}
	}
	return Text{kind: textRuns, runs: runs}
}

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var raw struct {
		SimpleText *string         `json:"simpleText"`
		Runs       json.RawMessage `json:"runs"`
		Content    *string         `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch {
	case raw.SimpleText != nil:
		t.kind, t.plain = textPlain, *raw.SimpleText
	case len(raw.Runs) > 0 && raw.Runs[0] == '[':
		var runs []Run
		if json.Unmarshal(raw.Runs, &runs) == nil {
			t.kind, t.runs = textRuns, runs
		}
	case raw.Content != nil:
		t.kind, t.plain = textPlain, *raw.Content
	}
	return nil
}

// Present reports whether t carried either text shape.
func (t *Text) Present() bool { return t != nil && t.kind != textAbsent }

// String concatenates the text; absent text yields "".
func (t *Text) String() string { return t.StringOr("") }

// StringOr is String with a fallback for absent text.
func (t *Text) StringOr(def string) string {
	if t == nil {
		return def
	}
	switch t.kind {
	case textPlain:
		return t.plain
	case textRuns:
		var sb strings.Builder
		for _, r := range t.runs {
			sb.WriteString(r.Text)
		}
		return sb.String()
	}
	return def
}

// Ptr returns nil for absent text and a pointer to the string otherwise.
func (t *Text) Ptr() *string {
	if !t.Present() {
		return nil
	}
	s := t.String()
	return &s
}

// FirstRun returns the first run of a runs text, or nil.
func (t *Text) FirstRun() *Run {
	if t == nil || t.kind != textRuns || len(t.runs) == 0 {
		return nil
	}
	return &t.runs[0]
}

var nonDigitRe = regexp.MustCompile(`\D+`)

// Int strips every non-digit and parses the rest, so "1,234 views" is 1234.
// Text without digits is 0.
func (t *Text) Int() int64 {
	digits := nonDigitRe.ReplaceAllString(t.String(), "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// IntPtr is Int for present text and nil otherwise.
func (t *Text) IntPtr() *int64 {
	if !t.Present() {
		return nil
	}
	n := t.Int()
	return &n
}
