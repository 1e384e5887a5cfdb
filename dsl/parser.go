package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
		participle.Unquote("String"),
	)
)

// Document is the root AST node for a strike demo file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (font/scene/strike/frames).
type Section struct {
	Font   *Block        `parser:"  'font' @@"`
	Scene  *SceneSection `parser:"| @@"`
	Strike *Block        `parser:"| 'strike' @@"`
	Frames *float64      `parser:"| 'frames' ':' @Number"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Font != nil:
		return "font"
	case s.Scene != nil:
		return "scene"
	case s.Strike != nil:
		return "strike"
	case s.Frames != nil:
		return "frames"
	default:
		return "unknown"
	}
}

// SceneSection lists the text elements the overlay is attached to.
type SceneSection struct {
	Elements []*Element `parser:"'scene' '{' Newline* ( @@ Newline* )* '}'"`
}

// Element is a single scene entry: an immutable paragraph ("text") or
// an editable field ("field").
type Element struct {
	Kind  string `parser:"@('text' | 'field')"`
	Block *Block `parser:"@@"`
}

// Block is a delimited list of key: value entries.
type Block struct {
	Entries []*Entry `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Entry is one key: value assignment inside a block.
type Entry struct {
	Key   string `parser:"@Ident ':'"`
	Value *Value `parser:"Newline* @@"`
}

// Value is a scalar literal: string, hex color, number or bare word.
type Value struct {
	Str    *string  `parser:"  @String"`
	Color  *string  `parser:"| @Color"`
	Number *float64 `parser:"| @Number"`
	Word   *string  `parser:"| @Ident"`
}

// Parse reads and parses a strike demo document.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取 DSL 输入失败: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses a strike demo document from a string.
func ParseString(s string) (*Document, error) {
	doc, err := documentParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return doc, nil
}

// Get returns the last entry for key, or nil when absent.
// Last one wins, matching plain key reassignment semantics.
func (b *Block) Get(key string) *Value {
	if b == nil {
		return nil
	}
	var found *Value
	for _, e := range b.Entries {
		if e.Key == key {
			found = e.Value
		}
	}
	return found
}

// AsString returns the value as a string, covering both quoted strings
// and bare words.
func (v *Value) AsString() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.Str != nil:
		return *v.Str, true
	case v.Color != nil:
		return *v.Color, true
	case v.Word != nil:
		return *v.Word, true
	default:
		return "", false
	}
}

// AsFloat returns the value as a number.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil || v.Number == nil {
		return 0, false
	}
	return *v.Number, true
}

// AsBool interprets the bare words true/false/yes/no.
func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.Word == nil {
		return false, false
	}
	switch strings.ToLower(*v.Word) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	default:
		return false, false
	}
}
