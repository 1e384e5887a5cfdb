package scene

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"

	"github.com/ByLCY/strikethrough/binding"
	"github.com/ByLCY/strikethrough/dsl"
)

const (
	defaultPageWidth = 480.0
	defaultFontSize  = 16.0
	defaultFieldH    = 44.0
	elementSpacing   = 24.0
	pageMargin       = 32.0
	iconGap          = 8.0
	defaultFrames    = 12
	defaultStrokeW   = 2.0
)

// StrikeSpec 描述划线样式与进度区间，来自 DSL 的 strike 段。
type StrikeSpec struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Element 是一个可附着划线的场景元素：子树根、页面位置与能力提示。
type Element struct {
	Root         Node
	Position     Point
	Viewport     Size
	EditableHint bool
}

// Result 是 DSL 构建后的完整演示场景。
type Result struct {
	Elements   []Element
	Font       FontSpec
	Strike     StrikeSpec
	Frames     int
	PageWidth  float64
	PageHeight float64
}

// Build 根据 DSL AST 构建场景：文本段落包在任意深的包装链里，
// 输入框埋在多槽容器与装饰盒之下，以复现宿主的真实结构。
// data 通过 ${path} 绑定进文本内容。
func Build(doc *dsl.Document, data any) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}

	res := &Result{
		Strike:    StrikeSpec{Color: Color{R: 229, G: 57, B: 53}, Width: defaultStrokeW, From: 0, To: 1},
		Frames:    defaultFrames,
		PageWidth: defaultPageWidth,
	}

	var sceneSec *dsl.SceneSection
	for _, sec := range doc.Sections {
		switch {
		case sec.Font != nil:
			res.Font = buildFont(sec.Font)
		case sec.Strike != nil:
			buildStrike(sec.Strike, &res.Strike)
		case sec.Frames != nil:
			if n := int(*sec.Frames); n > 0 {
				res.Frames = n
			}
		case sec.Scene != nil:
			sceneSec = sec.Scene
		}
	}
	if sceneSec == nil || len(sceneSec.Elements) == 0 {
		return nil, fmt.Errorf("文档中缺少 scene 段落")
	}

	cursorY := pageMargin
	for _, el := range sceneSec.Elements {
		built, height, err := buildElement(el, res.Font, data)
		if err != nil {
			return nil, err
		}
		built.Position = Point{X: pageMargin, Y: cursorY}
		res.Elements = append(res.Elements, built)
		cursorY += height + elementSpacing
	}
	res.PageHeight = cursorY - elementSpacing + pageMargin
	return res, nil
}

func buildFont(b *dsl.Block) FontSpec {
	var f FontSpec
	if v, ok := b.Get("family").AsString(); ok {
		f.Family = v
	}
	if v, ok := b.Get("src").AsString(); ok {
		f.Src = v
	}
	if v, ok := b.Get("style").AsString(); ok {
		f.Style = v
	}
	return f
}

func buildStrike(b *dsl.Block, spec *StrikeSpec) {
	if v, ok := b.Get("color").AsString(); ok {
		if c, err := ParseHexColor(v); err == nil {
			spec.Color = c
		}
	}
	if v, ok := b.Get("width").AsFloat(); ok && v > 0 {
		spec.Width = v
	}
	if v, ok := b.Get("from").AsFloat(); ok {
		spec.From = v
	}
	if v, ok := b.Get("to").AsFloat(); ok {
		spec.To = v
	}
}

// buildElement 组装单个元素的子树，返回元素与其占用高度。
func buildElement(el *dsl.Element, font FontSpec, data any) (Element, float64, error) {
	b := el.Block
	attrs := buildAttrs(b, font, data)

	width := defaultPageWidth - 2*pageMargin
	if v, ok := b.Get("width").AsFloat(); ok && v > 0 {
		width = v
	}

	switch el.Kind {
	case "text":
		lineCount := 1
		if attrs.MaxLines > 0 {
			lineCount = attrs.MaxLines
		}
		height := attrs.EffectiveFontSize() * 1.2 * float64(lineCount)
		para := &Paragraph{Attrs: attrs, ContentWidth: width, ContentHeight: height}
		// 两层包装复现宿主的语义/装饰链
		root := &Wrapper{Inner: &Wrapper{Inner: para}}
		return Element{Root: root, Viewport: Size{Width: width, Height: height}}, height, nil

	case "field":
		height := defaultFieldH
		if v, ok := b.Get("height").AsFloat(); ok && v > 0 {
			height = v
		}
		cursorW := 2.0
		if v, ok := b.Get("cursor-width").AsFloat(); ok && v >= 0 {
			cursorW = v
		}
		editable := &Editable{Attrs: attrs, CursorWidth: cursorW}
		box := &DecoratedBox{
			Inner:  &Wrapper{Inner: editable},
			Size:   Size{Width: width, Height: height},
			Border: true,
		}
		var items []Node
		totalW := width
		if v, ok := b.Get("icon").AsFloat(); ok && v > 0 {
			// 前置图标占槽 0，输入框顺延到槽 1
			box.Offset = Point{X: v + iconGap}
			items = []Node{
				&Icon{Extent: v, Offset: Point{Y: (height - v) / 2}},
				box,
			}
			totalW += v + iconGap
		} else {
			items = []Node{box}
		}
		root := &Wrapper{Inner: &Slots{Items: items}}
		return Element{
			Root:         root,
			Viewport:     Size{Width: totalW, Height: height},
			EditableHint: true,
		}, height, nil

	default:
		return Element{}, 0, fmt.Errorf("未知的场景元素类型 %q", el.Kind)
	}
}

func buildAttrs(b *dsl.Block, font FontSpec, data any) TextAttributes {
	attrs := TextAttributes{
		Font:     font,
		FontSize: defaultFontSize,
		Scale:    1,
		// 行高调整默认作用于首行上升部与末行下降部
		HeightBehavior: HeightBehavior{ApplyToFirstAscent: true, ApplyToLastDescent: true},
	}
	if v, ok := b.Get("content").AsString(); ok {
		attrs.Content = binding.Interpolate(v, data)
	}
	if v, ok := b.Get("size").AsFloat(); ok && v > 0 {
		attrs.FontSize = v
	}
	if v, ok := b.Get("scale").AsFloat(); ok && v > 0 {
		attrs.Scale = v
	}
	if v, ok := b.Get("align").AsString(); ok {
		attrs.Align = ParseAlign(v)
	}
	if v, ok := b.Get("direction").AsString(); ok {
		switch v {
		case "ltr":
			attrs.Direction = DirectionLTR
		case "rtl":
			attrs.Direction = DirectionRTL
		}
	}
	if v, ok := b.Get("max-lines").AsFloat(); ok && v > 0 {
		attrs.MaxLines = int(v)
	}
	if v, ok := b.Get("multiline").AsBool(); ok && !v {
		attrs.MaxLines = 1
	}
	if v, ok := b.Get("ellipsis").AsString(); ok {
		attrs.Ellipsis = v
	}
	if v, ok := b.Get("locale").AsString(); ok {
		attrs.Locale = language.Make(v)
	}
	if v, ok := b.Get("strut-size").AsFloat(); ok && v > 0 {
		attrs.Strut.FontSize = v
	}
	if v, ok := b.Get("strut-height").AsFloat(); ok && v > 0 {
		attrs.Strut.Height = v
	}
	if v, ok := b.Get("strut-force").AsBool(); ok {
		attrs.Strut.Force = v
	}
	if v, ok := b.Get("width-basis").AsString(); ok && v == "longest-line" {
		attrs.WidthBasis = WidthBasisLongestLine
	}
	if v, ok := b.Get("height-to-first-ascent").AsBool(); ok {
		attrs.HeightBehavior.ApplyToFirstAscent = v
	}
	if v, ok := b.Get("height-to-last-descent").AsBool(); ok {
		attrs.HeightBehavior.ApplyToLastDescent = v
	}
	return attrs
}

// ParseHexColor 解析 #RGB/#RRGGBB/#RRGGBBAA 形式的颜色字面量。
func ParseHexColor(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("非法颜色字面量 %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("非法颜色字面量 %q", s)
	}
	parse := func(p string) (int, error) {
		n, err := strconv.ParseUint(p, 16, 8)
		return int(n), err
	}
	r, err := parse(hex[0:2])
	if err != nil {
		return Color{}, fmt.Errorf("非法颜色字面量 %q", s)
	}
	g, err := parse(hex[2:4])
	if err != nil {
		return Color{}, fmt.Errorf("非法颜色字面量 %q", s)
	}
	b, err := parse(hex[4:6])
	if err != nil {
		return Color{}, fmt.Errorf("非法颜色字面量 %q", s)
	}
	return Color{R: r, G: g, B: b}, nil
}
