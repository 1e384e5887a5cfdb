package scene

// 该文件定义文本属性词汇表，供宿主节点、划线核心与画布后端共用。

import (
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Align 表示文本的水平对齐方式。
type Align int

const (
	AlignStart Align = iota // 书写方向的起始侧（LTR 为左，RTL 为右）
	AlignLeft
	AlignRight
	AlignCenter
	AlignEnd
	AlignJustify
)

// AlignToString 返回对齐方式的短字符串，供调试 JSON 使用。
func AlignToString(a Align) string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignJustify:
		return "justify"
	default:
		return "start"
	}
}

// ParseAlign 解析 DSL 中的对齐关键字，未知值回落到 start。
func ParseAlign(s string) Align {
	switch s {
	case "left":
		return AlignLeft
	case "right":
		return AlignRight
	case "center":
		return AlignCenter
	case "end":
		return AlignEnd
	case "justify":
		return AlignJustify
	default:
		return AlignStart
	}
}

// Direction 表示段落书写方向。Neutral 表示未指定，需要根据内容推断。
type Direction int

const (
	DirectionNeutral Direction = iota
	DirectionLTR
	DirectionRTL
)

// DetectDirection 按首个强方向字符推断段落方向（first-strong 规则）。
// 内容中没有强方向字符时返回 LTR。
func DetectDirection(content string) Direction {
	for i := 0; i < len(content); {
		props, sz := bidi.LookupString(content[i:])
		if sz == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			return DirectionLTR
		case bidi.R, bidi.AL:
			return DirectionRTL
		}
		i += sz
	}
	return DirectionLTR
}

// Resolve 将 Neutral 方向落实为具体方向；其余值原样返回。
func (d Direction) Resolve(content string) Direction {
	if d == DirectionNeutral {
		return DetectDirection(content)
	}
	return d
}

// WidthBasis 决定多行文本的盒宽基准：约束宽度还是最长行宽。
type WidthBasis int

const (
	WidthBasisParent      WidthBasis = iota // 以排版时的约束宽度为盒宽
	WidthBasisLongestLine                   // 以最长行的宽度为盒宽
)

// HeightBehavior 控制首行上升部与末行下降部是否参与行高调整。
type HeightBehavior struct {
	ApplyToFirstAscent bool `json:"applyToFirstAscent"`
	ApplyToLastDescent bool `json:"applyToLastDescent"`
}

// StrutStyle 描述支柱行高：以 FontSize 为基准、Height 为倍数。
// Force 为 true 时所有行高强制等于支柱高度。
type StrutStyle struct {
	FontSize float64 `json:"fontSize"` // px
	Height   float64 `json:"height"`   // 行高倍数，<=0 时采用字体自身行高
	Force    bool    `json:"force"`
}

// FontSpec 描述字体来源，Src 可以是文件路径或由后端注入的资源名。
type FontSpec struct {
	Family string `json:"family"`
	Src    string `json:"src"`
	Style  string `json:"style"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextAttributes 是复现换行所需的全部属性快照。
// 每次布局从宿主节点按值拷出，绝不跨布局持有宿主内部引用。
type TextAttributes struct {
	Content        string         `json:"content"`
	Align          Align          `json:"align"`
	Direction      Direction      `json:"direction"`
	Scale          float64        `json:"scale"`    // 文本缩放系数，<=0 视为 1
	MaxLines       int            `json:"maxLines"` // 0 表示不限
	Ellipsis       string         `json:"ellipsis,omitempty"`
	Locale         language.Tag   `json:"-"`
	Strut          StrutStyle     `json:"strut"`
	WidthBasis     WidthBasis     `json:"widthBasis"`
	HeightBehavior HeightBehavior `json:"heightBehavior"`
	Font           FontSpec       `json:"font"`
	FontSize       float64        `json:"fontSize"` // px
}

// EffectiveFontSize 返回应用缩放后的字号。
func (a TextAttributes) EffectiveFontSize() float64 {
	scale := a.Scale
	if scale <= 0 {
		scale = 1
	}
	size := a.FontSize
	if size <= 0 {
		size = a.Strut.FontSize
	}
	return size * scale
}

// Multiline 报告该属性是否允许折行成多行。
func (a TextAttributes) Multiline() bool { return a.MaxLines != 1 }
