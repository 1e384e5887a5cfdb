package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/strikethrough/scene"
)

// 该文件实现贪心换行与行偏移计算。宽度测量通过 measureFunc 注入，
// 排版逻辑本身不依赖具体字体后端，测试用等宽测量桩即可覆盖。

type measureFunc func(string) float64

// rawLine 是换行后的一行内容与宽度，尚未计算水平偏移。
type rawLine struct {
	content string
	width   float64
}

// greedyWrap 对 content 做贪心换行：优先在空白处分割，超过限制时在
// 词内拆分；尊重显式换行。limit <= 0 表示不限宽，仅按显式换行划分。
func greedyWrap(content string, limit float64, measure measureFunc) []rawLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenizeContent(content)
	var lines []rawLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, rawLine{})
			}
			return
		}
		lines = append(lines, rawLine{content: builder.String(), width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += measure(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure measureFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// applyMaxLines 按最大行数截断，并在末行追加省略符。追加后超宽时
// 从末行尾部逐字回退，直到省略符放得下为止。
func applyMaxLines(lines []rawLine, maxLines int, ellipsis string, limit float64, measure measureFunc) []rawLine {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	if ellipsis == "" {
		return lines
	}
	last := &lines[maxLines-1]
	ellipsisWidth := measure(ellipsis)
	runes := []rune(last.content)
	for len(runes) > 0 && limit > 0 && measure(string(runes))+ellipsisWidth > limit {
		runes = runes[:len(runes)-1]
	}
	last.content = string(runes) + ellipsis
	last.width = measure(last.content)
	return lines
}

// resolveAlign 把 start/end 按书写方向落实为物理对齐。
func resolveAlign(a scene.Align, dir scene.Direction) scene.Align {
	rtl := dir == scene.DirectionRTL
	switch a {
	case scene.AlignStart, scene.AlignJustify:
		if rtl {
			return scene.AlignRight
		}
		return scene.AlignLeft
	case scene.AlignEnd:
		if rtl {
			return scene.AlignLeft
		}
		return scene.AlignRight
	default:
		return a
	}
}

// lineOffsets 计算每行相对盒左边缘的起始偏移。盒宽取约束宽度，
// widthBasis 为 longest-line 或不限宽时取最长行宽。
func lineOffsets(lines []rawLine, align scene.Align, dir scene.Direction, limit float64, basis scene.WidthBasis) []float64 {
	boxWidth := limit
	if basis == scene.WidthBasisLongestLine || limit <= 0 {
		boxWidth = 0
		for _, ln := range lines {
			if ln.width > boxWidth {
				boxWidth = ln.width
			}
		}
	}
	offsets := make([]float64, len(lines))
	switch resolveAlign(align, dir) {
	case scene.AlignCenter:
		for i, ln := range lines {
			offsets[i] = (boxWidth - ln.width) / 2
		}
	case scene.AlignRight:
		for i, ln := range lines {
			offsets[i] = boxWidth - ln.width
		}
	default:
		// 贴左：偏移全零
	}
	return offsets
}
