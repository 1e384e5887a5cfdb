package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/strikethrough/binding"
	"github.com/ByLCY/strikethrough/renderer"
	"github.com/ByLCY/strikethrough/scene"
	"github.com/ByLCY/strikethrough/strike"
)

const borderWidth = 1.0

// 画布单位与 pt 的换算。画布后端以 tdewolff/canvas 的默认单位
// 作为设备像素使用，字体系统交互用 pt，在边界做一次换算。
const (
	ptToPx = 0.352777
	pxToPt = 1.0 / ptToPx
)

// 文本默认绘制颜色，与度量用字体面保持同一份缓存键。
var textColor = scene.Color{R: 30, G: 30, B: 30}

// Renderer draws demo scenes and their strike overlays via
// github.com/tdewolff/canvas, and doubles as the strike.Typesetter.
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry

	debug []FrameDebug
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ strike.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// FrameDebug 是一帧的调试快照：进度值与每个元素的度量/线段。
type FrameDebug struct {
	Progress float64        `json:"progress"`
	Elements []ElementDebug `json:"elements"`
}

// ElementDebug 记录单个元素在该帧的布局产出与绘制线段。
type ElementDebug struct {
	State    *strike.RenderState `json:"state"`
	Segments []strike.Segment    `json:"segments"`
}

// DebugFrames 返回最近一次 Render 的逐帧调试快照。
func (r *Renderer) DebugFrames() []FrameDebug { return r.debug }

// Render 将场景渲染为逐帧 PDF：每个动画帧一页。
// 布局阶段每个元素执行一次；之后每帧只更新进度并重绘覆盖层，
// 不重新计算行度量。
func (r *Renderer) Render(res *scene.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	if len(res.Elements) == 0 {
		return nil, fmt.Errorf("缺少可渲染的场景元素")
	}

	progress := binding.NewFloat(res.Strike.From)
	col := colorFromScene(res.Strike.Color)
	overlays := make([]*strike.Renderer, len(res.Elements))
	for i, el := range res.Elements {
		ov := strike.New(progress, r, col, res.Strike.Width,
			strike.WithEditableHint(el.EditableHint))
		ov.Attach(el.Root)
		overlays[i] = ov
	}
	defer func() {
		for _, ov := range overlays {
			ov.Detach()
		}
	}()

	// 宿主布局阶段：定位文本节点并重排行度量，随后各帧复用缓存。
	for i, el := range res.Elements {
		if err := overlays[i].Layout(scene.Loose(el.Viewport)); err != nil {
			return nil, err
		}
	}

	frames := res.Frames
	if frames < 1 {
		frames = 1
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, res.PageWidth, res.PageHeight, nil)
	r.debug = nil
	for f := 0; f < frames; f++ {
		t := 0.0
		if frames > 1 {
			t = float64(f) / float64(frames-1)
		}
		progress.Set(res.Strike.From + (res.Strike.To-res.Strike.From)*t)

		if f > 0 {
			writer.NewPage(res.PageWidth, res.PageHeight)
		}
		c := canvas.New(res.PageWidth, res.PageHeight)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与场景保持左上角为原点

		fd := FrameDebug{Progress: progress.Get()}
		for i, el := range res.Elements {
			if err := r.drawNode(ctx, el.Root, el.Position, el.Viewport.Width); err != nil {
				return nil, err
			}
			segs := overlays[i].Paint(&lineCanvas{ctx: ctx, origin: el.Position})
			fd.Elements = append(fd.Elements, ElementDebug{
				State:    overlays[i].State(),
				Segments: segs,
			})
		}
		c.RenderTo(writer)
		r.debug = append(r.debug, fd)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// lineCanvas 把 strike.Canvas 的画线调用落到画布上下文，
// 并叠加元素在页面上的位置偏移。
type lineCanvas struct {
	ctx    *canvas.Context
	origin scene.Point
}

func (lc *lineCanvas) DrawLine(from, to scene.Point, col color.Color, width float64) {
	lc.ctx.SetStrokeColor(col)
	lc.ctx.SetStrokeWidth(width)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(to.X-from.X, to.Y-from.Y)
	lc.ctx.DrawPath(lc.origin.X+from.X, lc.origin.Y+from.Y, p)
}

// drawNode 自根向下绘制元素子树。at 是节点自身原点（页面坐标），
// 子节点位置 = at + 子节点的 ParentOffset；avail 是文本可用宽度，
// 由最近的装饰盒决定。
func (r *Renderer) drawNode(ctx *canvas.Context, n scene.Node, at scene.Point, avail float64) error {
	switch t := n.(type) {
	case *scene.Paragraph:
		return r.drawText(ctx, at, t.Attrs, t.ContentWidth)
	case *scene.Editable:
		maxWidth := 0.0
		if t.Attrs.Multiline() {
			maxWidth = avail - 1 - t.CursorWidth
			if maxWidth < 0 {
				maxWidth = 0
			}
		}
		return r.drawText(ctx, at, t.Attrs, maxWidth)
	case *scene.DecoratedBox:
		if t.Border {
			ctx.SetFillColor(canvas.White)
			ctx.SetStrokeColor(canvas.Hex("#9e9e9e"))
			ctx.SetStrokeWidth(borderWidth)
			ctx.DrawPath(at.X, at.Y, canvas.Rectangle(t.Size.Width, t.Size.Height))
		}
		return r.drawChildren(ctx, t, at, t.Size.Width)
	case *scene.Icon:
		ctx.SetFillColor(canvas.Hex("#bdbdbd"))
		ctx.SetStrokeColor(canvas.Hex("#9e9e9e"))
		ctx.SetStrokeWidth(borderWidth)
		ctx.DrawPath(at.X, at.Y, canvas.Circle(t.Extent/2))
		return nil
	default:
		return r.drawChildren(ctx, n, at, avail)
	}
}

func (r *Renderer) drawChildren(ctx *canvas.Context, n scene.Node, at scene.Point, avail float64) error {
	if child := n.Child(); child != nil {
		off, _ := child.ParentOffset()
		return r.drawNode(ctx, child, at.Add(off), avail)
	}
	for _, it := range n.Children() {
		off, _ := it.ParentOffset()
		if err := r.drawNode(ctx, it, at.Add(off), avail); err != nil {
			return err
		}
	}
	return nil
}

// drawText 排版并绘制一段文本，行偏移与行高和 LayoutLines 完全同源，
// 保证覆盖线段与可见文本逐行对齐。
func (r *Renderer) drawText(ctx *canvas.Context, at scene.Point, attrs scene.TextAttributes, maxWidth float64) error {
	lines, offsets, heights, face, err := r.layoutRaw(attrs, maxWidth)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	cursorY := at.Y
	for i, line := range lines {
		if line.content != "" {
			textLine := canvas.NewTextLine(face, line.content, canvas.Left)
			// 基线位置：行顶部加上字体上升部
			baseline := cursorY + metrics.Ascent
			ctx.DrawText(at.X+offsets[i], baseline, textLine)
		}
		cursorY += heights[i]
	}
	return nil
}

// LayoutLines 实现 strike.Typesetter：用与绘制同一套换行、偏移与
// 行高逻辑产出行度量。maxWidth <= 0 表示不限宽。
func (r *Renderer) LayoutLines(content string, attrs scene.TextAttributes, maxWidth float64) ([]strike.LineMetric, error) {
	attrs.Content = content
	lines, offsets, heights, _, err := r.layoutRaw(attrs, maxWidth)
	if err != nil {
		return nil, err
	}
	out := make([]strike.LineMetric, len(lines))
	for i, line := range lines {
		out[i] = strike.LineMetric{
			Left:   offsets[i],
			Width:  line.width,
			Height: heights[i],
		}
	}
	return out, nil
}

// layoutRaw 是 LayoutLines 与 drawText 的公共排版路径。
func (r *Renderer) layoutRaw(attrs scene.TextAttributes, maxWidth float64) ([]rawLine, []float64, []float64, *canvas.FontFace, error) {
	face, err := r.fontFace(attrs.Font, attrs.EffectiveFontSize(), textColor)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	measure := func(s string) float64 { return face.TextWidth(s) }

	lines := greedyWrap(attrs.Content, maxWidth, measure)
	lines = applyMaxLines(lines, attrs.MaxLines, attrs.Ellipsis, maxWidth, measure)
	if len(lines) == 0 {
		lines = []rawLine{{}}
	}

	dir := attrs.Direction.Resolve(attrs.Content)
	offsets := lineOffsets(lines, attrs.Align, dir, maxWidth, attrs.WidthBasis)
	heights := lineHeights(len(lines), face.Metrics().LineHeight, attrs)
	return lines, offsets, heights, face, nil
}

// lineHeights 计算每行高度：字体自身行高与支柱行高取大者，
// Force 时强制等于支柱高度。行高调整不作用于首行上升部/末行下降部
// 时，相应端回退半个增量。
func lineHeights(n int, faceHeight float64, attrs scene.TextAttributes) []float64 {
	strutSize := attrs.Strut.FontSize
	if strutSize <= 0 {
		strutSize = attrs.EffectiveFontSize()
	}
	strutH := 0.0
	if attrs.Strut.Height > 0 {
		strutH = strutSize * attrs.Strut.Height
	}
	base := faceHeight
	if strutH > 0 {
		if attrs.Strut.Force {
			base = strutH
		} else if strutH > base {
			base = strutH
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = base
	}
	if n > 0 && base > faceHeight && !attrs.Strut.Force {
		extra := base - faceHeight
		if !attrs.HeightBehavior.ApplyToFirstAscent {
			out[0] -= extra / 2
		}
		if !attrs.HeightBehavior.ApplyToLastDescent {
			out[n-1] -= extra / 2
		}
	}
	return out
}

func (r *Renderer) fontFace(font scene.FontSpec, sizePx float64, col scene.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*pxToPt, colorFromScene(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font scene.FontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontBytes(font scene.FontSpec) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Family)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	// Path based
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font scene.FontSpec) string {
	return fmt.Sprintf("%s|%s|%s", font.Family, font.Src, font.Style)
}

func colorFromScene(c scene.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
