package strike

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/strikethrough/binding"
	"github.com/ByLCY/strikethrough/scene"
)

// stubTypesetter 是测试用排版桩：每个空格分词算一行，行宽为
// 词的字符数 × 10，行高固定 20；记录最近一次收到的约束宽度。
type stubTypesetter struct {
	lastMaxWidth float64
	calls        int
	fail         bool
}

func (s *stubTypesetter) LayoutLines(content string, attrs scene.TextAttributes, maxWidth float64) ([]LineMetric, error) {
	s.lastMaxWidth = maxWidth
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("排版失败")
	}
	words := strings.Fields(content)
	if len(words) == 0 {
		return []LineMetric{{Width: 0, Height: 20}}, nil
	}
	lines := make([]LineMetric, len(words))
	for i, w := range words {
		lines[i] = LineMetric{Width: float64(len(w)) * 10, Height: 20}
	}
	return lines, nil
}

// fakeCanvas 记录画线调用。
type fakeCanvas struct {
	lines  []Segment
	colors []color.Color
	widths []float64
}

func (c *fakeCanvas) DrawLine(from, to scene.Point, col color.Color, width float64) {
	c.lines = append(c.lines, Segment{Start: from, End: to})
	c.colors = append(c.colors, col)
	c.widths = append(c.widths, width)
}

func paragraphTree(content string, width float64) scene.Node {
	return &scene.Wrapper{Inner: &scene.Paragraph{
		Attrs:        scene.TextAttributes{Content: content},
		ContentWidth: width,
	}}
}

func editableTree(content string, boxWidth, boxHeight, cursorWidth float64, maxLines int) scene.Node {
	return &scene.Wrapper{Inner: &scene.Slots{Items: []scene.Node{
		&scene.DecoratedBox{
			Inner: &scene.Wrapper{Inner: &scene.Editable{
				Attrs:       scene.TextAttributes{Content: content, MaxLines: maxLines},
				CursorWidth: cursorWidth,
			}},
			Offset: scene.Point{X: 30, Y: 6},
			Size:   scene.Size{Width: boxWidth, Height: boxHeight},
		},
	}}}
}

// TestLayoutThenPaint 验证一次完整的布局→绘制流程：
// 度量缓存被填充，线段按当前进度绘制，笔画参数逐条生效。
func TestLayoutThenPaint(t *testing.T) {
	progress := binding.NewFloat(1)
	ts := &stubTypesetter{}
	red := color.RGBA{R: 255, A: 255}
	r := New(progress, ts, red, 3)
	r.Attach(paragraphTree("ab cdef", 200))

	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	st := r.State()
	if st == nil || len(st.Metrics) != 2 {
		t.Fatalf("布局后应缓存 2 行度量")
	}
	if diff := math.Abs(st.FullTextWidth - 60); diff > 1e-9 {
		t.Fatalf("全文宽度错误: got=%g want=60", st.FullTextWidth)
	}
	if ts.lastMaxWidth != 200 {
		t.Fatalf("段落约束宽度应直接取内容宽度: got=%g", ts.lastMaxWidth)
	}

	c := &fakeCanvas{}
	segs := r.Paint(c)
	if len(segs) != 2 || len(c.lines) != 2 {
		t.Fatalf("p=1 应为每行画一条线段: segs=%d draws=%d", len(segs), len(c.lines))
	}
	for i := range c.colors {
		if c.colors[i] != color.Color(red) || c.widths[i] != 3 {
			t.Fatalf("第 %d 条线段笔画参数错误", i)
		}
	}
	if r.NeedsPaint() {
		t.Fatalf("Paint 后重绘标记应清除")
	}
}

// TestPaintBeforeLayout 验证布局尚未产出度量时绘制是空操作。
func TestPaintBeforeLayout(t *testing.T) {
	r := New(binding.NewFloat(1), &stubTypesetter{}, color.Black, 2)
	r.Attach(paragraphTree("hello", 100))
	c := &fakeCanvas{}
	if segs := r.Paint(c); len(segs) != 0 || len(c.lines) != 0 {
		t.Fatalf("未布局就绘制应是空操作")
	}
}

// TestUnsupportedChild 验证不支持的子节点：布局后度量保持缺席，
// 绘制零调用；这是约定的静默回退而非错误。
func TestUnsupportedChild(t *testing.T) {
	r := New(binding.NewFloat(1), &stubTypesetter{}, color.Black, 2)
	r.Attach(&scene.Wrapper{Inner: &scene.Icon{Extent: 8}})
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("不支持的子节点不应报错: %v", err)
	}
	if r.State() != nil {
		t.Fatalf("度量应保持缺席")
	}
	c := &fakeCanvas{}
	if r.Paint(c); len(c.lines) != 0 {
		t.Fatalf("不支持的子节点不应产生绘制")
	}
}

// TestEditableGeometry 验证可编辑路径：约束宽度推导为
// 盒宽-1-光标宽（多行），装饰盒偏移叠加到每条线段。
func TestEditableGeometry(t *testing.T) {
	progress := binding.NewFloat(1)
	ts := &stubTypesetter{}
	r := New(progress, ts, color.Black, 2, WithEditableHint(true))
	r.Attach(editableTree("abc de", 120, 40, 2, 0))

	if err := r.Layout(scene.Loose(scene.Size{Width: 300, Height: 100})); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	st := r.State()
	if st == nil || !st.AroundEditable || st.Editable == nil {
		t.Fatalf("应缓存可编辑几何")
	}
	if want := 120.0 - 1 - 2; ts.lastMaxWidth != want {
		t.Fatalf("多行输入框约束宽度错误: got=%g want=%g", ts.lastMaxWidth, want)
	}
	if st.Editable.Offset.X != 30 || st.Editable.Offset.Y != 6 {
		t.Fatalf("装饰盒偏移错误: %+v", st.Editable.Offset)
	}

	segs := r.Paint(&fakeCanvas{})
	if len(segs) == 0 {
		t.Fatalf("应产生线段")
	}
	// 首行 y = 6 + 20*0.55；x 含偏移 30
	if diff := math.Abs(segs[0].Start.Y - (6 + 20*0.55)); diff > 1e-9 {
		t.Fatalf("线段未叠加盒偏移 Y: got=%g", segs[0].Start.Y)
	}
	if segs[0].Start.X < 30 {
		t.Fatalf("线段未叠加盒偏移 X: got=%g", segs[0].Start.X)
	}
}

// TestEditableSingleLineUnbounded 验证单行输入框不折行：约束宽度
// 传不限宽（<=0）。
func TestEditableSingleLineUnbounded(t *testing.T) {
	ts := &stubTypesetter{lastMaxWidth: -1}
	r := New(binding.NewFloat(0), ts, color.Black, 2, WithEditableHint(true))
	r.Attach(editableTree("hello world", 120, 40, 2, 1))
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if ts.lastMaxWidth > 0 {
		t.Fatalf("单行输入框应不限宽: got=%g", ts.lastMaxWidth)
	}
}

// TestEditableMissingBox 验证祖先装饰盒缺失：按不支持的子节点处理，
// 本轮清空度量，下次布局可重试。
func TestEditableMissingBox(t *testing.T) {
	ts := &stubTypesetter{}
	r := New(binding.NewFloat(1), ts, color.Black, 2)
	r.Attach(&scene.Wrapper{Inner: &scene.Editable{
		Attrs: scene.TextAttributes{Content: "abc"},
	}})
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("几何缺失不应报错: %v", err)
	}
	if r.State() != nil {
		t.Fatalf("几何缺失时度量应清空")
	}
	if ts.calls != 0 {
		t.Fatalf("几何缺失时不应调用排版神谕")
	}
}

// TestLayoutClearsStaleMetrics 验证布局失败路径会整体清掉旧缓存，
// 不会让绘制读到上一轮的度量。
func TestLayoutClearsStaleMetrics(t *testing.T) {
	ts := &stubTypesetter{}
	r := New(binding.NewFloat(1), ts, color.Black, 2)
	r.Attach(paragraphTree("hello", 100))
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if r.State() == nil {
		t.Fatalf("首轮布局应产出度量")
	}

	// 子树换成不支持的节点后重新布局
	r.Attach(&scene.Wrapper{})
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if r.State() != nil {
		t.Fatalf("旧度量应被清空")
	}
}

// TestTypesetterError 验证排版神谕出错时布局返回错误且缓存为空。
func TestTypesetterError(t *testing.T) {
	ts := &stubTypesetter{fail: true}
	r := New(binding.NewFloat(1), ts, color.Black, 2)
	r.Attach(paragraphTree("hello", 100))
	if err := r.Layout(scene.Constraints{}); err == nil {
		t.Fatalf("排版失败应返回错误")
	}
	if r.State() != nil {
		t.Fatalf("失败后缓存应为空")
	}
}

// TestProgressChangeRequestsRepaint 验证进度变化只请求重绘：
// 不触发布局，也不动缓存度量。
func TestProgressChangeRequestsRepaint(t *testing.T) {
	progress := binding.NewFloat(0)
	ts := &stubTypesetter{}
	r := New(progress, ts, color.Black, 2)
	r.Attach(paragraphTree("hello world", 100))
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	r.Paint(&fakeCanvas{})
	calls := ts.calls

	progress.Set(0.7)
	if !r.NeedsPaint() {
		t.Fatalf("进度变化应请求重绘")
	}
	if ts.calls != calls {
		t.Fatalf("进度变化不应触发重排")
	}

	c := &fakeCanvas{}
	segs := r.Paint(c)
	if got := totalLength(segs); math.Abs(got-0.7*r.State().FullTextWidth) > 1e-9 {
		t.Fatalf("重绘应使用最新进度: got=%g", got)
	}
}

// TestSetColorAndWidthNoRelayout 验证笔画参数原地更新且不触发重排。
func TestSetColorAndWidthNoRelayout(t *testing.T) {
	ts := &stubTypesetter{}
	r := New(binding.NewFloat(1), ts, color.Black, 2)
	r.Attach(paragraphTree("hi", 100))
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	calls := ts.calls

	blue := color.RGBA{B: 255, A: 255}
	r.SetColor(blue)
	r.SetStrokeWidth(5)
	if ts.calls != calls {
		t.Fatalf("笔画更新不应触发重排")
	}
	if !r.NeedsPaint() {
		t.Fatalf("笔画更新应请求重绘")
	}
	c := &fakeCanvas{}
	r.Paint(c)
	if len(c.colors) == 0 || c.colors[0] != color.Color(blue) || c.widths[0] != 5 {
		t.Fatalf("新笔画参数未生效")
	}
}

// TestDetachReleasesSubscription 验证 Detach 恰好释放一次订阅，
// 包括从未成功布局、重复调用的情况。
func TestDetachReleasesSubscription(t *testing.T) {
	progress := binding.NewFloat(0)
	r := New(progress, &stubTypesetter{}, color.Black, 2)
	if progress.ListenerCount() != 1 {
		t.Fatalf("创建后应有 1 个订阅: got=%d", progress.ListenerCount())
	}

	r.Detach()
	if progress.ListenerCount() != 0 {
		t.Fatalf("Detach 后订阅应释放: got=%d", progress.ListenerCount())
	}
	if !r.Detached() {
		t.Fatalf("应进入终态")
	}

	// 重复 Detach 与终态下的其他调用都应无害
	r.Detach()
	if progress.ListenerCount() != 0 {
		t.Fatalf("重复 Detach 不应再释放")
	}
	if err := r.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("终态布局应为空操作: %v", err)
	}
	if segs := r.Paint(&fakeCanvas{}); segs != nil {
		t.Fatalf("终态绘制应为空操作")
	}

	// 另一个实例：未布局直接 Detach 也恰好释放一次
	r2 := New(progress, &stubTypesetter{}, color.Black, 2)
	r2.Detach()
	if progress.ListenerCount() != 0 {
		t.Fatalf("未布局的实例 Detach 也应释放订阅")
	}
}

// TestRendererIndependence 验证实例之间不共享可变状态。
func TestRendererIndependence(t *testing.T) {
	progress := binding.NewFloat(1)
	ts := &stubTypesetter{}
	r1 := New(progress, ts, color.Black, 2)
	r2 := New(progress, ts, color.Black, 2)
	r1.Attach(paragraphTree("one", 100))
	r2.Attach(paragraphTree("two words", 100))
	if err := r1.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if err := r2.Layout(scene.Constraints{}); err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(r1.State().Metrics) == len(r2.State().Metrics) {
		t.Fatalf("两个实例的度量不应相互影响")
	}
	r1.Detach()
	if r2.Detached() {
		t.Fatalf("Detach 不应波及其他实例")
	}
	if progress.ListenerCount() != 1 {
		t.Fatalf("应只剩 r2 的订阅: got=%d", progress.ListenerCount())
	}
	r2.Detach()
}
