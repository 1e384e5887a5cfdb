package strike

// 该文件实现覆盖渲染器的生命周期与绘制适配。
// 状态机：未初始化 → 已布局 → 已绘制 → 已布局 → … → 已分离。
// 布局与绘制由宿主调度循环串行调用，本包不做任何并发防护。

import (
	"image/color"

	"github.com/ByLCY/strikethrough/binding"
	"github.com/ByLCY/strikethrough/scene"
)

// Canvas 是绘制消费接口：在设备坐标画一条直线段。
// 画布后端（renderer/canvas）实现它；测试用桩实现统计调用。
type Canvas interface {
	DrawLine(from, to scene.Point, col color.Color, width float64)
}

// stroke 是跨帧复用的笔画描述，颜色与线宽原地更新，不逐帧重建。
type stroke struct {
	color color.Color
	width float64
}

// RenderState 是一次布局的全部产出，整体替换、绘制阶段只读。
// Metrics 为空表示本轮没有可划的文本（不支持的子节点或几何缺失）。
type RenderState struct {
	Metrics        []LineMetric      `json:"metrics"`
	FullTextWidth  float64           `json:"fullTextWidth"`
	Direction      scene.Direction   `json:"direction"`
	Align          scene.Align       `json:"align"`
	BoxWidth       float64           `json:"boxWidth"`
	Editable       *EditableGeometry `json:"editable,omitempty"`
	AroundEditable bool              `json:"aroundEditable"`
}

// Renderer 是附着在一段文本上的划线覆盖渲染器。
// 每个实例独占自己的 RenderState；实例间没有共享可变状态。
type Renderer struct {
	progress *binding.Float
	ts       Typesetter
	strategy SlotStrategy
	want     target
	stroke   stroke

	root       scene.Node
	state      *RenderState
	needsPaint bool
	detached   bool
	release    func()
}

// Option 配置渲染器的可选行为。
type Option func(*Renderer)

// WithSlotStrategy 替换多槽容器的遍历策略（默认 LeadingIconAware）。
func WithSlotStrategy(s SlotStrategy) Option {
	return func(r *Renderer) {
		if s != nil {
			r.strategy = s
		}
	}
}

// WithEditableHint 提示目标是可编辑文本：定位时只接受可编辑能力。
// hint 为 false 时只接受段落能力。不设置则两种能力先到先得。
func WithEditableHint(hint bool) Option {
	return func(r *Renderer) {
		if hint {
			r.want = targetEditable
		} else {
			r.want = targetParagraph
		}
	}
}

// New 创建渲染器并订阅进度源。进度变化只请求重绘，绝不在回调里
// 做布局（布局必须等宿主自己的布局阶段）。
// 订阅在 Detach 时恰好释放一次。
func New(progress *binding.Float, ts Typesetter, col color.Color, strokeWidth float64, opts ...Option) *Renderer {
	r := &Renderer{
		progress: progress,
		ts:       ts,
		strategy: LeadingIconAware,
		want:     targetAny,
		stroke:   stroke{color: col, width: strokeWidth},
	}
	for _, opt := range opts {
		opt(r)
	}
	if progress != nil {
		r.release = progress.Listen(func() { r.needsPaint = true })
	}
	return r
}

// SetColor 原地更新笔画颜色，不触发重新布局。
func (r *Renderer) SetColor(col color.Color) {
	r.stroke.color = col
	r.needsPaint = true
}

// SetStrokeWidth 原地更新线宽，不触发重新布局。
func (r *Renderer) SetStrokeWidth(w float64) {
	r.stroke.width = w
	r.needsPaint = true
}

// Attach 把渲染器挂到宿主子树上。再次调用会替换子树并在下次布局
// 重新定位文本节点。
func (r *Renderer) Attach(root scene.Node) {
	r.root = root
	r.state = nil
	r.needsPaint = true
}

// Detach 终止渲染器并释放进度订阅；可在任何状态下调用，
// 包括从未成功布局过的情况，释放只发生一次。
func (r *Renderer) Detach() {
	if r.detached {
		return
	}
	r.detached = true
	r.root = nil
	r.state = nil
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// Detached 报告渲染器是否已进入终态。
func (r *Renderer) Detached() bool { return r.detached }

// NeedsPaint 报告自上次绘制后是否有重绘请求（进度或笔画变化）。
func (r *Renderer) NeedsPaint() bool { return r.needsPaint }

// State 返回当前缓存的布局产出，绘制/调试用，调用方不得修改。
func (r *Renderer) State() *RenderState { return r.state }

// Layout 执行一次布局提取：定位文本节点、拷出属性、重排行度量，
// 并整体替换缓存状态。定位失败或几何缺失不是错误——本轮清空度量、
// 什么也不画，下次布局重试；只有排版神谕本身出错才返回 error。
func (r *Renderer) Layout(c scene.Constraints) error {
	if r.detached {
		return nil
	}
	r.state = nil

	hit, path := locate(r.root, r.want, r.strategy)
	if hit == nil {
		return nil
	}
	ex, ok := extract(hit, path, c)
	if !ok {
		return nil
	}
	metrics, full, err := recompute(r.ts, ex.attrs, ex.maxWidth)
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		return nil
	}
	st := &RenderState{
		Metrics:        metrics,
		FullTextWidth:  full,
		Direction:      ex.attrs.Direction,
		Align:          ex.attrs.Align,
		BoxWidth:       ex.boxWidth,
		Editable:       ex.geom,
		AroundEditable: ex.editable,
	}
	r.state = st
	r.needsPaint = true
	return nil
}

// Paint 在宿主画完底层文本后调用，把当前进度映射为线段并逐条绘制。
// 布局尚未产出度量时是空操作。返回本帧绘制的线段，调试输出复用。
func (r *Renderer) Paint(canvas Canvas) []Segment {
	if r.detached || r.state == nil || len(r.state.Metrics) == 0 {
		return nil
	}
	var origin scene.Point
	if r.state.Editable != nil {
		origin = r.state.Editable.Offset
	}
	var progress float64
	if r.progress != nil {
		progress = r.progress.Get()
	}
	segs := Segments(r.state.Metrics, r.state.FullTextWidth, progress,
		r.state.Direction, r.state.Align, r.state.BoxWidth, origin)
	if canvas != nil {
		for _, s := range segs {
			canvas.DrawLine(s.Start, s.End, r.stroke.color, r.stroke.width)
		}
	}
	r.needsPaint = false
	return segs
}
