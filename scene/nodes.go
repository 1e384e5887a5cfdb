package scene

// 该文件定义宿主合成树的节点模型。划线核心只通过 Node 接口观察它：
// 单子节点包装链、固定顺序的多槽容器，以及两类文本能力节点。
// 树由宿主构建且无环；所有布局/绘制调用均为单线程协作式。

// Kind 标记节点的文本能力。
type Kind int

const (
	KindNone Kind = iota // 无文本能力（包装、容器、装饰等）
	KindParagraph
	KindEditable
)

// Node 是合成树的最小观察接口。
// Child 返回单子包装的唯一子节点（无则为 nil）；
// Children 返回多槽容器声明顺序的子节点列表（无则为 nil）。
type Node interface {
	Kind() Kind
	Child() Node
	Children() []Node
	// ParentOffset 返回父节点为该节点记录的位置偏移；
	// 第二个返回值为 false 时表示父节点未提供位置信息。
	ParentOffset() (Point, bool)
	// DryLayout 在给定约束下计算尺寸但不提交布局结果。
	DryLayout(c Constraints) Size
}

// Wrapper 是单子包装节点，宿主常用于语义、内边距等装饰层，
// 包装链可以任意深。
type Wrapper struct {
	Inner Node
}

func (w *Wrapper) Kind() Kind                  { return KindNone }
func (w *Wrapper) Child() Node                 { return w.Inner }
func (w *Wrapper) Children() []Node            { return nil }
func (w *Wrapper) ParentOffset() (Point, bool) { return Point{}, false }

func (w *Wrapper) DryLayout(c Constraints) Size {
	if w.Inner == nil {
		return c.Constrain(Size{})
	}
	return w.Inner.DryLayout(c)
}

// DecoratedBox 是带几何信息的装饰盒：宿主已为其确定位置与尺寸。
// 可编辑节点不公开自身几何，核心依赖最近的祖先装饰盒恢复它。
type DecoratedBox struct {
	Inner  Node
	Offset Point
	Size   Size
	Border bool // 画布后端据此绘制边框
}

func (b *DecoratedBox) Kind() Kind                  { return KindNone }
func (b *DecoratedBox) Child() Node                 { return b.Inner }
func (b *DecoratedBox) Children() []Node            { return nil }
func (b *DecoratedBox) ParentOffset() (Point, bool) { return b.Offset, true }

func (b *DecoratedBox) DryLayout(c Constraints) Size { return c.Constrain(b.Size) }

// Slots 是固定顺序的多槽容器，子节点按声明顺序排列。
// 宿主内部结构（如输入框前置图标）决定槽位含义，核心不做假设。
type Slots struct {
	Items []Node
}

func (s *Slots) Kind() Kind                  { return KindNone }
func (s *Slots) Child() Node                 { return nil }
func (s *Slots) Children() []Node            { return s.Items }
func (s *Slots) ParentOffset() (Point, bool) { return Point{}, false }

func (s *Slots) DryLayout(c Constraints) Size {
	var w, h float64
	for _, it := range s.Items {
		sz := it.DryLayout(c)
		w += sz.Width
		if sz.Height > h {
			h = sz.Height
		}
	}
	return c.Constrain(Size{Width: w, Height: h})
}

// Icon 是无文本能力的叶子装饰（例如输入框的前置图标）。
type Icon struct {
	Extent float64 // 图标边长（px）
	Offset Point
}

func (i *Icon) Kind() Kind                  { return KindNone }
func (i *Icon) Child() Node                 { return nil }
func (i *Icon) Children() []Node            { return nil }
func (i *Icon) ParentOffset() (Point, bool) { return i.Offset, true }

func (i *Icon) DryLayout(c Constraints) Size {
	return c.Constrain(Size{Width: i.Extent, Height: i.Extent})
}

// Paragraph 是不可变文本段落节点：宿主已完成排版，
// 公开内容宽高，属性可直接读取。
type Paragraph struct {
	Attrs         TextAttributes
	ContentWidth  float64
	ContentHeight float64
	Offset        Point
	HasOffset     bool
}

func (p *Paragraph) Kind() Kind       { return KindParagraph }
func (p *Paragraph) Child() Node      { return nil }
func (p *Paragraph) Children() []Node { return nil }

func (p *Paragraph) ParentOffset() (Point, bool) { return p.Offset, p.HasOffset }

func (p *Paragraph) DryLayout(c Constraints) Size {
	return c.Constrain(Size{Width: p.ContentWidth, Height: p.ContentHeight})
}

// Editable 是可编辑文本节点。与 Paragraph 不同，它不公开可用的内容宽度，
// 调用方必须从祖先装饰盒推导约束宽度。
type Editable struct {
	Attrs       TextAttributes
	CursorWidth float64 // 光标宽度（px），参与可用宽度推导
}

func (e *Editable) Kind() Kind                  { return KindEditable }
func (e *Editable) Child() Node                 { return nil }
func (e *Editable) Children() []Node            { return nil }
func (e *Editable) ParentOffset() (Point, bool) { return Point{}, false }

// DryLayout 对可编辑节点无意义，返回约束下的零尺寸。
func (e *Editable) DryLayout(c Constraints) Size { return c.Constrain(Size{}) }
