package strike

import "github.com/ByLCY/strikethrough/scene"

// EditableGeometry 记录包裹可编辑节点的装饰盒的位置与干布局尺寸。
// 段落子节点没有这份几何：偏移取零，尺寸直接来自段落本身。
type EditableGeometry struct {
	Offset scene.Point `json:"offset"`
	Size   scene.Size  `json:"size"`
}

// extraction 是一次布局提取的结果：属性快照、约束宽度与可选的
// 可编辑几何。maxWidth <= 0 表示不限宽。
type extraction struct {
	attrs    scene.TextAttributes
	maxWidth float64
	boxWidth float64
	editable bool
	geom     *EditableGeometry
}

// extract 从命中节点拷出属性快照并确定约束宽度。
//   - 段落节点：属性与宽度直接读取（宽度即其已排版的内容宽度）。
//   - 可编辑节点：属性可读，但宽度必须推导。沿 path 回溯最近的
//     祖先装饰盒取得位置偏移与干布局尺寸；允许多行时可用宽度为
//     max(0, 盒宽 - 1 - 光标宽)，单行输入框不折行、宽度不限。
//
// 祖先盒缺失时返回 false：本轮按不支持的子节点处理，下次布局重试。
func extract(hit scene.Node, path []scene.Node, c scene.Constraints) (extraction, bool) {
	switch n := hit.(type) {
	case *scene.Paragraph:
		attrs := n.Attrs
		attrs.Direction = attrs.Direction.Resolve(attrs.Content)
		return extraction{
			attrs:    attrs,
			maxWidth: n.ContentWidth,
			boxWidth: n.ContentWidth,
		}, true
	case *scene.Editable:
		box := nearestBox(path)
		if box == nil {
			return extraction{}, false
		}
		size := box.DryLayout(c)
		attrs := n.Attrs
		attrs.Direction = attrs.Direction.Resolve(attrs.Content)
		ex := extraction{
			attrs:    attrs,
			boxWidth: size.Width,
			editable: true,
			geom:     &EditableGeometry{Offset: box.Offset, Size: size},
		}
		if attrs.Multiline() {
			w := size.Width - 1 - n.CursorWidth
			if w < 0 {
				w = 0
			}
			ex.maxWidth = w
			ex.boxWidth = w
		} else {
			ex.maxWidth = 0 // 单行：不限宽
		}
		return ex, true
	default:
		return extraction{}, false
	}
}

// nearestBox 从路径末端向根回溯，返回最近的装饰盒祖先。
func nearestBox(path []scene.Node) *scene.DecoratedBox {
	for i := len(path) - 1; i >= 0; i-- {
		if box, ok := path[i].(*scene.DecoratedBox); ok {
			return box
		}
	}
	return nil
}
