package strike

import "github.com/ByLCY/strikethrough/scene"

// 该文件实现合成树搜索。宿主在文本节点外常套任意深的包装链，
// 可编辑文本还埋在多槽容器里，且槽位顺序是宿主版本相关的内部约定。
// 搜索策略集中在这里，几何/度量/绘制逻辑不感知槽位假设。

// SlotStrategy 决定多槽容器子节点的遍历顺序。
// 已知的宿主内部约定是"输入框位于槽 0，存在前置图标时顺延到槽 1"。
// 该约定未被宿主公开保证，宿主升级可能使其失效；因此作为可插拔
// 策略注入而非写死在遍历里。
type SlotStrategy func(items []scene.Node) []scene.Node

// DeclaredOrder 按容器声明顺序遍历，不施加任何槽位假设。
func DeclaredOrder(items []scene.Node) []scene.Node { return items }

// LeadingIconAware 实现上述槽位约定：若槽 0 是图标叶子，
// 则从槽 1 开始。仅此一条启发式，其余顺序保持不变。
func LeadingIconAware(items []scene.Node) []scene.Node {
	if len(items) >= 2 {
		if _, ok := items[0].(*scene.Icon); ok {
			reordered := make([]scene.Node, 0, len(items))
			reordered = append(reordered, items[1:]...)
			reordered = append(reordered, items[0])
			return reordered
		}
	}
	return items
}

// target 限定搜索的能力类型。
type target int

const (
	targetAny target = iota
	targetParagraph
	targetEditable
)

func (t target) matches(k scene.Kind) bool {
	switch t {
	case targetParagraph:
		return k == scene.KindParagraph
	case targetEditable:
		return k == scene.KindEditable
	default:
		return k == scene.KindParagraph || k == scene.KindEditable
	}
}

// locate 从 root 深度优先查找第一个匹配能力的节点，
// 返回命中节点及 root 到它的路径（含两端）。路径供几何提取阶段
// 回溯最近的祖先装饰盒使用。找不到时返回 (nil, nil)。
func locate(root scene.Node, want target, strategy SlotStrategy) (scene.Node, []scene.Node) {
	if strategy == nil {
		strategy = DeclaredOrder
	}
	var path []scene.Node
	var walk func(n scene.Node) scene.Node
	walk = func(n scene.Node) scene.Node {
		if n == nil {
			return nil
		}
		path = append(path, n)
		if want.matches(n.Kind()) {
			return n
		}
		if child := n.Child(); child != nil {
			if hit := walk(child); hit != nil {
				return hit
			}
		}
		if items := n.Children(); len(items) > 0 {
			for _, it := range strategy(items) {
				if hit := walk(it); hit != nil {
					return hit
				}
			}
		}
		path = path[:len(path)-1]
		return nil
	}
	hit := walk(root)
	if hit == nil {
		return nil, nil
	}
	return hit, path
}
