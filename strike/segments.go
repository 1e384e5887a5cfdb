package strike

import "github.com/ByLCY/strikethrough/scene"

// Segment 是一帧中要绘制的一条线段，坐标为设备像素。
type Segment struct {
	Start scene.Point `json:"start"`
	End   scene.Point `json:"end"`
}

// 笔画相对行高的垂直位置：略低于基线，呈删除线而非下划线。
const strikeHeightFactor = 0.55

// Segments 是核心算法：把 [0,1] 的进度值映射为本帧的线段序列。
//
// 把所有行视作一条总长 fullWidth 的连续轨道，remaining =
// fullWidth * clamp(progress)。自上而下逐行消耗：每行消耗
// min(remaining, 行宽)，耗尽后停止，后续行不产生线段——划线逐行
// 扫过的效果正来自这种提前停止。
//
// 水平锚点：LTR 从行的 Left 起向右延伸；RTL 锚定行的右边缘向左
// 消耗，右边缘由对齐方式决定——居中时为 (boxWidth-行宽)/2 起的行尾，
// start/right（RTL 下即贴右）时为 boxWidth，其余贴左。
// origin 为整体偏移（覆盖可编辑节点时为其装饰盒位置），逐点相加。
func Segments(metrics []LineMetric, fullWidth, progress float64, dir scene.Direction, align scene.Align, boxWidth float64, origin scene.Point) []Segment {
	if len(metrics) == 0 || fullWidth <= 0 {
		return nil
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	remaining := fullWidth * progress
	if remaining <= 0 {
		return nil
	}

	segments := make([]Segment, 0, len(metrics))
	var runningHeight float64
	for _, line := range metrics {
		if remaining <= 0 {
			break
		}
		consumed := line.Width
		if consumed > remaining {
			consumed = remaining
		}
		y := origin.Y + runningHeight + line.Height*strikeHeightFactor
		runningHeight += line.Height

		var x0, x1 float64
		if dir == scene.DirectionRTL {
			right := rtlRightEdge(line, align, boxWidth)
			x0 = origin.X + right - consumed
			x1 = origin.X + right
		} else {
			x0 = origin.X + line.Left
			x1 = x0 + consumed
		}
		if consumed > 0 {
			segments = append(segments, Segment{
				Start: scene.Point{X: x0, Y: y},
				End:   scene.Point{X: x1, Y: y},
			})
		}
		remaining -= consumed
	}
	return segments
}

// rtlRightEdge 计算 RTL 下某行的右边缘锚点。
func rtlRightEdge(line LineMetric, align scene.Align, boxWidth float64) float64 {
	switch align {
	case scene.AlignCenter:
		return (boxWidth-line.Width)/2 + line.Width
	case scene.AlignStart, scene.AlignRight:
		// RTL 的 start 即贴右
		return boxWidth
	default:
		return line.Width
	}
}
