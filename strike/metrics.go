package strike

import (
	"fmt"

	"github.com/ByLCY/strikethrough/scene"
)

// LineMetric 描述排版后一行文本的度量，坐标为布局本地坐标。
// Left 是该行相对盒左边缘的起始偏移（由对齐方式决定），
// Left+Width 不超过产生它的约束宽度。
type LineMetric struct {
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Typesetter 是排版神谕：给定内容、属性与最大宽度，返回自上而下的
// 行度量序列。必须使用与宿主一致的属性，否则换行点会偏离可见文本。
// maxWidth <= 0 表示不限宽（单行输入框不折行）。
type Typesetter interface {
	LayoutLines(content string, attrs scene.TextAttributes, maxWidth float64) ([]LineMetric, error)
}

// recompute 调用排版神谕并做基本校验，返回行度量与总可划长度。
// 结果整体替换旧缓存，绘制阶段不会观察到部分更新。
func recompute(ts Typesetter, attrs scene.TextAttributes, maxWidth float64) ([]LineMetric, float64, error) {
	if ts == nil {
		return nil, 0, fmt.Errorf("strike: 缺少排版后端 Typesetter")
	}
	metrics, err := ts.LayoutLines(attrs.Content, attrs, maxWidth)
	if err != nil {
		return nil, 0, fmt.Errorf("strike: 重排行度量失败: %w", err)
	}
	if len(metrics) == 0 {
		return nil, 0, nil
	}
	var full float64
	for _, m := range metrics {
		full += m.Width
	}
	return metrics, full, nil
}

// FullWidth 返回行度量的宽度之和，即进度为 1 时的总划线长度。
func FullWidth(metrics []LineMetric) float64 {
	var full float64
	for _, m := range metrics {
		full += m.Width
	}
	return full
}
