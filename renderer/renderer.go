package renderer

import "github.com/ByLCY/strikethrough/scene"

// Renderer 将演示场景连同划线动画输出为最终文件，例如逐帧 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(res *scene.Result) ([]byte, error)
}
