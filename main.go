package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/strikethrough/dsl"
	"github.com/ByLCY/strikethrough/renderer"
	canvasrenderer "github.com/ByLCY/strikethrough/renderer/canvas"
	"github.com/ByLCY/strikethrough/scene"
)

func main() {
	input := flag.String("in", "examples/demo.strike", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径（每个动画帧一页）")
	debug := flag.String("debug", "", "逐帧度量/线段调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r := canvasrenderer.NewRenderer(filepath.Dir(*input))
	if err := run(*input, *output, *debug, inputData, r); err != nil {
		log.Fatalf("生成动画 PDF 失败: %v", err)
	}
	fmt.Printf("已生成动画 PDF：%s\n", *output)
}

// run 串联解析、场景构建与渲染。
func run(inputPath, outputPath, debugPath string, data any, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return err
	}

	res, err := scene.Build(doc, data)
	if err != nil {
		return fmt.Errorf("场景构建失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(res)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if debugPath != "" {
		cr, ok := r.(*canvasrenderer.Renderer)
		if !ok {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := scene.WriteDebugJSON(cr.DebugFrames(), debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}
