package scene

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将任意调试快照输出为 JSON，便于排查每帧的度量与线段。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
