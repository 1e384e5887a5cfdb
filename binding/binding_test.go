package binding

import "testing"

// TestFloatListen 验证订阅通知与值读取。
func TestFloatListen(t *testing.T) {
	f := NewFloat(0.25)
	if f.Get() != 0.25 {
		t.Fatalf("初始值错误: %g", f.Get())
	}

	notified := 0
	release := f.Listen(func() { notified++ })
	f.Set(0.5)
	f.Set(0.5) // 同值也通知
	if notified != 2 {
		t.Fatalf("期望通知 2 次，实际 %d 次", notified)
	}
	if f.Get() != 0.5 {
		t.Fatalf("Set 后取值错误: %g", f.Get())
	}
	release()
	f.Set(0.75)
	if notified != 2 {
		t.Fatalf("释放后不应再通知")
	}
}

// TestFloatReleaseIdempotent 验证释放函数可安全地多次调用，
// 且不会误删后继订阅。
func TestFloatReleaseIdempotent(t *testing.T) {
	f := NewFloat(0)
	releaseA := f.Listen(func() {})
	releaseA()
	releaseA()
	releaseB := f.Listen(func() {})
	releaseA() // 不应影响 B 的订阅
	if f.ListenerCount() != 1 {
		t.Fatalf("期望剩 1 个订阅，实际 %d", f.ListenerCount())
	}
	releaseB()
	if f.ListenerCount() != 0 {
		t.Fatalf("释放后应无订阅，实际 %d", f.ListenerCount())
	}
}

// TestInterpolate 验证 ${path} 占位符替换与缺失路径的回退。
func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{"name": "Lin"},
		"items": []any{
			map[string]any{"title": "first"},
		},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"hello ${user.name}", "hello Lin"},
		{"item: ${items[0].title}", "item: first"},
		{"missing ${user.phone}", "missing ${user.phone}"},
		{"no placeholder", "no placeholder"},
		{"bad index ${items[9].title}", "bad index ${items[9].title}"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := Interpolate("as-is ${x}", nil); got != "as-is ${x}" {
		t.Fatalf("data 为空应原样返回: %q", got)
	}
}
