package binding

// Float 是外部动画进度源：一个可订阅的浮点值。
// 值的产生方（时钟/控制器）拥有它；渲染器只持有非拥有引用与一份
// 订阅。按宿主的单线程协作模型使用，不做并发防护。
type Float struct {
	value     float64
	nextID    int
	listeners map[int]func()
}

// NewFloat 创建初始值为 v 的进度源。
func NewFloat(v float64) *Float {
	return &Float{value: v, listeners: map[int]func(){}}
}

// Get 返回当前值。
func (f *Float) Get() float64 { return f.value }

// Set 更新值并同步通知所有订阅者。值相同也通知——驱动方可能依赖
// 每个 tick 都触发重绘请求。
func (f *Float) Set(v float64) {
	f.value = v
	for _, fn := range f.listeners {
		fn()
	}
}

// Listen 注册变化回调，返回释放函数。释放函数可安全地多次调用，
// 只有第一次生效；订阅方必须在自身销毁前调用它，否则回调会在
// 订阅方之后继续存活并写入已失效的状态。
func (f *Float) Listen(fn func()) (release func()) {
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	released := false
	return func() {
		if released {
			return
		}
		released = true
		delete(f.listeners, id)
	}
}

// ListenerCount 返回当前订阅数，供生命周期测试断言恰好一次释放。
func (f *Float) ListenerCount() int { return len(f.listeners) }
