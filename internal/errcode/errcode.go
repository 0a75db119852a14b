package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如本次预览生成失败但旧预览仍可用）
// - 5xxx：系统错误（需要中断流程）
const (
	OK                = 0
	AuthFailed        = 4001
	PreferenceMissing = 4004
	CompositionFailed = 4102
	SystemError       = 5000
)
