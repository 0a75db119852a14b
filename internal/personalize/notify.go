package personalize

// 统一的预览推送消息协议（经由本地 WebSocket 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。
type PreviewNotification struct {
	Status       string       `json:"status"`
	DocumentType DocumentType `json:"document_type"`
	PreviewURL   string       `json:"preview_url,omitempty"`
	Generation   uint64       `json:"generation"`
	ErrorCode    int          `json:"error_code"`
	ErrorMessage string       `json:"error_message"`
}

// Notifier 接收预览状态变化的推送。
type Notifier interface {
	NotifyPreview(msg PreviewNotification)
}
