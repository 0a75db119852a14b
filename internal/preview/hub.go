package preview

import (
	"encoding/json"
	"log/slog"
	"sync"

	"agentConsole/internal/personalize"
)

// Hub 在进程内向所有 WebSocket 订阅者扇出预览推送消息。
// 订阅通道带缓冲，写满时丢弃该订阅者的本条消息，绝不阻塞合成路径。
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
	logger      *slog.Logger
}

// NewHub 构造消息中枢。
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
		logger:      logger,
	}
}

// Subscribe 注册一个订阅者，cancel 负责退订并关闭通道。
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// NotifyPreview 实现 personalize.Notifier。
func (h *Hub) NotifyPreview(msg personalize.PreviewNotification) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal preview notification failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			h.logger.Warn("subscriber channel full, dropping preview notification")
		}
	}
}
