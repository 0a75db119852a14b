package preview

import (
	"sync"

	"github.com/google/uuid"

	"agentConsole/internal/personalize"
)

// Renderer 把合成产物变成可内联展示的本地资源：字节保存在内存里，
// 通过 /v1/preview/:id 提供；Release 后立即失效（对应 404）。
type Renderer struct {
	mu       sync.RWMutex
	basePath string
	docs     map[string][]byte
}

// NewRenderer 构造渲染器。
func NewRenderer() *Renderer {
	return &Renderer{
		basePath: "/v1/preview",
		docs:     make(map[string][]byte),
	}
}

// Render 注册一份预览字节并返回句柄。
func (r *Renderer) Render(_ personalize.DocumentType, pdfBytes []byte) personalize.PreviewHandle {
	id := uuid.NewString()

	data := make([]byte, len(pdfBytes))
	copy(data, pdfBytes)

	r.mu.Lock()
	r.docs[id] = data
	r.mu.Unlock()

	return personalize.PreviewHandle{
		ID:  id,
		URL: r.basePath + "/" + id,
	}
}

// Release 释放句柄背后的内存，重复释放是无害的。
func (r *Renderer) Release(handle personalize.PreviewHandle) {
	r.mu.Lock()
	delete(r.docs, handle.ID)
	r.mu.Unlock()
}

// Get 取出句柄对应的字节；句柄已释放或不存在时 ok 为 false。
func (r *Renderer) Get(id string) (data []byte, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok = r.docs[id]
	return data, ok
}

// ActiveCount 返回当前持有的预览数量。
func (r *Renderer) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
