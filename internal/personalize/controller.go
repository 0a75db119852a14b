package personalize

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agentConsole/internal/errcode"
	"agentConsole/internal/metrics"
)

// Composer 执行一次合成。
type Composer interface {
	Compose(ctx context.Context, branding BrandingInput, profile CustomizationProfile, docType DocumentType) (*ComposedDocument, error)
}

// PreviewHandle 是可展示的预览资源引用，释放后失效。
type PreviewHandle struct {
	ID  string
	URL string
}

// PreviewRenderer 管理预览资源的生命周期。
type PreviewRenderer interface {
	Render(docType DocumentType, pdfBytes []byte) PreviewHandle
	Release(handle PreviewHandle)
}

// BrandingUpdate 表示对品牌信息的部分更新；nil 成员保持原值。
type BrandingUpdate struct {
	Name           *string `json:"name"`
	PhotoReference *string `json:"photoURL"`
	Content        *string `json:"content"`
}

// State 是控制器对外暴露的状态快照。
type State struct {
	Branding     BrandingInput        `json:"branding"`
	Profile      CustomizationProfile `json:"customization"`
	DocumentType DocumentType         `json:"documentType"`
	PreviewURL   string               `json:"previewUrl,omitempty"`
}

// Controller 响应每次输入变更，异步重新合成预览。
// 每次变更令代数递增，只有最高代数的合成结果会被采用（陈旧结果直接丢弃，
// 等价于软取消）；合成失败时旧预览保持可见。Controller 是当前预览句柄的
// 唯一持有者：安装新句柄前必释放旧句柄，Close 时释放兜底。
type Controller struct {
	composer Composer
	renderer PreviewRenderer
	notifier Notifier
	store    *Store
	logger   *slog.Logger

	mu         sync.Mutex
	branding   BrandingInput
	docType    DocumentType
	generation uint64
	handle     PreviewHandle
	hasHandle  bool
}

type noopNotifier struct{}

func (noopNotifier) NotifyPreview(PreviewNotification) {}

// NewController 构造控制器，初始物料类型为 PDF。
func NewController(store *Store, composer Composer, renderer PreviewRenderer, notifier Notifier, logger *slog.Logger) *Controller {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		composer: composer,
		renderer: renderer,
		notifier: notifier,
		store:    store,
		logger:   logger,
		docType:  DocumentPDF,
	}
}

// State 返回当前状态快照。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Branding:     c.branding,
		Profile:      c.store.Profile(),
		DocumentType: c.docType,
	}
	if c.hasHandle {
		state.PreviewURL = c.handle.URL
	}
	return state
}

// SetBranding 合并品牌信息更新并触发重新合成。
func (c *Controller) SetBranding(update BrandingUpdate) {
	c.mu.Lock()
	if update.Name != nil {
		c.branding.Name = *update.Name
	}
	if update.PhotoReference != nil {
		c.branding.PhotoReference = *update.PhotoReference
	}
	if update.Content != nil {
		c.branding.Content = *update.Content
	}
	c.mu.Unlock()

	c.recompose()
}

// UpdateField 更新单个字段的摆放参数并触发重新合成。
func (c *Controller) UpdateField(field Field, update PlacementUpdate) FieldPlacement {
	placement := c.store.Apply(field, update)
	c.recompose()
	return placement
}

// SetDocumentType 切换物料类型。非 PDF 类型没有生成路径，切换本身不产生合成。
func (c *Controller) SetDocumentType(docType DocumentType) {
	c.mu.Lock()
	c.docType = docType
	c.mu.Unlock()

	c.recompose()
}

// ReplaceState 整体替换品牌信息与定制档案（加载已保存偏好后调用）。
func (c *Controller) ReplaceState(branding BrandingInput, profile CustomizationProfile) {
	c.store.Replace(profile)
	c.mu.Lock()
	c.branding = branding
	c.mu.Unlock()

	c.recompose()
}

// Close 释放当前预览句柄；随后到达的在途合成结果一律作废。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.hasHandle {
		c.renderer.Release(c.handle)
		c.hasHandle = false
	}
}

// recompose 用最新状态启动一轮合成。
func (c *Controller) recompose() {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	if c.docType != DocumentPDF {
		// Image/Video 暂无生成算法，变更只改状态不触发合成。
		c.mu.Unlock()
		return
	}
	branding := c.branding
	profile := c.store.Profile()
	docType := c.docType
	c.mu.Unlock()

	go c.compose(generation, branding, profile, docType)
}

func (c *Controller) compose(generation uint64, branding BrandingInput, profile CustomizationProfile, docType DocumentType) {
	log := c.logger.With(
		slog.Uint64("generation", generation),
		slog.String("document_type", string(docType)),
	)

	start := time.Now()
	doc, err := c.composer.Compose(context.Background(), branding, profile, docType)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		metrics.ObserveComposition(metrics.ResultSuperseded, elapsed)
		log.Debug("composition superseded, discarding result")
		return
	}

	if err != nil {
		metrics.ObserveComposition(metrics.ResultFailed, elapsed)
		log.Error("composition failed, keeping last preview", slog.Any("error", err))
		c.notifier.NotifyPreview(PreviewNotification{
			Status:       "error",
			DocumentType: docType,
			Generation:   generation,
			ErrorCode:    errcode.CompositionFailed,
			ErrorMessage: strings.TrimSpace(err.Error()),
		})
		return
	}

	handle := c.renderer.Render(docType, doc.Bytes)
	if c.hasHandle {
		c.renderer.Release(c.handle)
	}
	c.handle = handle
	c.hasHandle = true

	metrics.ObserveComposition(metrics.ResultSuccess, elapsed)
	log.Info("composition completed",
		slog.String("preview_id", handle.ID),
		slog.Int("element_count", len(doc.Elements)),
		slog.Duration("elapsed", elapsed),
	)
	c.notifier.NotifyPreview(PreviewNotification{
		Status:       "completed",
		DocumentType: docType,
		PreviewURL:   handle.URL,
		Generation:   generation,
		ErrorCode:    errcode.OK,
	})
}
