package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/personalize"
	"agentConsole/internal/platform"
	"agentConsole/internal/session"
)

// PersonalizationHandler 编排个性化流程：加载/保存远端偏好，
// 把用户编辑转交控制器触发预览重算。
// 已加载的偏好是一个显式的 Option：nil 表示远端没有记录，保存走创建；
// 非 nil 表示保存走更新。
type PersonalizationHandler struct {
	platform   *platform.Client
	controller *personalize.Controller
	logger     *slog.Logger

	mu          sync.Mutex
	loaded      bool
	loadedEmail string
	prefs       *platform.AgentPreferences
}

// NewPersonalizationHandler 构造个性化处理器。
func NewPersonalizationHandler(platformClient *platform.Client, controller *personalize.Controller, logger *slog.Logger) *PersonalizationHandler {
	return &PersonalizationHandler{
		platform:   platformClient,
		controller: controller,
		logger:     logger,
	}
}

// ensureLoaded 保证当前会话的偏好已经加载过一次。
// 加载失败时不改动既有内存状态，错误原样返回给调用方处理。
func (h *PersonalizationHandler) ensureLoaded(ctx context.Context, sess *session.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded && h.loadedEmail == sess.User.Email {
		return nil
	}

	prefs, err := h.platform.LoadPreferences(ctx, sess, sess.User.Email)
	if err != nil {
		return err
	}

	h.prefs = prefs
	h.loaded = true
	h.loadedEmail = sess.User.Email

	docType := h.controller.State().DocumentType
	h.applyTypePreferenceLocked(docType)
	return nil
}

// applyTypePreferenceLocked 把缓存中对应物料类型的偏好整体套入控制器；
// 没有记录时落回默认档案与空品牌信息。调用方需持有 h.mu。
func (h *PersonalizationHandler) applyTypePreferenceLocked(docType personalize.DocumentType) {
	pref := h.prefs.ForType(docType)
	if pref == nil {
		h.controller.ReplaceState(personalize.BrandingInput{}, personalize.DefaultProfile())
		return
	}

	profile := personalize.DefaultProfile()
	if pref.Customization != nil {
		profile = *pref.Customization
	}
	h.controller.ReplaceState(personalize.BrandingInput{
		Name:           pref.Name,
		PhotoReference: pref.PhotoURL,
		Content:        pref.Content,
	}, profile)
}

// State 返回当前个性化状态（首次访问时拉取已保存偏好）。
func (h *PersonalizationHandler) State(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	logger := middleware.LoggerFromContext(c)

	if err := h.ensureLoaded(c.Request.Context(), sess); err != nil {
		respondPlatformError(c, logger, "load preferences", err)
		return
	}

	h.mu.Lock()
	hasSaved := h.prefs != nil
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"state":          h.controller.State(),
		"hasSavedRecord": hasSaved,
	})
}

type documentTypeRequest struct {
	Type string `json:"type" binding:"required"`
}

// SetDocumentType 切换物料类型，并套入该类型下已保存的偏好。
func (h *PersonalizationHandler) SetDocumentType(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	logger := middleware.LoggerFromContext(c)

	var req documentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	docType, err := personalize.ParseDocumentType(req.Type)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.ensureLoaded(c.Request.Context(), sess); err != nil {
		respondPlatformError(c, logger, "load preferences", err)
		return
	}

	h.controller.SetDocumentType(docType)

	h.mu.Lock()
	h.applyTypePreferenceLocked(docType)
	h.mu.Unlock()

	logger.Info("document type switched", slog.String("document_type", string(docType)))
	c.JSON(http.StatusOK, gin.H{"state": h.controller.State()})
}

// SetBranding 合并一次品牌信息的部分更新。
func (h *PersonalizationHandler) SetBranding(c *gin.Context) {
	var update personalize.BrandingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		BadRequest(c, err.Error())
		return
	}

	h.controller.SetBranding(update)
	c.JSON(http.StatusOK, gin.H{"state": h.controller.State()})
}

// UpdateField 合并单个字段摆放参数的部分更新（越界值被钳制）。
func (h *PersonalizationHandler) UpdateField(c *gin.Context) {
	field, err := personalize.ParseField(c.Param("field"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	var update personalize.PlacementUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		BadRequest(c, err.Error())
		return
	}

	placement := h.controller.UpdateField(field, update)
	c.JSON(http.StatusOK, gin.H{"field": field, "placement": placement})
}

// Save 显式保存当前状态：有已加载记录走更新，否则走创建。
func (h *PersonalizationHandler) Save(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	logger := middleware.LoggerFromContext(c)

	if err := h.ensureLoaded(c.Request.Context(), sess); err != nil {
		respondPlatformError(c, logger, "load preferences", err)
		return
	}

	state := h.controller.State()
	rec := platform.PreferenceRecord{
		Email:         sess.User.Email,
		Type:          state.DocumentType,
		Name:          state.Branding.Name,
		PhotoURL:      state.Branding.PhotoReference,
		Content:       state.Branding.Content,
		Customization: state.Profile,
	}

	h.mu.Lock()
	existing := h.prefs
	h.mu.Unlock()

	saved, err := h.platform.SavePreferences(c.Request.Context(), sess, rec, existing)
	if err != nil {
		respondPlatformError(c, logger, "save preferences", err)
		return
	}

	h.mu.Lock()
	h.prefs = saved
	h.mu.Unlock()

	logger.Info("preferences saved",
		slog.String("document_type", string(state.DocumentType)),
		slog.Bool("created", existing == nil),
	)
	c.JSON(http.StatusOK, gin.H{"created": existing == nil})
}
