package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"agentConsole/internal/personalize"
	"agentConsole/internal/session"
)

// TypePreference 是某一物料类型下已保存的品牌与定制内容。
// Customization 为 nil 表示远端记录缺少定制档案，调用方应回退默认值。
type TypePreference struct {
	Name          string                            `json:"name"`
	PhotoURL      string                            `json:"photoURL"`
	Content       string                            `json:"content"`
	Customization *personalize.CustomizationProfile `json:"customization"`
}

// AgentPreferences 是一名用户的全部个性化记录（按物料类型分组）。
// 记录归远端平台所有，这里只是会话期内的读写缓存。
type AgentPreferences struct {
	Email string          `json:"email"`
	PDF   *TypePreference `json:"pdf_preferences"`
	Image *TypePreference `json:"image_preferences"`
	Video *TypePreference `json:"video_preferences"`
}

// ForType 取某一物料类型的已保存偏好；没有则返回 nil。
func (p *AgentPreferences) ForType(docType personalize.DocumentType) *TypePreference {
	if p == nil {
		return nil
	}
	switch docType {
	case personalize.DocumentPDF:
		return p.PDF
	case personalize.DocumentImage:
		return p.Image
	case personalize.DocumentVideo:
		return p.Video
	}
	return nil
}

func (p *AgentPreferences) setType(docType personalize.DocumentType, pref *TypePreference) {
	switch docType {
	case personalize.DocumentPDF:
		p.PDF = pref
	case personalize.DocumentImage:
		p.Image = pref
	case personalize.DocumentVideo:
		p.Video = pref
	}
}

// PreferenceRecord 是一次保存提交的扁平化载荷（user + documentType 维度）。
type PreferenceRecord struct {
	Email         string                           `json:"email"`
	Type          personalize.DocumentType         `json:"type"`
	Name          string                           `json:"name"`
	PhotoURL      string                           `json:"photoURL"`
	Content       string                           `json:"content"`
	Customization personalize.CustomizationProfile `json:"customization"`
}

func (r PreferenceRecord) typePreference() *TypePreference {
	customization := r.Customization
	return &TypePreference{
		Name:          r.Name,
		PhotoURL:      r.PhotoURL,
		Content:       r.Content,
		Customization: &customization,
	}
}

// LoadPreferences 拉取用户的个性化记录。
// 记录不存在返回 (nil, nil)：调用方显式落回默认档案与空品牌信息。
func (c *Client) LoadPreferences(ctx context.Context, sess *session.Session, email string) (*AgentPreferences, error) {
	var envelope apiEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/api/get/agentPreferences", sess, map[string]string{
		"email": email,
	}, &envelope)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !envelope.Success || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, nil
	}

	var prefs AgentPreferences
	if err := json.Unmarshal(envelope.Data, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

// CreatePreferences 首次创建个性化记录。
func (c *Client) CreatePreferences(ctx context.Context, sess *session.Session, rec PreferenceRecord) (*AgentPreferences, error) {
	var envelope apiEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/create/agentPreferences", sess, rec, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("create preferences rejected: %s", envelope.Message)
	}

	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		var prefs AgentPreferences
		if err := json.Unmarshal(envelope.Data, &prefs); err == nil {
			return &prefs, nil
		}
	}

	created := &AgentPreferences{Email: rec.Email}
	created.setType(rec.Type, rec.typePreference())
	return created, nil
}

// UpdatePreferences 更新既有记录中对应物料类型的字段。
func (c *Client) UpdatePreferences(ctx context.Context, sess *session.Session, rec PreferenceRecord) error {
	var envelope apiEnvelope
	if err := c.doJSON(ctx, http.MethodPut, "/api/update/agentPreferences", sess, rec, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return fmt.Errorf("update preferences rejected: %s", envelope.Message)
	}
	return nil
}

// SavePreferences 按"是否已有记录"显式二分：existing 为 nil 走创建，
// 否则走更新；返回保存后的缓存副本。远端把创建与更新暴露为两个不同操作，
// 调用方必须依据先前 LoadPreferences 的结果做这次选择。
func (c *Client) SavePreferences(ctx context.Context, sess *session.Session, rec PreferenceRecord, existing *AgentPreferences) (*AgentPreferences, error) {
	if existing == nil {
		return c.CreatePreferences(ctx, sess, rec)
	}

	if err := c.UpdatePreferences(ctx, sess, rec); err != nil {
		return nil, err
	}

	updated := *existing
	updated.setType(rec.Type, rec.typePreference())
	return &updated, nil
}
