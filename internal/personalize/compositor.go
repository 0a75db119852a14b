package personalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// ErrNoGenerator 表示该物料类型没有定义生成算法（目前仅 PDF 有）。
var ErrNoGenerator = errors.New("no generator defined for document type")

// CompositionError 表示一次合成整体失败：图片拉取/解码或文档构建任一环节
// 出错都会中止本次合成，旧的预览由调用方继续保留。
type CompositionError struct {
	Reason error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition failed: %v", e.Reason)
}

func (e *CompositionError) Unwrap() error {
	return e.Reason
}

// ElementKind 区分被绘制的元素种类。
type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementImage ElementKind = "image"
)

// DrawnElement 记录一次绘制调用的参数（用户空间坐标），便于检视与测试。
type DrawnElement struct {
	Kind     ElementKind `json:"kind"`
	Field    Field       `json:"field"`
	Text     string      `json:"text,omitempty"`
	XPos     float64     `json:"xPos"`
	YPos     float64     `json:"yPos"`
	FontSize float64     `json:"fontSize,omitempty"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	Bold     bool        `json:"bold,omitempty"`
}

// ComposedDocument 是合成产物：PDF 字节与绘制元素清单。
// 仅存在于内存，输入变化时整体重新生成。
type ComposedDocument struct {
	DocumentType DocumentType
	Bytes        []byte
	Elements     []DrawnElement
}

// 固定创建时间，保证相同输入字节级一致的输出。
var compositionEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Compositor 将品牌信息与定制档案合成为单页 PDF。
// 除按引用现取照片字节外，Compose 对相同输入产出字节级相同的结果。
type Compositor struct {
	httpClient *http.Client
}

// NewCompositor 构造合成器。client 为 nil 时使用带默认超时的客户端。
func NewCompositor(client *http.Client) *Compositor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Compositor{httpClient: client}
}

// Compose 执行一次合成。绘制顺序固定为 name → photo → content；
// 关闭的字段与空的品牌值不产生任何绘制。
func (c *Compositor) Compose(ctx context.Context, branding BrandingInput, profile CustomizationProfile, docType DocumentType) (*ComposedDocument, error) {
	if docType != DocumentPDF {
		return nil, ErrNoGenerator
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(compositionEpoch)
	pdf.SetModificationDate(compositionEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	doc := &ComposedDocument{DocumentType: docType}

	if profile.Name.Enabled && branding.Name != "" {
		pdf.SetFont("Helvetica", "B", profile.Name.FontSize)
		pdf.SetTextColor(0, 0, 0)
		// Y 轴按 PDF 用户空间自下而上，绘制时换算为自上而下。
		pdf.Text(profile.Name.XPos, pageH-profile.Name.YPos, branding.Name)
		doc.Elements = append(doc.Elements, DrawnElement{
			Kind:     ElementText,
			Field:    FieldName,
			Text:     branding.Name,
			XPos:     profile.Name.XPos,
			YPos:     profile.Name.YPos,
			FontSize: profile.Name.FontSize,
			Bold:     true,
		})
	}

	if profile.Photo.Enabled && branding.PhotoReference != "" {
		photoBytes, err := c.fetchPhoto(ctx, branding.PhotoReference)
		if err != nil {
			return nil, &CompositionError{Reason: err}
		}
		imageType, err := detectRasterFormat(photoBytes)
		if err != nil {
			return nil, &CompositionError{Reason: err}
		}

		opts := fpdf.ImageOptions{ImageType: imageType}
		pdf.RegisterImageOptionsReader("branding-photo", opts, bytes.NewReader(photoBytes))
		pdf.ImageOptions(
			"branding-photo",
			profile.Photo.XPos,
			pageH-profile.Photo.YPos-profile.Photo.Height,
			profile.Photo.Width,
			profile.Photo.Height,
			false,
			opts,
			0,
			"",
		)
		doc.Elements = append(doc.Elements, DrawnElement{
			Kind:   ElementImage,
			Field:  FieldPhoto,
			XPos:   profile.Photo.XPos,
			YPos:   profile.Photo.YPos,
			Width:  profile.Photo.Width,
			Height: profile.Photo.Height,
		})
	}

	if profile.Content.Enabled && branding.Content != "" {
		pdf.SetFont("Helvetica", "", profile.Content.FontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(profile.Content.XPos, pageH-profile.Content.YPos, branding.Content)
		doc.Elements = append(doc.Elements, DrawnElement{
			Kind:     ElementText,
			Field:    FieldContent,
			Text:     branding.Content,
			XPos:     profile.Content.XPos,
			YPos:     profile.Content.YPos,
			FontSize: profile.Content.FontSize,
		})
	}

	if pdf.Err() {
		return nil, &CompositionError{Reason: fmt.Errorf("build pdf: %w", pdf.Error())}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &CompositionError{Reason: fmt.Errorf("write pdf: %w", err)}
	}
	doc.Bytes = buf.Bytes()

	return doc, nil
}

// fetchPhoto 按引用现取照片字节。
func (c *Compositor) fetchPhoto(ctx context.Context, photoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		return nil, fmt.Errorf("fetch photo status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read photo bytes: %w", err)
	}
	return data, nil
}

// detectRasterFormat 先按 PNG 解码，失败后再尝试 JPEG。
// 顺序不可调换：来源格式未知时保持与既有行为一致的回退次序。
func detectRasterFormat(data []byte) (string, error) {
	if _, err := png.Decode(bytes.NewReader(data)); err == nil {
		return "PNG", nil
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return "JPG", nil
	}
	return "", errors.New("decode photo: neither valid png nor jpeg")
}
