package personalize

import (
	"fmt"
	"strings"
)

// DocumentType 表示可个性化的物料类型。
type DocumentType string

const (
	DocumentPDF   DocumentType = "pdf"
	DocumentImage DocumentType = "image"
	DocumentVideo DocumentType = "video"
)

// ParseDocumentType 解析物料类型（大小写不敏感）。
func ParseDocumentType(raw string) (DocumentType, error) {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentPDF:
		return DocumentPDF, nil
	case DocumentImage:
		return DocumentImage, nil
	case DocumentVideo:
		return DocumentVideo, nil
	}
	return "", fmt.Errorf("unknown document type %q", raw)
}

// Field 标识文档中的可定制字段。字段集合固定，不支持动态扩展。
type Field string

const (
	FieldName    Field = "name"
	FieldPhoto   Field = "photo"
	FieldContent Field = "content"
)

// ParseField 解析字段名。
func ParseField(raw string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(raw))) {
	case FieldName:
		return FieldName, nil
	case FieldPhoto:
		return FieldPhoto, nil
	case FieldContent:
		return FieldContent, nil
	}
	return "", fmt.Errorf("unknown field %q", raw)
}

// BrandingInput 是用户希望盖印到文档上的品牌信息。
type BrandingInput struct {
	Name           string `json:"name"`
	PhotoReference string `json:"photoURL"`
	Content        string `json:"content"`
}

// FieldPlacement 描述单个字段的摆放参数。
// 文本字段使用 FontSize，照片字段使用 Width/Height；坐标系与页面约定一致：
// X 自左边起、Y 自下边起（PDF 用户空间）。
type FieldPlacement struct {
	Enabled  bool    `json:"enabled"`
	XPos     float64 `json:"xPos"`
	YPos     float64 `json:"yPos"`
	FontSize float64 `json:"fontSize,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// CustomizationProfile 是字段到摆放参数的完整映射。
type CustomizationProfile struct {
	Name    FieldPlacement `json:"name"`
	Photo   FieldPlacement `json:"photo"`
	Content FieldPlacement `json:"content"`
}

// 摆放参数的取值边界，与 UI 滑杆的 min/max 保持一致。
const (
	MinXPos     = 0.0
	MaxXPos     = 500.0
	MinYPos     = 0.0
	MaxYPos     = 700.0
	MinFontSize = 10.0
	MaxFontSize = 72.0
	MinPhotoDim = 50.0
	MaxPhotoDim = 300.0
)

// DefaultProfile 返回文档约定的默认摆放参数。
func DefaultProfile() CustomizationProfile {
	return CustomizationProfile{
		Name:    FieldPlacement{Enabled: true, XPos: 50, YPos: 50, FontSize: 14},
		Photo:   FieldPlacement{Enabled: true, XPos: 50, YPos: 150, Width: 100, Height: 100},
		Content: FieldPlacement{Enabled: true, XPos: 50, YPos: 250, FontSize: 12},
	}
}

// Get 按字段取出摆放参数。
func (p CustomizationProfile) Get(field Field) FieldPlacement {
	switch field {
	case FieldPhoto:
		return p.Photo
	case FieldContent:
		return p.Content
	default:
		return p.Name
	}
}

func (p *CustomizationProfile) set(field Field, placement FieldPlacement) {
	switch field {
	case FieldName:
		p.Name = placement
	case FieldPhoto:
		p.Photo = placement
	case FieldContent:
		p.Content = placement
	}
}
