package personalize

import "sync"

// PlacementUpdate 表示对单个字段的部分更新；nil 成员保持原值不变。
type PlacementUpdate struct {
	Enabled  *bool    `json:"enabled"`
	XPos     *float64 `json:"xPos"`
	YPos     *float64 `json:"yPos"`
	FontSize *float64 `json:"fontSize"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
}

// Store 持有内存中的定制档案。越界取值按滑杆语义钳制到最近边界，
// 从不拒绝；除更新内存档案外没有任何副作用。
type Store struct {
	mu      sync.Mutex
	profile CustomizationProfile
}

// NewStore 以默认档案构造 Store。
func NewStore() *Store {
	return &Store{profile: DefaultProfile()}
}

// Profile 返回当前档案的副本。
func (s *Store) Profile() CustomizationProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Get 返回单个字段的摆放参数。
func (s *Store) Get(field Field) FieldPlacement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Get(field)
}

// Replace 整体替换档案（加载已保存偏好时使用），替换前同样钳制取值。
func (s *Store) Replace(profile CustomizationProfile) {
	profile.Name = clampPlacement(FieldName, profile.Name)
	profile.Photo = clampPlacement(FieldPhoto, profile.Photo)
	profile.Content = clampPlacement(FieldContent, profile.Content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// Apply 合并一次部分更新并返回更新后的摆放参数。
// 只改动 update 中非 nil 的属性，字段的其余属性与其他字段不受影响。
func (s *Store) Apply(field Field, update PlacementUpdate) FieldPlacement {
	s.mu.Lock()
	defer s.mu.Unlock()

	placement := s.profile.Get(field)
	if update.Enabled != nil {
		placement.Enabled = *update.Enabled
	}
	if update.XPos != nil {
		placement.XPos = *update.XPos
	}
	if update.YPos != nil {
		placement.YPos = *update.YPos
	}
	if update.FontSize != nil {
		placement.FontSize = *update.FontSize
	}
	if update.Width != nil {
		placement.Width = *update.Width
	}
	if update.Height != nil {
		placement.Height = *update.Height
	}

	placement = clampPlacement(field, placement)
	s.profile.set(field, placement)
	return placement
}

func clampPlacement(field Field, p FieldPlacement) FieldPlacement {
	p.XPos = clamp(p.XPos, MinXPos, MaxXPos)
	p.YPos = clamp(p.YPos, MinYPos, MaxYPos)
	switch field {
	case FieldPhoto:
		p.Width = clamp(p.Width, MinPhotoDim, MaxPhotoDim)
		p.Height = clamp(p.Height, MinPhotoDim, MaxPhotoDim)
	default:
		p.FontSize = clamp(p.FontSize, MinFontSize, MaxFontSize)
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
