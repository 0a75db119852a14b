package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile 保存登录后平台返回的用户资料。
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage"`
	UserType     string `json:"userType"`
}

// Session 是显式的会话上下文对象：持有 Bearer Token 与用户资料，
// 由登录流程构造一次后显式注入到所有需要鉴权的组件，不做任何全局读取。
type Session struct {
	Token     string
	User      Profile
	ExpiresAt time.Time // 零值表示 Token 未携带过期时间
}

// New 构造会话。Token 由远端平台签发，本地只解析 exp 声明用于过期判断，
// 不做签名校验（密钥归平台所有）。
func New(token string, user Profile) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("session token is empty")
	}

	s := &Session{Token: token, User: user}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// 非 JWT 形态的 Token 也接受，只是无法本地判断过期。
		return s, nil
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}

	return s, nil
}

// Valid 判断会话是否仍然可用。
func (s *Session) Valid() bool {
	if s == nil || s.Token == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.ExpiresAt)
}

// Authorization 返回请求头使用的 Bearer 值。
func (s *Session) Authorization() string {
	return fmt.Sprintf("Bearer %s", s.Token)
}
