package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"agentConsole/internal/session"
)

// User 是平台上的一个账号记录。
type User struct {
	ID       string   `json:"_id"`
	Email    string   `json:"email_id"`
	FullName string   `json:"full_name"`
	UserType string   `json:"user_type"`
	LOB      string   `json:"lob"`
	Products []string `json:"products"`
}

// NewUser 是创建账号的提交载荷。
type NewUser struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Password string   `json:"password"`
	UserType string   `json:"user_type"`
	LOB      string   `json:"lob"`
	Products []string `json:"products"`
}

// ListUsers 拉取全部账号。
func (c *Client) ListUsers(ctx context.Context, sess *session.Session) ([]User, error) {
	var resp struct {
		Data []User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/getUsers", sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateUser 创建账号。
func (c *Client) CreateUser(ctx context.Context, sess *session.Session, user NewUser) error {
	var envelope apiEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/createUser", sess, user, &envelope); err != nil {
		return err
	}
	return nil
}

// DeleteUser 删除账号。
func (c *Client) DeleteUser(ctx context.Context, sess *session.Session, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id is empty")
	}
	path := fmt.Sprintf("/api/user/%s", url.PathEscape(userID))
	return c.doJSON(ctx, http.MethodDelete, path, sess, nil, nil)
}
