package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"agentConsole/internal/session"
)

type loginResponseData struct {
	Token        string `json:"token"`
	ID           string `json:"_id"`
	EmailID      string `json:"email_id"`
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
	ProfileImage string `json:"profile_image"`
	UserType     string `json:"user_type"`
}

// Login 以邮箱口令换取会话。凭证无效统一归为 ErrUnauthorized。
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var envelope apiEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/api/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, ErrUnauthorized
	}

	var data loginResponseData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decode login data: %w", err)
	}
	if data.Token == "" {
		return nil, errors.New("login response missing token")
	}

	sess, err := session.New(data.Token, session.Profile{
		ID:           data.ID,
		Email:        data.EmailID,
		FullName:     data.FullName,
		MobileNumber: data.MobileNumber,
		Address:      data.Address,
		ProfileImage: data.ProfileImage,
		UserType:     data.UserType,
	})
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	return sess, nil
}
