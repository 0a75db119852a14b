package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"agentConsole/internal/session"
)

// Collateral 是物料库中的一项生成资产。
type Collateral struct {
	URL          string `json:"url"`
	ProductName  string `json:"product_name"`
	LOB          string `json:"lob"`
	TypeOfItem   string `json:"type_of_item"`
	CategoryName string `json:"category_name"`
}

// ListCollateral 拉取某用户的物料库。
func (c *Client) ListCollateral(ctx context.Context, sess *session.Session, userID string) ([]Collateral, error) {
	var resp struct {
		Data []Collateral `json:"data"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/getCollateral", sess, map[string]string{
		"user_id": userID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UploadCollateral 以 multipart 形式上传一份物料文件，返回其存储 URL。
func (c *Client) UploadCollateral(ctx context.Context, sess *session.Session, file io.Reader, filename, productName, lob string) (string, error) {
	const op = "POST /api/upload"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file into form: %w", err)
	}
	if err := writer.WriteField("product_name", productName); err != nil {
		return "", fmt.Errorf("write product_name field: %w", err)
	}
	if err := writer.WriteField("lob", lob); err != nil {
		return "", fmt.Errorf("write lob field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", body)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.decorate(req, sess)

	var resp struct {
		NewCollateral struct {
			URL string `json:"url"`
		} `json:"newCollateral"`
	}
	if err := c.send(req, op, &resp); err != nil {
		return "", err
	}
	if resp.NewCollateral.URL == "" {
		return "", errors.New("upload response missing collateral url")
	}
	return resp.NewCollateral.URL, nil
}
