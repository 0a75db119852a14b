package platform

import (
	"context"
	"net/http"
	"strings"

	"agentConsole/internal/session"
)

// Product 是单个可售产品。
type Product struct {
	ProductName string `json:"product_name"`
}

// ProductGroup 按业务线（LOB）分组的产品清单。
type ProductGroup struct {
	LOB      string    `json:"lob"`
	Products []Product `json:"products"`
}

// ListProducts 拉取产品目录。
func (c *Client) ListProducts(ctx context.Context, sess *session.Session) ([]ProductGroup, error) {
	var resp struct {
		Data []ProductGroup `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// MenuOption 是左侧导航菜单的一项。
type MenuOption struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// LeftMenu 按用户类型拉取导航菜单数据。
func (c *Client) LeftMenu(ctx context.Context, sess *session.Session, userType string) ([]MenuOption, error) {
	var resp struct {
		MenuOptions []MenuOption `json:"menuOptions"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/leftMenuData", sess, map[string]string{
		"userType":  strings.ToLower(userType),
		"userToken": sess.Token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.MenuOptions, nil
}
