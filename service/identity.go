package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"katha/config"
)

// identityUser 身份服务返回的用户对象
type identityUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// IdentityClient 身份服务客户端
type IdentityClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewIdentityClient 创建身份服务客户端
func NewIdentityClient(cfg config.IdentityConfig) *IdentityClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IdentityClient{
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// Enabled 是否配置了身份服务地址；未配置时直接使用令牌中的资料
func (c *IdentityClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// FetchProfile 查询 subject 对应的用户资料
func (c *IdentityClient) FetchProfile(ctx context.Context, subject string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", c.baseURL, url.PathEscape(subject))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建请求失败")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "请求身份服务失败")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "读取响应失败")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("身份服务返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var u identityUser
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, errors.Wrap(err, "解析响应失败")
	}
	if u.ID == "" {
		u.ID = subject
	}

	p := &Profile{
		ExternalID: u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Avatar:     u.ImageURL,
	}
	if len(u.EmailAddresses) > 0 {
		p.Email = u.EmailAddresses[0].EmailAddress
	}
	return p, nil
}
