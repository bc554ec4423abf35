/**
 * @description
 * WeCom (enterprise WeChat) transport. Fetches an access token, then sends
 * the reminder as a plain-text application message. WeCom text messages have
 * no Markdown support, so emphasis markers are stripped first.
 */
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const wecomAPIBase = "https://qyapi.weixin.qq.com"

// WeCom delivers reminders through a WeCom application.
type WeCom struct {
	// BaseURL is overridable for tests.
	BaseURL    string
	corpID     string
	corpSecret string
	agentID    int
	toUser     string
	client     *http.Client
}

// NewWeCom creates a WeCom notifier. An empty toUser broadcasts to @all.
func NewWeCom(corpID, corpSecret string, agentID int, toUser string) *WeCom {
	if toUser == "" {
		toUser = "@all"
	}
	return &WeCom{
		BaseURL:    wecomAPIBase,
		corpID:     corpID,
		corpSecret: corpSecret,
		agentID:    agentID,
		toUser:     toUser,
		client:     newHTTPClient(),
	}
}

// Send fetches an access token and posts the message.
func (w *WeCom) Send(ctx context.Context, message string) error {
	if w.corpID == "" || w.corpSecret == "" || w.agentID == 0 {
		return errors.New("wecom not configured: corp id, corp secret or agent id missing")
	}

	token, err := w.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("wecom access token: %w", err)
	}

	payload := map[string]any{
		"touser":  w.toUser,
		"msgtype": "text",
		"agentid": w.agentID,
		"text": map[string]string{
			"content": stripMarkdown(message),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	sendURL := fmt.Sprintf("%s/cgi-bin/message/send?access_token=%s", w.BaseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("wecom request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("wecom response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("wecom API error %d: %s", result.ErrCode, result.ErrMsg)
	}
	return nil
}

func (w *WeCom) accessToken(ctx context.Context) (string, error) {
	tokenURL := fmt.Sprintf("%s/cgi-bin/gettoken?corpid=%s&corpsecret=%s",
		w.BaseURL, url.QueryEscape(w.corpID), url.QueryEscape(w.corpSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var result struct {
		ErrCode     int    `json:"errcode"`
		ErrMsg      string `json:"errmsg"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ErrCode != 0 {
		return "", fmt.Errorf("error %d: %s", result.ErrCode, result.ErrMsg)
	}
	return result.AccessToken, nil
}
