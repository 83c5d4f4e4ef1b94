// Package sms sends text messages through a bearer-token HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	url    string
	token  string
	sender string
	http   *http.Client
}

type sendRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

func NewClient(url, token, sender string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		token:  token,
		sender: sender,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("sms: empty recipient")
	}

	payload, err := json.Marshal(sendRequest{From: c.sender, To: to, Text: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("sms gateway error: %d - %s", resp.StatusCode, string(b))
	}
	return nil
}
