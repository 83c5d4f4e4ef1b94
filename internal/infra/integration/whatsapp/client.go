package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// ErrNotConfigured is returned before any network call when credentials are missing.
var ErrNotConfigured = errors.New("whatsapp not configured")

type Client struct {
	accessToken string
	phoneID     string
	language    string
	baseURL     string
	http        *http.Client
	log         *zap.Logger
}

func NewClient(accessToken, phoneID, baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		language:    "he",
		baseURL:     baseURL,
		http:        &http.Client{Timeout: timeout},
		log:         log.Named("whatsapp"),
	}
}

func (c *Client) Configured() bool {
	return c.accessToken != "" && c.phoneID != ""
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]any{
			"name":     input.TemplateName,
			"language": map[string]string{"code": c.language},
			"components": []map[string]any{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if result.Error != nil {
			return fmt.Errorf("whatsapp api error %d: %s (code %d)", resp.StatusCode, result.Error.Message, result.Error.Code)
		}
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s", result.Error.Message)
	}

	c.log.Debug("message sent", zap.String("to", input.PhoneNumber), zap.String("template", input.TemplateName))
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
