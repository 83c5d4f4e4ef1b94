package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured   = errors.New("kommo not configured")
	errContactNotFound = errors.New("contact not found")
)

type Client struct {
	apiToken string
	baseURL  string
	statusID int
	http     *http.Client
	log      *zap.Logger
}

func NewClient(baseURL, apiToken string, statusID int, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  baseURL,
		statusID: statusID,
		http:     &http.Client{Timeout: timeout},
		log:      log.Named("kommo"),
	}
}

// CreateLead finds or creates the contact by phone, then opens a CRM lead
// linked to it. Returns the Kommo lead id.
func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.apiToken == "" || c.baseURL == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	tags := []map[string]any{{"name": "leadflow"}}
	if input.Source != "" {
		tags = append(tags, map[string]any{"name": input.Source})
	}
	for _, t := range input.Tags {
		tags = append(tags, map[string]any{"name": t})
	}

	lead := map[string]any{
		"name": fmt.Sprintf("%s - %s", input.CustomerName, input.Source),
		"_embedded": map[string]any{
			"tags":     tags,
			"contacts": []map[string]any{{"id": contactID}},
		},
	}
	if c.statusID > 0 {
		lead["status_id"] = c.statusID
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", []map[string]any{lead}, &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo returned no lead")
	}

	id := result.Embedded.Leads[0].ID
	c.log.Info("lead created", zap.Int("kommo_id", id), zap.String("lead_id", input.LeadID))
	return id, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	id, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errContactNotFound) {
		c.log.Warn("contact lookup failed, creating new", zap.Error(err))
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedIDs
	path := "/contacts?query=" + url.QueryEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errContactNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	fields := []map[string]any{
		{
			"field_code": "PHONE",
			"values":     []map[string]any{{"value": input.Phone, "enum_code": "WORK"}},
		},
	}
	if input.Email != "" {
		fields = append(fields, map[string]any{
			"field_code": "EMAIL",
			"values":     []map[string]any{{"value": input.Email, "enum_code": "WORK"}},
		})
	}
	contact := []map[string]any{{
		"name":                 input.CustomerName,
		"custom_fields_values": fields,
	}}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contact, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo returned no contact")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	// Kommo answers an empty search with 204.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
