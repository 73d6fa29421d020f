// internal/workers/ingestion/fetch-emails/gmail.go
package fetchemails

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// GmailClient is a minimal Gmail REST API client covering the two calls
// the worker needs: list message ids by label and fetch a message.
type GmailClient struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

func NewGmailClient(cfg *Config, httpClient *http.Client) *GmailClient {
	return &GmailClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userID:     cfg.UserID,
		httpClient: httpClient,
	}
}

// NewOAuthHTTPClient builds an http.Client that refreshes the mailbox
// access token from the configured refresh token.
func NewOAuthHTTPClient(ctx context.Context, cfg *Config) *http.Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: cfg.TokenURL,
		},
	}
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return oauth2.NewClient(ctx, source)
}

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messagePayload struct {
	MimeType string `json:"mimeType"`
	Headers  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"headers"`
	Body struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePayload `json:"parts"`
}

type message struct {
	ID      string         `json:"id"`
	Payload messagePayload `json:"payload"`
}

// ListMessages returns the ids of messages carrying the given label.
func (c *GmailClient) ListMessages(ctx context.Context, label string, maxResults int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/gmail/v1/users/%s/messages?q=%s&maxResults=%d",
		c.baseURL, c.userID, url.QueryEscape("label:"+label), maxResults)

	var list messageList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// GetMessage fetches one message and flattens it into an EmailRecord.
func (c *GmailClient) GetMessage(ctx context.Context, id string) (*EmailRecord, error) {
	endpoint := fmt.Sprintf("%s/gmail/v1/users/%s/messages/%s?format=full",
		c.baseURL, c.userID, id)

	var msg message
	if err := c.getJSON(ctx, endpoint, &msg); err != nil {
		return nil, err
	}

	record := &EmailRecord{MessageID: msg.ID}
	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			record.Subject = h.Value
		case "from":
			record.Sender = h.Value
		}
	}
	record.Body = decodeBody(msg.Payload)

	return record, nil
}

func (c *GmailClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return nil
}

// decodeBody prefers the top-level body and falls back to the first
// text/plain part of a multipart message.
func decodeBody(payload messagePayload) string {
	if payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body.Data != "" {
			return decodeBase64URL(part.Body.Data)
		}
	}
	for _, part := range payload.Parts {
		if body := decodeBody(part); body != "" {
			return body
		}
	}
	return ""
}

func decodeBase64URL(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}
