// internal/workers/ingestion/fetch-emails/handler_test.go
package fetchemails

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"travel-inquiry-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeduper struct {
	seen  map[string]bool
	err   error
	calls int
}

func newFakeDeduper(seen ...string) *fakeDeduper {
	d := &fakeDeduper{seen: make(map[string]bool)}
	for _, id := range seen {
		d.seen[id] = true
	}
	return d
}

func (d *fakeDeduper) MarkSeen(_ context.Context, messageID string) (bool, error) {
	d.calls++
	if d.err != nil {
		return false, d.err
	}
	if d.seen[messageID] {
		return false, nil
	}
	d.seen[messageID] = true
	return true, nil
}

type stubMessage struct {
	id      string
	subject string
	body    string
	sender  string
}

// newGmailServer serves the two Gmail endpoints the client uses.
func newGmailServer(t *testing.T, messages []stubMessage) *httptest.Server {
	t.Helper()

	byID := make(map[string]stubMessage)
	for _, m := range messages {
		byID[m.id] = m
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		var list messageList
		for _, m := range messages {
			list.Messages = append(list.Messages, struct {
				ID string `json:"id"`
			}{ID: m.id})
		}
		require.NoError(t, json.NewEncoder(w).Encode(list))
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/gmail/v1/users/me/messages/"):]
		m, ok := byID[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		payload := map[string]interface{}{
			"id": m.id,
			"payload": map[string]interface{}{
				"mimeType": "text/plain",
				"headers": []map[string]string{
					{"name": "Subject", "value": m.subject},
					{"name": "From", "value": m.sender},
				},
				"body": map[string]string{
					"data": base64.RawURLEncoding.EncodeToString([]byte(m.body)),
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})

	return httptest.NewServer(mux)
}

func createTestHandler(t *testing.T, serverURL string, dedupe Deduper) *Handler {
	config := LoadConfig()
	config.BaseURL = serverURL
	gmail := NewGmailClient(config, http.DefaultClient)
	return NewHandler(config, gmail, dedupe, logger.NewTestLogger(t))
}

func TestHandler_Execute_FetchesAndDecodes(t *testing.T) {
	server := newGmailServer(t, []stubMessage{
		{
			id:      "msg-1",
			subject: "Travel Inquiry - Bali",
			body:    "Trip to Bali for 2 adults, 4 nights.",
			sender:  "Mark Henry <mark.henry@example.com>",
		},
		{
			id:      "msg-2",
			subject: "Re: Trip - changes",
			body:    "Client has made some changes.",
			sender:  "maria.ortiz@example.com",
		},
	})
	defer server.Close()

	handler := createTestHandler(t, server.URL, newFakeDeduper())

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Fetched)
	assert.Equal(t, 0, output.Duplicates)
	require.Len(t, output.Emails, 2)

	first := output.Emails[0]
	assert.Equal(t, "msg-1", first.MessageID)
	assert.Equal(t, "Travel Inquiry - Bali", first.Subject)
	assert.Equal(t, "Trip to Bali for 2 adults, 4 nights.", first.Body)
	assert.Equal(t, "Mark Henry <mark.henry@example.com>", first.Sender)
}

func TestHandler_Execute_SkipsDuplicates(t *testing.T) {
	server := newGmailServer(t, []stubMessage{
		{id: "msg-1", subject: "Bali", body: "Trip to Bali.", sender: "a@example.com"},
		{id: "msg-2", subject: "Goa", body: "Trip to Goa.", sender: "b@example.com"},
	})
	defer server.Close()

	handler := createTestHandler(t, server.URL, newFakeDeduper("msg-1"))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Fetched)
	assert.Equal(t, 1, output.Duplicates)
	require.Len(t, output.Emails, 1)
	assert.Equal(t, "msg-2", output.Emails[0].MessageID)
}

func TestHandler_Execute_DropsRecordWithoutSender(t *testing.T) {
	server := newGmailServer(t, []stubMessage{
		{id: "msg-1", subject: "No sender", body: "orphan", sender: ""},
		{id: "msg-2", subject: "Valid", body: "Trip to Goa.", sender: "b@example.com"},
	})
	defer server.Close()

	dedupe := newFakeDeduper()
	handler := createTestHandler(t, server.URL, dedupe)

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 1, output.Invalid)
	require.Len(t, output.Emails, 1)
	assert.Equal(t, "msg-2", output.Emails[0].MessageID)
	// Invalid records never reach the dedupe store.
	assert.Equal(t, 1, dedupe.calls)
}

func TestHandler_Execute_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	handler := createTestHandler(t, server.URL, newFakeDeduper())

	output, err := handler.Execute(context.Background(), &Input{})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestHandler_Execute_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	handler := createTestHandler(t, server.URL, newFakeDeduper())

	output, err := handler.Execute(context.Background(), &Input{})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHandler_Execute_DedupeFailOpen(t *testing.T) {
	server := newGmailServer(t, []stubMessage{
		{id: "msg-1", subject: "Bali", body: "Trip to Bali.", sender: "a@example.com"},
	})
	defer server.Close()

	dedupe := newFakeDeduper()
	dedupe.err = errors.New("redis down")

	config := LoadConfig()
	config.BaseURL = server.URL
	config.DedupeFailOpen = true
	gmail := NewGmailClient(config, http.DefaultClient)
	handler := NewHandler(config, gmail, dedupe, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	require.Len(t, output.Emails, 1)
}

func TestHandler_Execute_DedupeFailClosed(t *testing.T) {
	server := newGmailServer(t, []stubMessage{
		{id: "msg-1", subject: "Bali", body: "Trip to Bali.", sender: "a@example.com"},
	})
	defer server.Close()

	dedupe := newFakeDeduper()
	dedupe.err = errors.New("redis down")

	config := LoadConfig()
	config.BaseURL = server.URL
	config.DedupeFailOpen = false
	gmail := NewGmailClient(config, http.DefaultClient)
	handler := NewHandler(config, gmail, dedupe, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrDedupeFailed)
}

func TestHandler_Execute_InputOverridesLabelAndLimit(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"messages":[]}`)
	}))
	defer server.Close()

	handler := createTestHandler(t, server.URL, newFakeDeduper())

	_, err := handler.Execute(context.Background(), &Input{Label: "custom-label", MaxResults: 5})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "label%3Acustom-label")
	assert.Contains(t, gotQuery, "maxResults=5")
}
