package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sentEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func resendServer(t *testing.T, status int, sent *[]sentEmail, auth *string) *url.URL {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		*auth = r.Header.Get("Authorization")

		var email sentEmail
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&email))
		*sent = append(*sent, email)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"id":"email-1"}`))
			return
		}
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"invalid from"}`))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	return base
}

func TestResendNotifier_SendsEmail(t *testing.T) {
	var sent []sentEmail
	var auth string
	base := resendServer(t, http.StatusOK, &sent, &auth)

	n := NewResendNotifier("re_test", "form@school.test", []string{"teacher@school.test"}, zap.NewNop())
	n.client.BaseURL = base

	require.NoError(t, n.Publish(context.Background(), MsgRatingSaved))

	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "form@school.test", sent[0].From)
	assert.Equal(t, []string{"teacher@school.test"}, sent[0].To)
	assert.Equal(t, "Student feedback: Rating saved.", sent[0].Subject)
	assert.Equal(t, MsgRatingSaved, sent[0].Text)
}

func TestResendNotifier_APIError(t *testing.T) {
	var sent []sentEmail
	var auth string
	base := resendServer(t, http.StatusUnprocessableEntity, &sent, &auth)

	n := NewResendNotifier("re_test", "bad", []string{"teacher@school.test"}, zap.NewNop())
	n.client.BaseURL = base

	err := n.Publish(context.Background(), MsgAllDeleted)
	assert.ErrorContains(t, err, "failed to send email")
	assert.Len(t, sent, 1)
}

func TestResendNotifier_WithoutKeyOnlyWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := NewResendNotifier("", "form@school.test", []string{"teacher@school.test"}, zap.New(core))

	require.NoError(t, n.Publish(context.Background(), MsgCSVSaved))
	assert.Equal(t, 1, logs.FilterMessage("RESEND_API_KEY not set, skipping email").Len())
}
