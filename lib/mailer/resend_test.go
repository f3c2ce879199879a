package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailerSend(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "Donely <no-reply@donely.app>")
	m.Endpoint = srv.URL

	err := m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Reset", HTML: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"ana@example.com"}, got.To)
	assert.Equal(t, "Reset", got.Subject)
}

func TestResendMailerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "from@example.com")
	m.Endpoint = srv.URL

	err := m.Send(context.Background(), Message{To: "ana@example.com"})
	assert.ErrorContains(t, err, "status 422")
}
