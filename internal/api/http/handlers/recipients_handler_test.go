package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainscan1980/anonaddy/internal/domain"
)

type recipientPayload struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
}

type recipientEnvelope struct {
	Data recipientPayload `json:"data"`
}

type recipientListEnvelope struct {
	Data []recipientPayload `json:"data"`
}

func TestCreateRecipient(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "a@example.com")

	resp := ts.request(t, http.MethodPost, "/api/v1/recipients", token,
		map[string]string{"email": "Dest@Example.ORG"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env recipientEnvelope
	decodeBody(t, resp, &env)
	assert.Equal(t, "dest@example.org", env.Data.Email)
	assert.Nil(t, env.Data.EmailVerifiedAt)
}

func TestCreateRecipientValidationFailures(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "a@example.com")

	resp := ts.request(t, http.MethodPost, "/api/v1/recipients", token,
		map[string]string{"email": "dest@example.org"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"not an address", "not-an-email"},
		{"duplicate", "dest@example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.request(t, http.MethodPost, "/api/v1/recipients", token,
				map[string]string{"email": tt.email})
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			var env errorEnvelope
			decodeBody(t, resp, &env)
			assert.Contains(t, env.Error.Errors, "email")
		})
	}
}

func TestListRecipientsScopedToCaller(t *testing.T) {
	ts := newTestServer(t)
	userA, tokenA := ts.registerUser(t, "a@example.com")
	userB, _ := ts.registerUser(t, "b@example.com")

	ts.seedVerifiedRecipient(t, userA, "mine@example.org")
	ts.seedVerifiedRecipient(t, userB, "theirs@example.org")

	resp := ts.request(t, http.MethodGet, "/api/v1/recipients", tokenA, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env recipientListEnvelope
	decodeBody(t, resp, &env)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "mine@example.org", env.Data[0].Email)
}

func TestVerifyRecipientByLink(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerUser(t, "a@example.com")

	rec := &domain.Recipient{UserID: userID, Email: "dest@example.org"}
	require.NoError(t, ts.recipients.Create(context.Background(), rec))

	verifyToken, err := ts.verifier.IssueRecipientToken(context.Background(), rec.ID)
	require.NoError(t, err)

	// The verification link needs no bearer token.
	resp := ts.request(t, http.MethodGet, "/api/v1/recipients/verify/"+verifyToken, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env recipientEnvelope
	decodeBody(t, resp, &env)
	assert.Equal(t, rec.ID, env.Data.ID)
	assert.NotNil(t, env.Data.EmailVerifiedAt)

	resp = ts.request(t, http.MethodGet, "/api/v1/recipients/"+rec.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &env)
	assert.NotNil(t, env.Data.EmailVerifiedAt)

	// The link is single use.
	resp = ts.request(t, http.MethodGet, "/api/v1/recipients/verify/"+verifyToken, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResendVerification(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerUser(t, "a@example.com")

	rec := &domain.Recipient{UserID: userID, Email: "dest@example.org"}
	require.NoError(t, ts.recipients.Create(context.Background(), rec))

	resp := ts.request(t, http.MethodPost, "/api/v1/recipients/"+rec.ID+"/resend", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Already verified recipients cannot request another link.
	require.NoError(t, ts.recipients.MarkVerified(context.Background(), rec.ID, time.Now()))
	resp = ts.request(t, http.MethodPost, "/api/v1/recipients/"+rec.ID+"/resend", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteRecipient(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerUser(t, "a@example.com")
	_, tokenB := ts.registerUser(t, "b@example.com")
	rec := ts.seedVerifiedRecipient(t, userID, "dest@example.org")

	// Other users cannot delete it.
	resp := ts.request(t, http.MethodDelete, "/api/v1/recipients/"+rec.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.request(t, http.MethodDelete, "/api/v1/recipients/"+rec.ID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, "/api/v1/recipients/"+rec.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
