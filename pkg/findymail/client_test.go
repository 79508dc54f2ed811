package findymail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/email-finder", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		var req FindRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "janedoe", req.InstagramHandle)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"email": " Jane@CreatorMail.com ",
			"confidence": 0.9,
			"linkedin_url": "https://linkedin.com/in/janedoe",
			"status": "found"
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	contact, err := client.FindEmail(context.Background(), FindRequest{InstagramHandle: "janedoe"})

	require.NoError(t, err)
	assert.Equal(t, "jane@creatormail.com", contact.Email)
	assert.Equal(t, 0.9, contact.Confidence)
	assert.Equal(t, "https://linkedin.com/in/janedoe", contact.LinkedInURL)
	assert.Equal(t, "found", contact.Status)
}

func TestFindEmail_DefaultsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email": ""}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	contact, err := client.FindEmail(context.Background(), FindRequest{TwitterHandle: "devdana"})

	require.NoError(t, err)
	assert.Empty(t, contact.Email)
	assert.Equal(t, "unknown", contact.Status)
}

func TestFindEmail_NotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "no match"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.FindEmail(context.Background(), FindRequest{Domain: "nowhere.example"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFindFromHandle_RoutesPlatforms(t *testing.T) {
	var got FindRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"email": "x@y.com", "status": "found"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.FindFromHandle(context.Background(), "janedoe", "instagram")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", got.InstagramHandle)

	_, err = client.FindFromHandle(context.Background(), "devdana", "x")
	require.NoError(t, err)
	assert.Equal(t, "devdana", got.TwitterHandle)
}

func TestFindFromHandle_UnsupportedPlatform(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	contact, err := client.FindFromHandle(context.Background(), "someuser", "youtube")

	require.NoError(t, err)
	assert.Equal(t, "unsupported_platform", contact.Status)
	assert.Empty(t, contact.Email)
	assert.Zero(t, calls.Load())
}
