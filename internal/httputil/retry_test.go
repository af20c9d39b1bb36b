// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

func init() {
	// Use tiny delays so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
	MaxRetryAfter = 5 * time.Millisecond
}

func statusSequence(t *testing.T, codes ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		code := codes[len(codes)-1]
		if n <= len(codes) {
			code = codes[n-1]
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		codes      []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", []int{200}, 5, 200, 1},
		{"429 then success", []int{429, 429, 200}, 5, 200, 3},
		{"503 then success", []int{503, 200}, 5, 200, 2},
		{"exhausts retries", []int{429}, 3, 429, 4},
		{"default max retries", []int{503}, 0, 503, 6},
		{"500 passes through", []int{500}, 5, 500, 1},
		{"404 passes through", []int{404}, 5, 404, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := statusSequence(t, tt.codes...)
			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	saved := RetryBaseDelay
	RetryBaseDelay = time.Second
	defer func() { RetryBaseDelay = saved }()

	ts, _ := statusSequence(t, 429)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, time.Duration(0), retryAfter("soon"))
	assert.Equal(t, time.Duration(0), retryAfter("-3"))
	assert.Equal(t, MaxRetryAfter, retryAfter("3600"))
}

func TestClientGetJSON(t *testing.T) {
	var gotUA, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("ids")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{UserAgent: "biblioteksdata-test/1.0 (test@example.org)"})
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.GetJSON(context.Background(), ts.URL, url.Values{"ids": {"Q42"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "biblioteksdata-test/1.0 (test@example.org)", gotUA)
	assert.Equal(t, "Q42", gotQuery)
}

func TestClientStatusError(t *testing.T) {
	ts, _ := statusSequence(t, 404)
	c := NewClient(types.HTTPConfig{})
	_, err := c.Get(context.Background(), ts.URL, nil, "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	ts500, _ := statusSequence(t, 500)
	_, err = c.Get(context.Background(), ts500.URL, nil, "")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.StatusCode)
	assert.False(t, IsNotFound(err))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(types.HTTPConfig{})
	assert.Equal(t, defaultUserAgent, c.UserAgent)
	assert.Equal(t, defaultTimeout, c.HTTP.Timeout)
}
