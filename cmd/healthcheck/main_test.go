package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{addr: "", want: "http://127.0.0.1:8080/api/v1/health"},
		{addr: "garbage", want: "http://127.0.0.1:8080/api/v1/health"},
		{addr: "0.0.0.0:9000", want: "http://127.0.0.1:9000/api/v1/health"},
		{addr: ":9000", want: "http://127.0.0.1:9000/api/v1/health"},
		{addr: "[::]:9000", want: "http://127.0.0.1:9000/api/v1/health"},
		{addr: "10.0.0.5:8080", want: "http://10.0.0.5:8080/api/v1/health"},
	}

	for _, tc := range tests {
		t.Run(tc.addr, func(t *testing.T) {
			assert.Equal(t, tc.want, healthURL(tc.addr))
		})
	}
}

func TestHealthy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"status":"ok"}`, want: true},
		{name: "wrong status field", status: http.StatusOK, body: `{"status":"degraded"}`, want: false},
		{name: "not json", status: http.StatusOK, body: `ok`, want: false},
		{name: "server error", status: http.StatusInternalServerError, body: `{"status":"ok"}`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			assert.Equal(t, tc.want, healthy(context.Background(), server.URL))
		})
	}
}

func TestHealthy_Unreachable(t *testing.T) {
	assert.False(t, healthy(context.Background(), "http://127.0.0.1:1/api/v1/health"))
}
