// Command healthcheck probes the local repocard server and exits 0 when it is
// healthy. Container images use it as HEALTHCHECK since they ship no shell.
package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr = "127.0.0.1:8080"
	timeout     = 2 * time.Second
)

func main() {
	if !healthy(context.Background(), healthURL(os.Getenv("REPOCARD_LISTEN_ADDR"))) {
		os.Exit(1)
	}
}

// healthy reports whether url answers 200 with {"status":"ok"}.
func healthy(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}

// healthURL builds the health endpoint URL for a listen address. Bind-all
// hosts are probed over loopback since the check runs inside the container.
func healthURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		host, port, _ = net.SplitHostPort(defaultAddr)
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return "http://" + net.JoinHostPort(host, port) + "/api/v1/health"
}
