package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Smoke test against a running server: go run ./cmd/test_integration [base-url]
func main() {
	baseURL := "http://localhost:8080"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Waiting for server...")
	if !waitHealthy(client, baseURL, 30*time.Second) {
		fmt.Println("FAILED: server never became healthy")
		os.Exit(1)
	}

	steps := []struct {
		name   string
		method string
		path   string
		body   any
		check  func(map[string]any) error
	}{
		{"Graph", http.MethodGet, "/graph", nil, nonEmpty("nodes")},
		{"Roadmap", http.MethodGet, "/roadmap?target=" + url.QueryEscape("AI 모델러"), nil, nonEmpty("roadmap")},
		{"Successors", http.MethodGet, "/successors?subject=" + url.QueryEscape("자료구조"), nil, present("successors")},
		{"Rebuild", http.MethodPost, "/rebuild", nil, present("build_id")},
	}

	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		resp, err := sendRequest(client, step.method, baseURL+step.path, step.body)
		if err == nil {
			err = step.check(resp)
		}
		if err != nil {
			fmt.Printf("FAILED: %s: %v\n", step.name, err)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func waitHealthy(client *http.Client, baseURL string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func nonEmpty(key string) func(map[string]any) error {
	return func(m map[string]any) error {
		list, ok := m[key].([]any)
		if !ok || len(list) == 0 {
			return fmt.Errorf("expected non-empty %q", key)
		}
		return nil
	}
}

func present(key string) func(map[string]any) error {
	return func(m map[string]any) error {
		if _, ok := m[key]; !ok {
			return fmt.Errorf("missing %q", key)
		}
		return nil
	}
}

func sendRequest(client *http.Client, method, target string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return out, nil
}
