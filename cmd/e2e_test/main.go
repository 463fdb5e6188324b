package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"socialfolio/internal/auth"
)

var baseURL = "http://localhost:8080"

type client struct {
	token string
}

func main() {
	_ = godotenv.Load()
	if v := os.Getenv("E2E_BASE_URL"); v != "" {
		baseURL = strings.TrimRight(v, "/")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required to mint test tokens")
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	run := time.Now().UnixNano()
	alice := newClient(secret, fmt.Sprintf("e2e-alice-%d", run))
	bob := newClient(secret, fmt.Sprintf("e2e-bob-%d", run))

	// 1. Health Check
	alice.call("GET", "/health", nil, 200)

	// 2. Create a public portfolio
	var p map[string]any
	alice.decode(alice.call("POST", "/portfolios", map[string]any{"name": "E2E Growth", "is_public": true}, 201), &p)
	pid := p["id"].(string)
	fmt.Printf("Created portfolio %s\n", pid)

	// 3. Buy, then replay the same idempotency key
	buy := map[string]any{
		"ticker":          "AAPL",
		"side":            "buy",
		"quantity":        "10",
		"price":           "150.25",
		"idempotency_key": fmt.Sprintf("e2e-key-%d", run),
	}
	alice.call("POST", "/portfolios/"+pid+"/transactions", buy, 201)
	alice.call("POST", "/portfolios/"+pid+"/transactions", buy, 200)

	// 4. Selling more than held is rejected
	alice.call("POST", "/portfolios/"+pid+"/transactions", map[string]any{
		"ticker": "AAPL", "side": "sell", "quantity": "11", "price": "150",
	}, 409)

	// 5. Strangers cannot trade
	bob.call("POST", "/portfolios/"+pid+"/transactions", buy, 403)

	// 6. Valuation view
	var v map[string]any
	alice.decode(alice.call("GET", "/portfolios/"+pid, nil, 200), &v)
	fmt.Printf("Valuation: total_value=%v source=%v loading=%v\n", v["total_value"], v["value_source"], v["is_loading_prices"])

	// 7. Transactions and CSV import
	alice.call("GET", "/portfolios/"+pid+"/transactions", nil, 200)
	csv := "date,side,ticker,quantity,price\n2024-01-02,buy,MSFT,2,370.10\n"
	alice.raw("POST", "/portfolios/"+pid+"/import", "text/csv", []byte(csv), 200)
	alice.raw("POST", "/portfolios/"+pid+"/import", "text/csv", []byte(csv), 200)

	// 8. Social
	bob.call("POST", "/portfolios/"+pid+"/follow", nil, 200)
	alice.call("POST", "/posts", map[string]any{"body": "Started a growth book", "portfolio_id": pid}, 201)
	var feed []map[string]any
	bob.decode(bob.call("GET", "/feed?limit=10", nil, 200), &feed)
	if len(feed) == 0 {
		log.Fatal("Expected the followed portfolio's post in bob's feed")
	}
	bob.call("DELETE", "/portfolios/"+pid+"/follow", nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func newClient(secret, userID string) *client {
	token, err := auth.IssueToken(secret, userID, time.Hour)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	return &client{token: token}
}

func (c *client) call(method, path string, body interface{}, expectedStatus int) []byte {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	return c.raw(method, path, "application/json", payload, expectedStatus)
}

func (c *client) raw(method, path, contentType string, payload []byte, expectedStatus int) []byte {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody
}

func (c *client) decode(body []byte, out interface{}) {
	if err := json.Unmarshal(body, out); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}
}
