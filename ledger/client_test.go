package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testPrivateKey = "0x0101010101010101010101010101010101010101010101010101010101010101"

func newTestClient(t *testing.T, nodeURL string, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient(Config{
		PrivateKey: testPrivateKey,
		Network:    NetworkDevnet,
		RPCURL:     "http://localhost:8545",
		NodeURL:    nodeURL,
		Timeout:    timeout,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Network: NetworkDevnet, RPCURL: "http://localhost:8545"}); err == nil {
		t.Error("expected error for missing private key")
	}
	if _, err := NewClient(Config{PrivateKey: testPrivateKey, Network: NetworkDevnet}); err == nil {
		t.Error("expected error for devnet without RPC endpoint")
	}
	if _, err := NewClient(Config{PrivateKey: "not-hex", Network: NetworkMainnet}); err == nil {
		t.Error("expected error for malformed key")
	}
	client, err := NewClient(Config{PrivateKey: testPrivateKey, Network: NetworkMainnet})
	if err != nil {
		t.Fatalf("mainnet client should not require an RPC endpoint: %v", err)
	}
	if len(client.Address()) != 42 || client.Address()[:2] != "0x" {
		t.Errorf("unexpected wallet address format: %s", client.Address())
	}
}

func TestGatewayURLByNetwork(t *testing.T) {
	if got := NetworkMainnet.GatewayURL(); got != "https://gateway.irys.xyz" {
		t.Errorf("mainnet gateway = %s", got)
	}
	if got := NetworkDevnet.GatewayURL(); got != "https://devnet.irys.xyz" {
		t.Errorf("devnet gateway = %s", got)
	}
}

func TestUploadTagEnvelope(t *testing.T) {
	var received uploadRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tx/ethereum" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode upload body: %v", err)
		}
		json.NewEncoder(w).Encode(txReceipt{ID: "tx-abc123"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	result, err := client.Upload(context.Background(), []byte("artifact"), "image/png", []Tag{
		{Name: "Student", Value: "Bob"},
		{Name: "Course", Value: "Intro"},
		{Name: "CompletionDate", Value: "2024-05-01"},
		{Name: "UploadedAt", Value: "2024-05-02T00:00:00Z"},
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if result.TransactionID != "tx-abc123" {
		t.Errorf("transaction id = %s", result.TransactionID)
	}
	if result.URL != "https://devnet.irys.xyz/tx-abc123" {
		t.Errorf("url = %s", result.URL)
	}

	got := map[string]string{}
	for _, tag := range received.Tags {
		got[tag.Name] = tag.Value
	}
	want := map[string]string{
		"Content-Type":   "image/png",
		"App-Name":       AppName,
		"App-Version":    AppVersion,
		"Student":        "Bob",
		"Course":         "Intro",
		"CompletionDate": "2024-05-01",
	}
	for name, value := range want {
		if got[name] != value {
			t.Errorf("tag %s = %q, want %q", name, got[name], value)
		}
	}
	if got["UploadedAt"] == "" {
		t.Error("UploadedAt tag missing")
	}
	if received.Signature == "" || received.Address == "" {
		t.Error("upload request must carry wallet address and signature")
	}
}

func TestUploadInsufficientFunds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Upload(context.Background(), []byte("artifact"), "image/png", nil)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestUploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Upload(context.Background(), []byte("artifact"), "application/pdf", nil)

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected *UploadError, got %v", err)
	}
	if uploadErr.StatusUnknown {
		t.Error("a definite 500 response must not be marked status-unknown")
	}
}

func TestUploadTimeoutStatusUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 50*time.Millisecond)
	_, err := client.Upload(context.Background(), []byte("artifact"), "image/png", nil)

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected *UploadError, got %v", err)
	}
	if !uploadErr.StatusUnknown {
		t.Error("a timed-out upload must be marked status-unknown")
	}
}

func TestEnsureFundedIdempotentAboveThreshold(t *testing.T) {
	fundCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/account/balance/ethereum", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(balanceResponse{Balance: "2000000000000000"})
	})
	mux.HandleFunc("/account/fund/ethereum", func(w http.ResponseWriter, r *http.Request) {
		fundCalls++
		json.NewEncoder(w).Encode(txReceipt{ID: "fund-1"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	minBalance := big.NewInt(1000000000000000)
	topUp := big.NewInt(5000000000000000)

	balance, err := client.EnsureFunded(context.Background(), minBalance, topUp)
	if err != nil {
		t.Fatalf("EnsureFunded failed: %v", err)
	}
	if fundCalls != 0 {
		t.Errorf("expected no funding transaction, got %d", fundCalls)
	}
	if balance.String() != "2000000000000000" {
		t.Errorf("balance = %s, want unchanged 2000000000000000", balance)
	}
}

func TestEnsureFundedTopsUpWhenBelowThreshold(t *testing.T) {
	fundCalls := 0
	balances := []string{"100", "5000000000000100"}
	mux := http.NewServeMux()
	mux.HandleFunc("/account/balance/ethereum", func(w http.ResponseWriter, r *http.Request) {
		balance := balances[0]
		if len(balances) > 1 {
			balances = balances[1:]
		}
		json.NewEncoder(w).Encode(balanceResponse{Balance: balance})
	})
	mux.HandleFunc("/account/fund/ethereum", func(w http.ResponseWriter, r *http.Request) {
		fundCalls++
		var req fundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode fund body: %v", err)
		}
		if req.Amount != "5000000000000000" {
			t.Errorf("fund amount = %s", req.Amount)
		}
		json.NewEncoder(w).Encode(txReceipt{ID: "fund-1"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	balance, err := client.EnsureFunded(context.Background(), big.NewInt(1000000000000000), big.NewInt(5000000000000000))
	if err != nil {
		t.Fatalf("EnsureFunded failed: %v", err)
	}
	if fundCalls != 1 {
		t.Errorf("expected exactly one funding transaction, got %d", fundCalls)
	}
	if balance.String() != "5000000000000100" {
		t.Errorf("post-funding balance = %s", balance)
	}
}

func TestFundRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t, "http://localhost:0", 0)
	var fundingErr *FundingError
	if _, err := client.Fund(context.Background(), big.NewInt(0)); !errors.As(err, &fundingErr) {
		t.Errorf("expected *FundingError for zero amount, got %v", err)
	}
}
