package ledger

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const (
	AppName    = "ProofCampus"
	AppVersion = "1.0.0"

	tokenEthereum = "ethereum"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
)

func (n Network) NodeURL() string {
	if n == NetworkMainnet {
		return "https://uploader.irys.xyz"
	}
	return "https://devnet.irys.xyz"
}

func (n Network) GatewayURL() string {
	if n == NetworkMainnet {
		return "https://gateway.irys.xyz"
	}
	return "https://devnet.irys.xyz"
}

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type UploadResult struct {
	TransactionID string `json:"transactionId"`
	URL           string `json:"url"`
}

type Config struct {
	PrivateKey string // hex-encoded secp256k1 key, 0x prefix optional
	Network    Network
	RPCURL     string // required for devnet
	Timeout    time.Duration

	// Overrides for tests; default to the network's public endpoints.
	NodeURL    string
	GatewayURL string
}

// Client talks to an Irys bundler node. Uploads are append-only: a
// returned transaction id is permanent and never replaces prior content.
type Client struct {
	network    Network
	nodeURL    string
	gatewayURL string
	key        *secp256k1.PrivateKey
	address    string
	http       *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("ledger: private key is required")
	}
	if cfg.Network == "" {
		cfg.Network = NetworkDevnet
	}
	if cfg.Network == NetworkDevnet && cfg.RPCURL == "" {
		return nil, errors.New("ledger: RPC endpoint is required for devnet")
	}

	keyBytes, err := hex.DecodeString(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("ledger: invalid private key hex: %v", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("ledger: private key must be 32 bytes, got %d", len(keyBytes))
	}
	key := secp256k1.PrivKeyFromBytes(keyBytes)

	nodeURL := cfg.NodeURL
	if nodeURL == "" {
		nodeURL = cfg.Network.NodeURL()
	}
	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = cfg.Network.GatewayURL()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		network:    cfg.Network,
		nodeURL:    strings.TrimRight(nodeURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		key:        key,
		address:    ethereumAddress(key),
		http:       &http.Client{Timeout: timeout},
	}, nil
}

// ethereumAddress derives the 0x wallet address from the public key
// (Keccak-256 of the uncompressed point, last 20 bytes).
func ethereumAddress(key *secp256k1.PrivateKey) string {
	pub := key.PubKey().SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[12:])
}

func (c *Client) Address() string { return c.address }

// URL derives the permanent gateway retrieval URL for a transaction id.
func (c *Client) URL(transactionID string) string {
	return c.gatewayURL + "/" + transactionID
}

func (c *Client) sign(payload []byte) string {
	digest := sha256.Sum256(payload)
	sig := secpecdsa.Sign(c.key, digest[:])
	return hex.EncodeToString(sig.Serialize())
}

type uploadRequest struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
	Tags        []Tag  `json:"tags"`
	Address     string `json:"address"`
	Signature   string `json:"signature"`
}

type txReceipt struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Upload submits a binary artifact with descriptive tags and returns the
// permanent content id plus its gateway URL. The envelope tags
// (Content-Type, App-Name, App-Version) are always prepended.
func (c *Client) Upload(ctx context.Context, data []byte, contentType string, tags []Tag) (*UploadResult, error) {
	uploadTags := append([]Tag{
		{Name: "Content-Type", Value: contentType},
		{Name: "App-Name", Value: AppName},
		{Name: "App-Version", Value: AppVersion},
	}, tags...)

	payload := uploadRequest{
		Data:        base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
		Tags:        uploadTags,
		Address:     c.address,
		Signature:   c.sign(data),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &UploadError{Err: fmt.Errorf("failed to marshal upload payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.nodeURL+"/tx/"+tokenEthereum, bytes.NewBuffer(body))
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UploadError{StatusUnknown: requestTimedOut(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{StatusUnknown: true, Err: err}
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, ErrInsufficientFunds
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &UploadError{Err: fmt.Errorf("node returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var receipt txReceipt
	if err := json.Unmarshal(respBody, &receipt); err != nil {
		return nil, &UploadError{Err: fmt.Errorf("failed to unmarshal upload receipt: %v", err)}
	}
	if receipt.ID == "" {
		return nil, &UploadError{Err: errors.New("node returned an empty transaction id")}
	}

	return &UploadResult{TransactionID: receipt.ID, URL: c.URL(receipt.ID)}, nil
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

// Balance returns the wallet's current balance on the node, in wei.
func (c *Client) Balance(ctx context.Context) (*big.Int, error) {
	endpoint := fmt.Sprintf("%s/account/balance/%s?address=%s", c.nodeURL, tokenEthereum, url.QueryEscape(c.address))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("balance check returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed balanceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance response: %v", err)
	}

	balance, ok := new(big.Int).SetString(parsed.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("node returned a non-integer balance: %q", parsed.Balance)
	}
	return balance, nil
}

type fundRequest struct {
	Amount    string `json:"amount"`
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

// Fund submits a funding transaction for the given amount in wei and
// returns its transaction id. Funding settles on-chain and is slow;
// never call this inline with a user-facing request.
func (c *Client) Fund(ctx context.Context, amount *big.Int) (string, error) {
	if amount == nil || amount.Sign() <= 0 {
		return "", &FundingError{Err: errors.New("funding amount must be positive")}
	}

	payload := fundRequest{
		Amount:    amount.String(),
		Address:   c.address,
		Signature: c.sign([]byte(amount.String())),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &FundingError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.nodeURL+"/account/fund/"+tokenEthereum, bytes.NewBuffer(body))
	if err != nil {
		return "", &FundingError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FundingError{StatusUnknown: requestTimedOut(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FundingError{StatusUnknown: true, Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &FundingError{Err: fmt.Errorf("node returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var receipt txReceipt
	if err := json.Unmarshal(respBody, &receipt); err != nil {
		return "", &FundingError{Err: fmt.Errorf("failed to unmarshal funding receipt: %v", err)}
	}
	return receipt.ID, nil
}

// EnsureFunded is the balance guard: if the wallet balance is below
// minBalance it submits one funding transaction for topUp and re-reads
// the balance. When the balance already meets the threshold it performs
// no funding transaction and returns the balance unchanged.
func (c *Client) EnsureFunded(ctx context.Context, minBalance, topUp *big.Int) (*big.Int, error) {
	balance, err := c.Balance(ctx)
	if err != nil {
		return nil, &FundingError{Err: err}
	}
	if balance.Cmp(minBalance) >= 0 {
		return balance, nil
	}

	if _, err := c.Fund(ctx, topUp); err != nil {
		return nil, err
	}

	newBalance, err := c.Balance(ctx)
	if err != nil {
		return nil, &FundingError{Err: fmt.Errorf("funding submitted but balance re-read failed: %v", err)}
	}
	return newBalance, nil
}

func requestTimedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
