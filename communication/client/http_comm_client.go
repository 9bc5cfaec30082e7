package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chessengine/communication"
	"chessengine/game"
)

type Client struct {
	serverURL string
	http      *http.Client
}

// NewClient talks to a game server at serverURL, e.g. "http://localhost:8000".
func NewClient(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		http:      httpClient,
	}
}

// SendMove posts m. A move the server rejects as illegal returns an error
// wrapping game.ErrIllegalMove.
func (cc *Client) SendMove(ctx context.Context, m game.Move) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode move: %w", err)
	}
	return cc.post(ctx, "/move", data)
}

func (cc *Client) SendSignal(ctx context.Context, signal communication.Signal) error {
	return cc.post(ctx, "/"+string(signal), nil)
}

// State fetches the latest snapshot.
func (cc *Client) State(ctx context.Context) (communication.Snapshot, error) {
	var snapshot communication.Snapshot
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/state", nil)
	if err != nil {
		return snapshot, err
	}
	resp, err := cc.http.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("failed to get state: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return snapshot, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode state: %w", err)
	}
	return snapshot, nil
}

func (cc *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := cc.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	reason := strings.TrimSpace(string(msg))
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %s", game.ErrIllegalMove, reason)
	}
	return fmt.Errorf("%s: %s", resp.Status, reason)
}

var _ communication.Sender = (*Client)(nil)
