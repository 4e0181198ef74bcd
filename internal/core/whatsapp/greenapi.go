// internal/core/whatsapp/greenapi.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type GreenAPIProvider struct {
	instanceID string
	token      string
	baseURL    string
	client     *http.Client
}

func NewGreenAPIProvider(baseURL, instanceID, token string, client *http.Client) *GreenAPIProvider {
	return &GreenAPIProvider{
		instanceID: instanceID,
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
	}
}

func (g *GreenAPIProvider) GetProviderName() string {
	return "GreenAPI"
}

func (g *GreenAPIProvider) endpoint(method string) string {
	return fmt.Sprintf("%s/waInstance%s/%s/%s", g.baseURL, g.instanceID, method, g.token)
}

func (g *GreenAPIProvider) SendText(ctx context.Context, phone, text string) (SendResult, error) {
	// Format nomor: 628123456789@c.us
	payload := map[string]string{
		"chatId":  NormalizePhone(phone) + "@c.us",
		"message": text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint("sendMessage"), bytes.NewReader(jsonData))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode != http.StatusOK {
		return SendResult{}, fmt.Errorf("%w: Green API returned status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}

	var result struct {
		IDMessage string `json:"idMessage"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to decode Green API response: %v", ErrGateway, err)
	}
	return SendResult{MessageID: result.IDMessage}, nil
}

func (g *GreenAPIProvider) IsConnected(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("getStateInstance"), nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var result struct {
		StateInstance string `json:"stateInstance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}

	return result.StateInstance == "authorized", nil
}
