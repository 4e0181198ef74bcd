// internal/core/whatsapp/zapi.go
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

type ZAPIProvider struct {
	baseURL     string
	instanceID  string
	token       string
	clientToken string
	client      *http.Client
}

func NewZAPIProvider(baseURL, instanceID, token, clientToken string, client *http.Client) *ZAPIProvider {
	return &ZAPIProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		instanceID:  instanceID,
		token:       token,
		clientToken: clientToken,
		client:      client,
	}
}

func (z *ZAPIProvider) GetProviderName() string {
	return "Z-API"
}

func (z *ZAPIProvider) endpoint(action string) string {
	return fmt.Sprintf("%s/instances/%s/token/%s/%s", z.baseURL, z.instanceID, z.token, action)
}

func (z *ZAPIProvider) SendText(ctx context.Context, phone, text string) (SendResult, error) {
	payload := map[string]string{
		"phone":   NormalizePhone(phone),
		"message": text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.endpoint("send-text"), bytes.NewReader(jsonData))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if z.clientToken != "" {
		req.Header.Set("Client-Token", z.clientToken)
	}

	resp, err := z.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("%w: Z-API returned status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}

	var result struct {
		ZaapID    string `json:"zaapId"`
		MessageID string `json:"messageId"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to decode Z-API response: %v", ErrGateway, err)
	}

	id := result.MessageID
	if id == "" {
		id = result.ID
	}
	return SendResult{MessageID: id}, nil
}

func (z *ZAPIProvider) IsConnected(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.endpoint("status"), nil)
	if err != nil {
		return false, err
	}
	if z.clientToken != "" {
		req.Header.Set("Client-Token", z.clientToken)
	}

	resp, err := z.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var result struct {
		Connected bool `json:"connected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Connected, nil
}
