// internal/core/whatsapp/provider.go
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrGateway wraps every non-success answer from a gateway.
var ErrGateway = errors.New("whatsapp gateway error")

// SendResult is what the gateway tells us about an accepted message.
type SendResult struct {
	MessageID string
}

// Provider adalah interface untuk semua WhatsApp HTTP gateways
type Provider interface {
	// SendText mengirim text message ke nomor tujuan
	SendText(ctx context.Context, phone, text string) (SendResult, error)

	// IsConnected asks the gateway whether the instance is paired
	IsConnected(ctx context.Context) (bool, error)

	// GetProviderName return nama provider untuk logging
	GetProviderName() string
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderZAPI     ProviderType = "zapi"
	ProviderGreenAPI ProviderType = "greenapi"
)

// ProviderConfig konfigurasi untuk provider
type ProviderConfig struct {
	Type    ProviderType
	Timeout time.Duration

	// Z-API specific
	ZAPIBaseURL     string
	ZAPIInstanceID  string
	ZAPIToken       string
	ZAPIClientToken string

	// Green API specific
	GreenAPIInstanceID string
	GreenAPIToken      string
	GreenAPIURL        string
}

// NewProvider factory untuk create provider berdasarkan config
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Type {
	case ProviderZAPI, "":
		if cfg.ZAPIInstanceID == "" || cfg.ZAPIToken == "" {
			return nil, fmt.Errorf("ZAPI_INSTANCE_ID and ZAPI_TOKEN are required")
		}
		base := cfg.ZAPIBaseURL
		if base == "" {
			base = "https://api.z-api.io"
		}
		return NewZAPIProvider(base, cfg.ZAPIInstanceID, cfg.ZAPIToken, cfg.ZAPIClientToken, client), nil

	case ProviderGreenAPI:
		if cfg.GreenAPIInstanceID == "" || cfg.GreenAPIToken == "" {
			return nil, fmt.Errorf("GREEN_API_INSTANCE_ID and GREEN_API_TOKEN are required")
		}
		base := cfg.GreenAPIURL
		if base == "" {
			base = "https://api.green-api.com"
		}
		return NewGreenAPIProvider(base, cfg.GreenAPIInstanceID, cfg.GreenAPIToken, client), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// NormalizePhone strips everything that is not a digit, e.g. "+55 (11) 9999-0000".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
