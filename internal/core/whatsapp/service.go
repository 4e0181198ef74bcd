// internal/core/whatsapp/service.go
package whatsapp

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Service adalah wrapper untuk WhatsApp provider
// Ini adalah layer yang digunakan oleh aplikasi
type Service struct {
	provider Provider
}

// NewService membuat service dengan provider spesifik
func NewService(provider Provider) *Service {
	log.Info().Str("provider", provider.GetProviderName()).Msg("whatsapp gateway ready")
	return &Service{provider: provider}
}

// SendText mengirim text message
func (s *Service) SendText(ctx context.Context, phone, text string) (SendResult, error) {
	start := time.Now()
	res, err := s.provider.SendText(ctx, phone, text)
	if err != nil {
		log.Error().Err(err).Str("provider", s.provider.GetProviderName()).Str("phone", phone).Msg("gateway send failed")
		return SendResult{}, err
	}

	log.Debug().
		Str("provider", s.provider.GetProviderName()).
		Str("phone", phone).
		Str("message_id", res.MessageID).
		Dur("duration", time.Since(start)).
		Msg("gateway send ok")
	return res, nil
}

// IsConnected cek status koneksi
func (s *Service) IsConnected(ctx context.Context) (bool, error) {
	return s.provider.IsConnected(ctx)
}

// GetProviderName return nama provider yang digunakan
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
