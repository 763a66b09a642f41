package whatsapp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	client "github.com/mamadbah2/rakelog/pkg/clients/whatsapp"
)

// ErrDisabled is returned when no WhatsApp credentials are configured.
var ErrDisabled = errors.New("whatsapp notifications are disabled")

const sendTimeout = 10 * time.Second

// Notifier pushes rake notifications to the operations group.
type Notifier interface {
	NotifyGroup(ctx context.Context, message string) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. client may be nil when
// notifications are disabled.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// NotifyGroup sends message to the configured group.
func (s *MetaWhatsAppService) NotifyGroup(ctx context.Context, message string) error {
	if s.cfg.GroupID == "" {
		return errors.New("whatsapp group id is not configured")
	}
	return s.SendOutbound(ctx, models.OutboundMessageRequest{To: s.cfg.GroupID, Message: message})
}

// SendOutbound lets supervisors push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if s.client == nil || !s.cfg.Enabled() {
		return ErrDisabled
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return err
	}

	if len(resp.Messages) > 0 {
		s.logger.Info("whatsapp message sent", zap.String("to", req.To), zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}
