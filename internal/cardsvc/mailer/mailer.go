package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"

	"github.com/teklemt/cardscan-service/internal/cardsvc/config"
	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

// ErrNotConfigured is returned by NewService when the provider key or
// verified sender address is missing. Distinct from a per-message
// delivery failure, which is reported in the SendResult.
var ErrNotConfigured = errors.New("sendgrid is not configured")

// sender is the one SendGrid call the service depends on. Satisfied by
// *sendgrid.Client; tests substitute a fake.
type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailLogStore records dispatched messages for the status probe.
type EmailLogStore interface {
	Create(ctx context.Context, l models.EmailLog) (int64, error)
}

type Service struct {
	client             sender
	fromEmail          string
	fromName           string
	replyTo            string
	unsubscribeGroupID int
	emailLog           EmailLogStore
}

func NewService(cfg config.Config, emailLog EmailLogStore) (*Service, error) {
	if cfg.SendgridAPIKey == "" || cfg.FromEmail == "" {
		return nil, ErrNotConfigured
	}

	log.Infof("sendgrid email service initialized with sender: %s", cfg.FromEmail)

	return &Service{
		client:             sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail:          cfg.FromEmail,
		fromName:           cfg.FromName,
		replyTo:            cfg.ReplyToEmail,
		unsubscribeGroupID: cfg.UnsubscribeGroupID,
		emailLog:           emailLog,
	}, nil
}

type SendResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	To         string `json:"to"`
	MessageID  string `json:"message_id,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// SendWelcome composes and dispatches the welcome template to a single
// recipient. When cardID is non-zero and the provider returned a message
// id, an email_log row is written; a logging failure is not fatal.
func (s *Service) SendWelcome(ctx context.Context, toEmail, name, company string, cardID int64) SendResult {
	subject := fmt.Sprintf("Thank you for connecting, %s", name)
	html, plain := welcomeBody(name, company, s.fromName)

	m := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(name, toEmail),
		plain,
		html,
	)

	if s.replyTo != "" && s.replyTo != s.fromEmail {
		m.SetReplyTo(mail.NewEmail("", s.replyTo))
	}
	if s.unsubscribeGroupID != 0 {
		asm := mail.NewASM()
		asm.SetGroupID(s.unsubscribeGroupID)
		m.SetASM(asm)
	}

	resp, err := s.client.Send(m)
	if err != nil {
		log.Errorf("failed to send welcome email to %s: %v", toEmail, err)
		return SendResult{Success: false, Message: err.Error(), To: toEmail}
	}
	if resp.StatusCode >= 300 {
		log.Errorf("sendgrid rejected welcome email to %s: status %d body %s", toEmail, resp.StatusCode, resp.Body)
		return SendResult{
			Success:    false,
			Message:    fmt.Sprintf("sendgrid status %d", resp.StatusCode),
			To:         toEmail,
			StatusCode: resp.StatusCode,
		}
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	log.Infof("welcome email sent to %s: status %d", toEmail, resp.StatusCode)

	if cardID != 0 && s.emailLog != nil && messageID != "" {
		_, err := s.emailLog.Create(ctx, models.EmailLog{
			CardID:       cardID,
			EmailAddress: toEmail,
			MessageID:    messageID,
			EmailType:    "welcome",
		})
		if err != nil {
			log.Warnf("could not record email log for card %d: %v", cardID, err)
		}
	}

	return SendResult{
		Success:    true,
		Message:    "email sent successfully",
		To:         toEmail,
		MessageID:  messageID,
		StatusCode: resp.StatusCode,
	}
}

type BatchDetail struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

type BatchResult struct {
	Total   int           `json:"total"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Details []BatchDetail `json:"details"`
}

// SendBatch dispatches the welcome template to each contact in turn, one
// at a time. A per-recipient failure is recorded and never aborts the
// batch.
func (s *Service) SendBatch(ctx context.Context, contacts []models.Contact) BatchResult {
	result := BatchResult{
		Total:   len(contacts),
		Details: []BatchDetail{},
	}

	for _, c := range contacts {
		name := c.Name
		if name == "" {
			name = "there"
		}

		email := strings.TrimSpace(c.Email)
		if email == "" {
			result.Failed++
			result.Details = append(result.Details, BatchDetail{
				Name:   name,
				Status: "failed",
				Reason: "no email address",
			})
			continue
		}

		res := s.SendWelcome(ctx, email, name, c.Company, 0)
		if res.Success {
			result.Sent++
			result.Details = append(result.Details, BatchDetail{
				Name:      name,
				Email:     email,
				Status:    "sent",
				MessageID: res.MessageID,
			})
		} else {
			result.Failed++
			result.Details = append(result.Details, BatchDetail{
				Name:   name,
				Email:  email,
				Status: "failed",
				Reason: res.Message,
			})
		}
	}

	log.Infof("batch email complete: %d/%d sent", result.Sent, result.Total)
	return result
}
