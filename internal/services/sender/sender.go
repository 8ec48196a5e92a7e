// Package services реализует отправку служебных писем пользователям.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/lib/smtp"
	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	fromName  string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, fromName string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		fromName:  fromName,
		log:       log,
	}
}

// SendWelcome отправляет приветственное письмо новому пользователю.
func (s *SenderService) SendWelcome(user *models.User) error {
	name := user.FullName
	if name == "" {
		name = user.Username
	}

	subject := "Welcome to StockFlow"
	bodyText := fmt.Sprintf("Hello, %s!\n\n"+
		"Your StockFlow account has been created. You can now sign in with your username %q "+
		"and start managing your inventory.\n\n"+
		"— %s", name, user.Username, s.fromName)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSender(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSender()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSender()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
