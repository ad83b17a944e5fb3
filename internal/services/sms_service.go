package services

import (
	"fmt"
	"log"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/utils"
)

// SMSService sends short notifications over SMS. In dry-run mode the client
// skips HTTP; the message is still recorded in the outbox when one is wired.
type SMSService struct {
	client *utils.SMSClient
	outbox repositories.OutboxRepository
}

func NewSMSService(client *utils.SMSClient, outbox repositories.OutboxRepository) *SMSService {
	return &SMSService{client: client, outbox: outbox}
}

func (s *SMSService) SendWelcomeSMS(phone, username string) error {
	if phone == "" {
		return nil
	}
	text := fmt.Sprintf("Your CRM account is ready. Username: %s. Check your email for the password.", username)

	if _, err := s.client.SendSMS(phone, text); err != nil {
		return fmt.Errorf("send welcome sms: %w", err)
	}
	if s.outbox != nil {
		s.outbox.Append(models.OutboxSMS, phone, "", text)
	}
	log.Printf("[sms][welcome][ok] to=%s", phone)
	return nil
}
