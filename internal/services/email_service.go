package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type EmailService interface {
	SendWelcomeEmail(user *models.User, username, password, loginURL string) error
	SendTaskAssignedEmail(to string, task *models.Task) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService returns the SMTP-backed sender.
func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(user *models.User, username, password, loginURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", welcomeSubject(user.Role))
	m.SetBody("text/html", welcomeBodyHTML(user, username, password, loginURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendTaskAssignedEmail(to string, task *models.Task) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New task assigned: "+task.Title)
	m.SetBody("text/html", taskAssignedBodyHTML(task))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send task email: %w", err)
	}
	return nil
}

// mockEmailService captures messages in an injected outbox instead of
// dialing SMTP. Used in development and tests.
type mockEmailService struct {
	outbox repositories.OutboxRepository
}

func NewMockEmailService(outbox repositories.OutboxRepository) EmailService {
	return &mockEmailService{outbox: outbox}
}

func (s *mockEmailService) SendWelcomeEmail(user *models.User, username, password, loginURL string) error {
	subject := welcomeSubject(user.Role)
	body := welcomeBodyHTML(user, username, password, loginURL)
	s.outbox.Append(models.OutboxEmail, user.Email, subject, body)
	log.Printf("[email][mock] to=%s subject=%q", user.Email, subject)
	return nil
}

func (s *mockEmailService) SendTaskAssignedEmail(to string, task *models.Task) error {
	subject := "New task assigned: " + task.Title
	s.outbox.Append(models.OutboxEmail, to, subject, taskAssignedBodyHTML(task))
	log.Printf("[email][mock] to=%s subject=%q", to, subject)
	return nil
}

func welcomeSubject(role models.Role) string {
	return fmt.Sprintf("Your %s account is ready", role.DisplayName())
}

func welcomeBodyHTML(user *models.User, username, password, loginURL string) string {
	return fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your %s account has been created.</p>
		<p>Login credentials:</p>
		<ul>
			<li>Email: %s</li>
			<li>Username: %s</li>
			<li>Password: %s</li>
		</ul>
		<p>Login URL: <a href="%s">%s</a></p>
		<p>Please change your password after your first login and keep these credentials secure.</p>
	`, user.FullName(), user.Role.DisplayName(), user.Email, username, password, loginURL, loginURL)
}

func taskAssignedBodyHTML(task *models.Task) string {
	due := "—"
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf(`
		<h3>You have been assigned a task</h3>
		<p><b>%s</b></p>
		<p>Priority: %s<br>Due: %s</p>
	`, task.Title, task.Priority, due)
}
