package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/utils"
)

// ProvisionUserInput is what an admin supplies when creating an account.
// Username and password are generated, not chosen.
type ProvisionUserInput struct {
	Email     string      `json:"email" binding:"required,email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role" binding:"required"`
}

// ProvisionedCredentials are returned once at creation time; only the hash
// is stored.
type ProvisionedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	LoginURL string `json:"login_url"`
}

type UserService interface {
	ProvisionUser(ctx context.Context, in ProvisionUserInput) (*models.User, *ProvisionedCredentials, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter, limit, offset int) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeactivateUser(ctx context.Context, id string) error
	GetUserCount(ctx context.Context) (int, error)
	GetUserCountByRole(ctx context.Context, role models.Role) (int, error)

	UpdateRefresh(ctx context.Context, id, token string, expiresAt time.Time) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	RevokeRefresh(ctx context.Context, id string) error
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	smsService   *SMSService
	authService  AuthService
	loginURL     string
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, smsService *SMSService, authService AuthService, loginURL string) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		smsService:   smsService,
		authService:  authService,
		loginURL:     loginURL,
	}
}

func (s *userService) ProvisionUser(ctx context.Context, in ProvisionUserInput) (*models.User, *ProvisionedCredentials, error) {
	if !in.Role.Valid() {
		return nil, nil, fmt.Errorf("unknown role %q", in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, nil, fmt.Errorf("user with email %s already exists", email)
	}

	username, err := utils.GenerateUsername(in.FirstName, in.LastName)
	if err != nil {
		return nil, nil, err
	}
	password, err := utils.GeneratePassword(12)
	if err != nil {
		return nil, nil, err
	}
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	creds := &ProvisionedCredentials{Username: username, Password: password, LoginURL: s.loginURL}

	// credential delivery failures must not roll back the account
	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user, username, password, s.loginURL); err != nil {
			log.Printf("[user][provision] warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	if s.smsService != nil && user.Phone != "" {
		if err := s.smsService.SendWelcomeSMS(user.Phone, username); err != nil {
			log.Printf("[user][provision] warning: failed to send welcome sms to %s: %v", user.Phone, err)
		}
	}

	return user, creds, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) ListUsers(ctx context.Context, filter models.UserFilter, limit, offset int) ([]models.User, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// UpdateUser never changes the role; it is fixed at provisioning.
func (s *userService) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return s.repo.Update(ctx, user)
}

func (s *userService) DeactivateUser(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *userService) GetUserCount(ctx context.Context) (int, error) {
	return s.repo.GetCount(ctx)
}

func (s *userService) GetUserCountByRole(ctx context.Context, role models.Role) (int, error) {
	return s.repo.GetCountByRole(ctx, role)
}

func (s *userService) UpdateRefresh(ctx context.Context, id, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(ctx, id, token, expiresAt)
}

func (s *userService) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(ctx, token)
}

func (s *userService) RevokeRefresh(ctx context.Context, id string) error {
	return s.repo.RevokeRefresh(ctx, id)
}
