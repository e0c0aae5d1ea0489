// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	logger logger.ILogger,
	jwtSecret string,
	tokenTTL time.Duration,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	user := &entity.User{
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         entity.UserRoleUser,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.New(events.TypeUserRegistered, map[string]interface{}{
		"user_id": user.Id.String(),
	})); err != nil {
		s.logger.Warn("AuthService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, entity.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}

	return s.issue(user)
}

func (s *authService) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := serverutils.GenerateToken(s.jwtSecret, user.Id, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}
