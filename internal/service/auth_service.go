package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *serverutils.TokenIssuer
	logger     logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, tokens *serverutils.TokenIssuer, logger logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         entity.UserRoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"userId": user.Id.String()})

	res := mapper.ToUserResponse(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(req.Email))})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Id, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		User:        mapper.ToUserResponse(user),
	}, nil
}
