package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lently/domain/dto"
	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/configuration"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

const tokenTTL = 24 * time.Hour

// IUserUsecase handles account registration and login.
type IUserUsecase interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

type UserUsecase struct {
	userRepository repository.IUser
}

func NewUserUsecase(userRepository repository.IUser) IUserUsecase {
	return &UserUsecase{userRepository: userRepository}
}

func (u *UserUsecase) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	if existing, err := u.userRepository.GetByUserName(ctx, req.UserName); err == nil && existing != nil {
		return nil, fmt.Errorf("user name %s is taken", req.UserName)
	} else if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user name: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := utils.GetCurrentTime()
	user := &model.User{
		UserID:      uuid.NewString(),
		Email:       req.Email,
		UserName:    req.UserName,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		Plan:        model.PlanFree,
		Usage:       model.Usage{ResetDate: model.NextResetDate(now)},
		CreatedAt:   now,
	}
	if err := u.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.GetLogger().WithField("userName", user.UserName).Info("User registered")

	return u.issueToken(user)
}

func (u *UserUsecase) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return u.issueToken(user)
}

func (u *UserUsecase) issueToken(user *model.User) (*dto.TokenResponse, error) {
	now := utils.GetCurrentTime()
	token, err := utils.GenerateToken(map[string]interface{}{
		"userName": user.UserName,
		"iss":      user.UserID,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.TokenResponse{Token: token}, nil
}
