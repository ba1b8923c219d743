package services

import (
	"fmt"
	"time"

	"nudge_backend/internal/auth"
	"nudge_backend/internal/config"
	"nudge_backend/internal/email"
	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	passwordResetTokenTTL   = time.Hour
	accountDeletionTokenTTL = 10 * time.Minute
)

type AuthService interface {
	Register(req *models.RegisterRequest) (*models.User, string, error)
	Login(req *models.LoginRequest) (*models.User, string, error)

	RequestPasswordReset(emailAddr string) error
	ResetPassword(token, newPassword string) error

	RequestAccountDeletion(userID string) error
	ConfirmAccountDeletion(userID, token string) error
}

type authService struct {
	userRepo repositories.UserRepository
	mailer   email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, mailer email.Provider) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (s *authService) Register(req *models.RegisterRequest) (*models.User, string, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, "", apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, "", apperrors.ErrEmailAlreadyInUse
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == nil || !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return user, token, nil
}

func (s *authService) RequestPasswordReset(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			// Do not leak whether the address is registered.
			return nil
		}
		return err
	}

	token := &models.PasswordResetToken{
		Email:     user.Email,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(passwordResetTokenTTL),
	}
	if err := s.userRepo.CreatePasswordResetToken(token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", config.GetConfig().App.BaseURL, token.Token)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		logger.WithError(err).Error("failed to send password reset email", "user_id", user.ID)
	}
	return nil
}

func (s *authService) ResetPassword(token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	stored, err := s.userRepo.FindPasswordResetToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return err
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeletePasswordResetToken(token)
		return apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(stored.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = &hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.userRepo.DeletePasswordResetToken(token); err != nil {
		logger.WithError(err).Warn("failed to delete used password reset token")
	}
	logger.Info("password reset completed", "user_id", user.ID)
	return nil
}

func (s *authService) RequestAccountDeletion(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	token := &models.DeleteAccountToken{
		Email:     user.Email,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(accountDeletionTokenTTL),
	}
	if err := s.userRepo.CreateDeleteAccountToken(token); err != nil {
		return err
	}

	confirmURL := fmt.Sprintf("%s/delete-account?token=%s", config.GetConfig().App.BaseURL, token.Token)
	if err := s.mailer.SendAccountDeletion(user.Email, confirmURL); err != nil {
		logger.WithError(err).Error("failed to send account deletion email", "user_id", user.ID)
	}
	return nil
}

func (s *authService) ConfirmAccountDeletion(userID, token string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	stored, err := s.userRepo.FindDeleteAccountToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return err
	}
	// A deletion token only works for the account it was issued to.
	if stored.Email != user.Email || time.Now().After(stored.ExpiresAt) {
		return apperrors.ErrInvalidToken
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteDeleteAccountToken(token); err != nil {
		logger.WithError(err).Warn("failed to delete used account deletion token")
	}

	logger.Info("account deleted", "user_id", user.ID)
	return nil
}
