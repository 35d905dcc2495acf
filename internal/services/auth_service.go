package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"innerai_backend/internal/auth"
	"innerai_backend/internal/database"
	"innerai_backend/internal/email"
	"innerai_backend/internal/logger"
	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services/dto"
	"innerai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AuthService - выдача, проверка и отзыв bearer-токенов, регистрация по коду
type AuthService interface {
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Authenticate сначала удаляет истекшие токены, затем ищет действующий
	Authenticate(db *gorm.DB, rawToken string) (*dto.AuthIdentity, error)
	Logout(db *gorm.DB, tokenHash string) error

	RequestCode(db *gorm.DB, req *dto.RequestCodeRequest) error
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	ChangePassword(db *gorm.DB, identity *dto.AuthIdentity, req *dto.ChangePasswordRequest) error

	// SweepExpired удаляет истекшие токены и коды (фоновая задача)
	SweepExpired(db *gorm.DB) (tokens int64, codes int64, err error)
}

type AuthConfig struct {
	TokenSecret         string
	TokenTTL            time.Duration
	VerificationCodeTTL time.Duration
	KDFIterations       int
}

type AuthOption func(*AuthServiceImpl)

// WithClock подменяет источник времени (тесты)
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthServiceImpl) {
		s.now = now
	}
}

type AuthServiceImpl struct {
	cfg       AuthConfig
	hasher    *auth.TokenHasher
	userRepo  repositories.UserRepository
	tokenRepo repositories.AuthTokenRepository
	codeRepo  repositories.VerificationCodeRepository
	mailer    email.Provider
	now       func() time.Time
}

func NewAuthService(
	cfg AuthConfig,
	userRepo repositories.UserRepository,
	tokenRepo repositories.AuthTokenRepository,
	codeRepo repositories.VerificationCodeRepository,
	mailer email.Provider,
	opts ...AuthOption,
) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.VerificationCodeTTL <= 0 {
		cfg.VerificationCodeTTL = 10 * time.Minute
	}
	if cfg.KDFIterations <= 0 {
		cfg.KDFIterations = auth.DefaultKDFIterations
	}

	s := &AuthServiceImpl{
		cfg:       cfg,
		hasher:    auth.NewTokenHasher(cfg.TokenSecret),
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		codeRepo:  codeRepo,
		mailer:    mailer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock - текущее время в UTC с точностью до секунды, как хранится в БД
func (s *AuthServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

// =======================
// Токены
// =======================

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	mail := normalizeMail(req.Email)

	user, err := s.userRepo.FindByMail(db, mail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storeError(db, "login", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordSalt, user.PasswordHash, s.cfg.KDFIterations) {
		logger.CtxWarn(db.Statement.Context, "Login failed: password mismatch", "mail", mail)
		return nil, apperrors.ErrInvalidCredentials
	}

	rawToken, err := auth.NewToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.clock()
	token := &models.AuthToken{
		Mail:      user.Mail,
		TokenHash: s.hasher.Hash(rawToken),
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}

	err = runInTx(db, "login", func(tx *gorm.DB) error {
		// новый вход вытесняет прежние токены пользователя
		if err := s.tokenRepo.DeleteByMail(tx, user.Mail); err != nil {
			return storeError(tx, "login", err)
		}
		if _, err := s.tokenRepo.DeleteExpired(tx, now); err != nil {
			return storeError(tx, "login", err)
		}
		if err := s.tokenRepo.Create(tx, token); err != nil {
			return storeError(tx, "login", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(db.Statement.Context, "User logged in", "mail", user.Mail)
	return &dto.LoginResponse{
		Token:     rawToken,
		ExpiresAt: token.ExpiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) Authenticate(db *gorm.DB, rawToken string) (*dto.AuthIdentity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	now := s.clock()
	if _, err := s.tokenRepo.DeleteExpired(db, now); err != nil {
		return nil, storeError(db, "authenticate", err)
	}

	tokenHash := s.hasher.Hash(rawToken)
	user, expiresAt, err := s.tokenRepo.FindUserByHash(db, tokenHash, now)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, storeError(db, "authenticate", err)
	}

	return &dto.AuthIdentity{
		User:      user,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, tokenHash string) error {
	if err := s.tokenRepo.DeleteByHash(db, tokenHash); err != nil {
		// токен мог истечь и быть удаленным между проверкой и выходом
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil
		}
		return storeError(db, "logout", err)
	}
	return nil
}

func (s *AuthServiceImpl) SweepExpired(db *gorm.DB) (int64, int64, error) {
	now := s.clock()
	tokens, err := s.tokenRepo.DeleteExpired(db, now)
	if err != nil {
		return 0, 0, err
	}
	codes, err := s.codeRepo.DeleteExpired(db, now)
	if err != nil {
		return tokens, 0, err
	}
	return tokens, codes, nil
}

// =======================
// Регистрация
// =======================

func (s *AuthServiceImpl) RequestCode(db *gorm.DB, req *dto.RequestCodeRequest) error {
	mail := normalizeMail(req.Mail)

	_, err := s.userRepo.FindByMail(db, mail)
	if err == nil {
		return apperrors.ErrMailAlreadyExists
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return storeError(db, "request code", err)
	}

	code, err := auth.NewVerificationCode()
	if err != nil {
		return apperrors.InternalError(err)
	}

	record := &models.VerificationCode{
		Mail:      mail,
		CodeHash:  auth.HashVerificationCode(mail, code),
		ExpiresAt: s.clock().Add(s.cfg.VerificationCodeTTL),
	}
	if err := s.codeRepo.Replace(db, record); err != nil {
		return storeError(db, "request code", err)
	}

	if err := s.mailer.SendVerificationCode(mail, code, s.cfg.VerificationCodeTTL); err != nil {
		logger.CtxWithError(db.Statement.Context, "Failed to send verification code", err, "mail", mail)
		return apperrors.Wrap(err, apperrors.CodeExternalServiceError, "email", "Failed to send verification code", http.StatusInternalServerError)
	}

	logger.CtxInfo(db.Statement.Context, "Verification code issued", "mail", mail)
	return nil
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	mail := normalizeMail(req.Mail)
	if len(req.Password) < auth.MinPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(mail, "@", 2)[0]
	}

	user := &models.User{
		Mail:         mail,
		PasswordHash: auth.HashPassword(req.Password, salt, s.cfg.KDFIterations),
		PasswordSalt: salt,
		Username:     username,
		Role:         models.UserRoleMember,
	}

	now := s.clock()
	err = runInTx(db, "register", func(tx *gorm.DB) error {
		_, err := s.codeRepo.FindValid(tx, mail, auth.HashVerificationCode(mail, strings.TrimSpace(req.Code)), now)
		if err != nil {
			if errors.Is(err, repositories.ErrVerificationCodeNotFound) {
				return apperrors.ErrInvalidVerificationCode
			}
			return storeError(tx, "register", err)
		}

		if err := s.userRepo.Create(tx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return apperrors.ErrMailAlreadyExists
			}
			return storeError(tx, "register", err)
		}

		if err := s.codeRepo.DeleteByMail(tx, mail); err != nil {
			return storeError(tx, "register", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(db.Statement.Context, "User registered", "mail", mail)
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ChangePassword меняет соль и хэш и отзывает все остальные токены пользователя
func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, identity *dto.AuthIdentity, req *dto.ChangePasswordRequest) error {
	user := identity.User
	if !auth.CheckPassword(req.CurrentPassword, user.PasswordSalt, user.PasswordHash, s.cfg.KDFIterations) {
		return apperrors.ErrInvalidCredentials
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return apperrors.InternalError(err)
	}
	hash := auth.HashPassword(req.NewPassword, salt, s.cfg.KDFIterations)

	return runInTx(db, "change password", func(tx *gorm.DB) error {
		if err := s.userRepo.UpdatePassword(tx, user.Mail, hash, salt); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrUserNotFound
			}
			return storeError(tx, "change password", err)
		}
		if err := s.tokenRepo.DeleteByMailExcept(tx, user.Mail, identity.TokenHash); err != nil {
			return storeError(tx, "change password", err)
		}
		return nil
	})
}
