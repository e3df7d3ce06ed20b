package service

import (
	"context"
	"time"

	"ai-supportchat-be/internal/apperror"
	"ai-supportchat-be/internal/config"
	"ai-supportchat-be/internal/dto"
	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/repository/memory"
	"ai-supportchat-be/internal/repository/specification"
	"ai-supportchat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// VerifyToken resolves a raw bearer token to the account it identifies.
	// It must run before any other request-scoped logic; a classified
	// apperror short-circuits the request.
	VerifyToken(ctx context.Context, rawToken string) (*entity.Account, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	accountCache *memory.AccountCache
	secret       []byte
	tokenTTL     time.Duration
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, accountCache *memory.AccountCache, cfg *config.Config) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		accountCache: accountCache,
		secret:       []byte(cfg.Auth.JwtSecret),
		tokenTTL:     cfg.Auth.AccessTokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "account lookup failed", err)
	}
	// Same response for unknown email and wrong password.
	if account == nil || account.PasswordHash == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "invalid credentials")
	}
	if account.Status != entity.AccountStatusActive {
		return nil, apperror.New(apperror.KindUnauthenticated, "account is disabled")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"account_id": account.Id.String(),
		"exp":        expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to sign token", err)
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Account: dto.AccountResponse{
			Id:       account.Id,
			Email:    account.Email,
			FullName: account.FullName,
		},
	}, nil
}

func (s *authService) VerifyToken(ctx context.Context, rawToken string) (*entity.Account, error) {
	if rawToken == "" {
		return nil, apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		// Which check failed (signature vs expiry) stays in the wrapped
		// cause for the log; the caller only sees "invalid token".
		return nil, apperror.Wrap(apperror.KindUnauthenticated, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.KindUnauthenticated, "invalid or expired token")
	}
	subject, _ := claims["account_id"].(string)
	accountId, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, "invalid or expired token", err)
	}

	if account, found := s.accountCache.Get(accountId); found {
		return account, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.AccountRepository().FindOne(ctx, specification.ById{Id: accountId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "account lookup failed", err)
	}
	// Tokens are not invalidated when an account is removed, so a valid
	// token can still point at nothing.
	if account == nil {
		return nil, apperror.New(apperror.KindAccountNotFound, "account not found")
	}

	s.accountCache.Set(account)
	return account, nil
}
