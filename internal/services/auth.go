package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/aggregates"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/auth"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]{3,150}$`)

var ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid username or password"))

// TokenRevoker keeps logged-out access tokens unusable until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RegisterInput struct {
	Username        string `json:"username"`
	Phone           string `json:"phone"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AccessClaims struct {
	Role    string `json:"role"`
	IsAdmin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*user.User, error)
	Login(ctx context.Context, username, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	// Logout drops the refresh token and revokes the access token carried in ctx.
	Logout(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	revoker       TokenRevoker
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	revoker TokenRevoker,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		revoker:       revoker,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	const op = "Auth.Register"
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	phone := normalizePhone(in.Phone)

	switch {
	case !usernamePattern.MatchString(in.Username):
		return nil, validation(op, "username must be 3-150 letters, digits or _.@+-")
	case in.FirstName == "" || in.LastName == "":
		return nil, validation(op, "first and last name are required")
	case len(in.Password) < minPasswordLength:
		return nil, validation(op, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case in.Password != in.PasswordConfirm:
		return nil, validation(op, "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal(op, fmt.Errorf("hash password: %w", err))
	}

	u := &user.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hash),
		Role:      user.RoleStudent,
	}
	if phone != "" {
		u.Phone = &phone
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userRepo.GetByUsername(dbc, u.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domainagg.NewError(domainagg.CodeConflict, op, "username already taken", nil)
		}
		if u.Phone != nil {
			existing, err = as.userRepo.GetByPhone(dbc, *u.Phone)
			if err != nil {
				return err
			}
			if existing != nil {
				return domainagg.NewError(domainagg.CodeConflict, op, "phone already registered", nil)
			}
		}
		return as.userRepo.Create(dbc, u)
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	as.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := as.userRepo.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return TokenPair{}, internal("Auth.Login", err)
	}
	if u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.userTokenRepo.FullDeleteExpired(dbc, as.now()); err != nil {
			as.log.Warn("Failed to prune expired user tokens", "error", err)
		}
		p, err := as.issue(dbc, u)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return TokenPair{}, internal("Auth.Login", err)
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, ErrUnauthorized
	}
	var pair TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userTokenRepo.GetByRefreshHash(dbc, hashToken(refreshToken))
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrUnauthorized
		}
		// Refresh tokens are single use.
		if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return err
		}
		if existing.ExpiresAt.Before(as.now()) {
			return ErrUnauthorized
		}
		u, err := as.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUnauthorized
		}
		p, err := as.issue(dbc, u)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, internal("Auth.Refresh", err)
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	dbc := dbctx.Context{Ctx: ctx}
	if refreshToken = strings.TrimSpace(refreshToken); refreshToken != "" {
		tok, err := as.userTokenRepo.GetByRefreshHash(dbc, hashToken(refreshToken))
		if err != nil {
			return internal("Auth.Logout", err)
		}
		if tok != nil {
			if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{tok.ID}); err != nil {
				return internal("Auth.Logout", err)
			}
		}
	}

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" || as.revoker == nil {
		return nil
	}
	claims, err := as.parse(rd.TokenString)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := as.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		// The token still expires on its own; logout succeeds either way.
		as.log.Warn("Failed to revoke access token", "error", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.parse(tokenString)
	if err != nil {
		return ctx, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, ErrUnauthorized
	}
	if as.revoker != nil {
		revoked, err := as.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			as.log.Warn("Token revocation lookup failed", "error", err)
		}
		if revoked {
			return ctx, ErrUnauthorized
		}
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        claims.Role,
		IsAdmin:     claims.IsAdmin,
	}), nil
}

func (as *authService) parse(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(tokenString),
		claims,
		func(*jwt.Token) (any, error) { return as.jwtSecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (as *authService) issue(dbc dbctx.Context, u *user.User) (TokenPair, error) {
	now := as.now()
	jti := uuid.NewString()
	claims := AccessClaims{
		Role:    u.Role.String(),
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := randomToken()
	if err != nil {
		return TokenPair{}, err
	}
	row := &auth.UserToken{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refresh),
		AccessTokenID:    jti,
		ExpiresAt:        now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*auth.UserToken{row}); err != nil {
		return TokenPair{}, fmt.Errorf("create user token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(as.accessTTL.Seconds()),
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// normalizePhone keeps a leading + and digits.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
