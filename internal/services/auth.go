package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

var validate = validator.New()

// RevocationStore records logged out tokens until they expire.
type RevocationStore interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	db          *gorm.DB
	tokens      *utils.TokenManager
	revocations RevocationStore
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, revocations RevocationStore) *AuthService {
	return &AuthService{db: db, tokens: tokens, revocations: revocations}
}

type RegisterInput struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if in.Username == "" || in.PhoneNumber == "" {
		return nil, invalid("Username and phone number are required")
	}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		return nil, invalid("Invalid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, invalid("Password must be at least %d characters", MinPasswordLength)
	}

	if err := s.checkUnique(ctx, 0, in.Username, in.Email, in.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		HashedPassword: hash,
		Role:           models.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Username or email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ User registered: %s", user.Username)
	return user, nil
}

// checkUnique rejects identifiers already used by another account.
func (s *AuthService) checkUnique(ctx context.Context, exceptID uint, username, email, phone string) error {
	return checkUserUnique(s.db.WithContext(ctx), exceptID, username, email, phone)
}

func checkUserUnique(db *gorm.DB, exceptID uint, username, email, phone string) error {
	checks := []struct {
		column, value, msg string
	}{
		{"username", username, "Username already registered"},
		{"email", email, "Email already registered"},
		{"phone_number", phone, "Phone number already registered"},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var count int64
		q := db.Model(&models.User{}).Where(c.column+" = ?", c.value)
		if exceptID != 0 {
			q = q.Where("id <> ?", exceptID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", c.column, err)
		}
		if count > 0 {
			return conflict("%s", c.msg)
		}
	}
	return nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("Invalid username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := utils.VerifyPassword(password, user.HashedPassword)
	if err != nil && !errors.Is(err, utils.ErrInvalidHash) {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, unauthorized("Invalid username or password")
	}

	// Legacy bcrypt hashes are upgraded on first successful login.
	if utils.IsBcryptHash(user.HashedPassword) {
		hash, err := utils.HashPassword(password)
		if err == nil {
			err = s.db.WithContext(ctx).Model(&user).Update("hashed_password", hash).Error
		}
		if err != nil {
			log.Printf("⚠️ Password hash upgrade failed for user %d: %v", user.ID, err)
		}
	}

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*TokenResponse, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ID == "" {
		return unauthorized("Invalid token")
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revocations.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate parses a bearer token and rejects revoked ones.
// An unreachable revocation store rejects the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, unauthorized("Invalid or expired token")
	}

	revoked, err := s.revocations.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		log.Printf("❌ Revocation check failed: %v", err)
		return nil, unavailable("Authentication temporarily unavailable")
	}
	if revoked {
		return nil, unauthorized("Token has been revoked")
	}
	return claims, nil
}

// LoginWithProvider signs in a social account, creating a customer on first use.
func (s *AuthService) LoginWithProvider(ctx context.Context, provider, email, name string) (*TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, invalid("Provider did not return a valid email")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return s.issue(&user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// No usable password: the random secret is hashed and thrown away.
	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user = models.User{
		Username:       s.freeUsername(ctx, name, email),
		Email:          email,
		PhoneNumber:    "",
		HashedPassword: hash,
		Role:           models.RoleCustomer,
		Provider:       provider,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ User %s created via %s", user.Username, provider)
	return s.issue(&user)
}

func (s *AuthService) freeUsername(ctx context.Context, name, email string) string {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "."))
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	candidate := base
	for i := 0; i < 5; i++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			log.Printf("⚠️ Username lookup failed for %s: %v", candidate, err)
		} else if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s.%s", base, uuid.NewString()[:6])
	}
	return candidate
}
