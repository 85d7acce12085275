package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ideaforge/dashboard/auth"
	"github.com/ideaforge/dashboard/middleware"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"github.com/ideaforge/dashboard/services"
	"github.com/ideaforge/dashboard/services/email"
	"github.com/ideaforge/dashboard/utils"
	"go.uber.org/zap"
)

// RegisterRequest represents a signup request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

// UserResponse represents an account in API responses
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// AuthHandler handles account registration, verification and login
type AuthHandler struct {
	users         repositories.UserRepository
	verifications repositories.VerificationRepository
	txManager     repositories.TransactionManager
	mailer        email.Sender
	issuer        *auth.Issuer
	logger        *zap.Logger
	now           func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	users repositories.UserRepository,
	verifications repositories.VerificationRepository,
	txManager repositories.TransactionManager,
	mailer email.Sender,
	issuer *auth.Issuer,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		verifications: verifications,
		txManager:     txManager,
		mailer:        mailer,
		issuer:        issuer,
		logger:        logger,
		now:           time.Now,
	}
}

// HandleRegister handles POST /api/auth/register
// Creates an unverified account and mails a verification code.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := r.Context()

	if existing, _ := h.users.GetByEmail(ctx, req.Email); existing != nil {
		if existing.Verified {
			HandleServiceError(w, services.ErrDuplicateEmail, h.logger)
			return
		}
		// Unverified account: re-registering resends a fresh code instead
		// of stranding the account behind a lapsed or lost one.
		h.resendVerification(ctx, w, existing)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to hash password", err), h.logger)
		return
	}

	user := models.NewUser(req.Email, req.Name, hash)
	if err := h.users.Create(ctx, user); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to create user", err), h.logger)
		return
	}

	code, err := email.GenerateCode()
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to generate verification code", err), h.logger)
		return
	}

	vc := models.NewVerificationCode(req.Email, code, h.now().Add(email.CodeTTL))
	if err := h.verifications.Create(ctx, vc); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to store verification code", err), h.logger)
		return
	}

	if err := h.mailer.SendVerificationEmail(req.Email, req.Name, code); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("account registered", zap.String("email", req.Email))
	_ = utils.WriteCreated(w, map[string]string{
		"message": "Account created. Check your email for the verification code.",
	})
}

// resendVerification issues a fresh code for an existing unverified account.
func (h *AuthHandler) resendVerification(ctx context.Context, w http.ResponseWriter, user *models.User) {
	code, err := email.GenerateCode()
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to generate verification code", err), h.logger)
		return
	}

	vc := models.NewVerificationCode(user.Email, code, h.now().Add(email.CodeTTL))
	if err := h.verifications.Create(ctx, vc); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to store verification code", err), h.logger)
		return
	}

	if err := h.mailer.SendVerificationEmail(user.Email, user.Name, code); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("verification code resent", zap.String("email", user.Email))
	_ = utils.WriteOK(w, map[string]string{
		"message": "Account already registered but not verified. A new verification code has been sent.",
	})
}

// HandleVerifyEmail handles POST /api/auth/verify
// Consumes a verification code and activates the account.
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := r.Context()

	vc, err := h.verifications.GetLatest(ctx, req.Email, req.Code)
	if err != nil || vc == nil {
		HandleServiceError(w, services.ErrCodeNotFound, h.logger)
		return
	}

	if !vc.Usable(h.now()) {
		if vc.Used {
			HandleServiceError(w, services.ErrCodeAlreadyUsed, h.logger)
		} else {
			HandleServiceError(w, services.ErrCodeExpired, h.logger)
		}
		return
	}

	// Consuming the code and activating the account must not diverge.
	err = h.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		if err := h.verifications.MarkUsed(ctx, vc.ID); err != nil {
			return err
		}
		return h.users.MarkVerified(ctx, req.Email)
	})
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to activate account", err), h.logger)
		return
	}

	// Welcome mail is best effort; verification already succeeded
	if user, err := h.users.GetByEmail(ctx, req.Email); err == nil {
		if err := h.mailer.SendWelcomeEmail(user.Email, user.Name); err != nil {
			h.logger.Warn("failed to send welcome email",
				zap.String("email", user.Email),
				zap.Error(err))
		}
	}

	h.logger.Info("account verified", zap.String("email", req.Email))
	_ = utils.WriteOK(w, map[string]string{"message": "Email verified. You can now log in."})
}

// HandleLogin handles POST /api/auth/login
// Checks credentials and issues a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and wrong password
		HandleServiceError(w, services.ErrInvalidCredentials, h.logger)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		HandleServiceError(w, services.ErrInvalidCredentials, h.logger)
		return
	}

	if !user.Verified {
		HandleServiceError(w, services.ErrAccountNotVerified, h.logger)
		return
	}

	token, expiresAt, err := h.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to issue token", err), h.logger)
		return
	}

	h.logger.Info("login successful", zap.String("user_id", user.ID.String()))
	_ = utils.WriteOK(w, TokenResponse{
		Token:     token,
		Subject:   user.ID.String(),
		Email:     user.Email,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleLogout handles POST /api/auth/logout
// Tokens are stateless; logout clears the cookie fallback for browser clients.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	_ = utils.WriteOK(w, map[string]string{"message": "Logged out"})
}

// HandleMe handles GET /api/auth/me
// Returns the authenticated account.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserIDFromContext(ctx)
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		HandleServiceError(w, services.ErrUserNotFound, h.logger)
		return
	}

	_ = utils.WriteOK(w, UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Name:     user.Name,
		Verified: user.Verified,
	})
}
