package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"smartroad-be/apperrors"
	"smartroad-be/middlewares"
	"smartroad-be/models"
	"smartroad-be/response"
	"smartroad-be/store"
	authUtils "smartroad-be/utils"
)

// CookieSettings controls how the auth cookie is written.
type CookieSettings struct {
	Domain     string
	Production bool
}

// AuthController handles signup, login and session endpoints.
type AuthController struct {
	users  store.UserStore
	tokens *authUtils.TokenIssuer
	cookie CookieSettings
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewAuthController(users store.UserStore, tokens *authUtils.TokenIssuer, cookie CookieSettings, clock clockwork.Clock, logger *slog.Logger) *AuthController {
	return &AuthController{users: users, tokens: tokens, cookie: cookie, clock: clock, logger: logger}
}

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles user registration
func (a *AuthController) Signup(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := a.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		response.Error(c, apperrors.Conflict("User with this email already exists"))
		return
	case !apperrors.Is(err, "NOT_FOUND"):
		response.Error(c, err)
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  input.Password,
		Role:      models.RoleUser,
		CreatedAt: a.clock.Now().UTC(),
	}
	if err := user.HashPassword(); err != nil {
		response.Error(c, apperrors.Internal("Something went wrong", err))
		return
	}
	if err := a.users.CreateUser(ctx, &user); err != nil {
		response.Error(c, err)
		return
	}

	token, err := a.issue(c, &user)
	if err != nil {
		response.Error(c, err)
		return
	}
	a.logger.Info("user signed up", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles login for both user and admin accounts.
func (a *AuthController) Login(c *gin.Context) {
	a.login(c, false)
}

// AdminLogin is Login restricted to admin accounts.
func (a *AuthController) AdminLogin(c *gin.Context) {
	a.login(c, true)
}

func (a *AuthController) login(c *gin.Context, adminOnly bool) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := a.users.FindUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if apperrors.Is(err, "NOT_FOUND") {
			response.Error(c, apperrors.Unauthorized("Invalid credentials", nil))
			return
		}
		response.Error(c, err)
		return
	}
	if !user.ComparePassword(input.Password) {
		response.Error(c, apperrors.Unauthorized("Invalid credentials", nil))
		return
	}
	if adminOnly && !user.IsAdmin() {
		response.Error(c, apperrors.Forbidden("Admin access required", nil))
		return
	}

	token, err := a.issue(c, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// GetMe retrieves the authenticated user's information
func (a *AuthController) GetMe(c *gin.Context) {
	user, err := a.users.FindUserByID(c.Request.Context(), c.GetString(middlewares.ContextUserID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the auth_token cookie
func (a *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(a.sameSite())
	c.SetCookie(middlewares.AuthCookieName, "", -1, "/", a.cookieDomain(), a.cookie.Production, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// issue signs a token for user and sets it as the auth cookie.
func (a *AuthController) issue(c *gin.Context, user *models.User) (string, error) {
	token, err := a.tokens.GenerateToken(user)
	if err != nil {
		return "", apperrors.Internal("Something went wrong", fmt.Errorf("generate token: %w", err))
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookieName,
		Value:    token,
		MaxAge:   int(a.tokens.TTL().Seconds()),
		Path:     "/",
		Domain:   a.cookieDomain(),
		Secure:   a.cookie.Production,
		HttpOnly: true,
		SameSite: a.sameSite(),
	})
	return token, nil
}

// For production, don't set domain to allow cross-origin cookies
func (a *AuthController) cookieDomain() string {
	if a.cookie.Production {
		return ""
	}
	return a.cookie.Domain
}

// Cross-origin cookies need SameSite=None, which browsers only accept with Secure.
func (a *AuthController) sameSite() http.SameSite {
	if a.cookie.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
