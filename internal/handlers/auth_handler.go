package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/clients"
	"github.com/HaseebAmer/bytecon/internal/feed"
	"github.com/HaseebAmer/bytecon/internal/graphql"
	"github.com/HaseebAmer/bytecon/internal/models"
	"github.com/HaseebAmer/bytecon/internal/session"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandler serves the public views: landing, login, signup and the
// password-reset flow.
type AuthHandler struct {
	users    *clients.UserClient
	sessions *session.Store
	feeds    *feed.Registry
	logger   *zap.Logger
}

func NewAuthHandler(users *clients.UserClient, sessions *session.Store, feeds *feed.Registry, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		feeds:    feeds,
		logger:   logger,
	}
}

func (h *AuthHandler) HomePage(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Email": ""})
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Err": "Invalid form submission.", "Email": ""})
		return
	}

	// Validation failures never reach the backend.
	if !emailRegex.MatchString(form.Email) {
		c.HTML(http.StatusOK, "login.html", gin.H{"Err": "Please enter a valid email address.", "Email": form.Email})
		return
	}
	if len(form.Password) < 8 {
		c.HTML(http.StatusOK, "login.html", gin.H{"Err": "Password must be at least 8 characters.", "Email": form.Email})
		return
	}

	// A stale session never outlives a login attempt.
	h.sessions.Clear(c)

	sess, err := h.users.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusOK, "login.html", gin.H{"Err": apiErr.Msg, "Email": form.Email})
			return
		}
		h.logger.Error("Login request failed", zap.Error(err))
		c.HTML(http.StatusOK, "login.html", gin.H{"Err": "Something went wrong. Please try again.", "Email": form.Email})
		return
	}

	h.sessions.Set(c, sess.Token, sess.User.ID)
	h.feeds.Drop(sess.User.ID)
	h.logger.Info("User logged in", zap.Int("user_id", sess.User.ID))
	c.Redirect(http.StatusSeeOther, "/main")
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

type signupForm struct {
	Email           string `form:"email"`
	FirstName       string `form:"firstName"`
	LastName        string `form:"lastName"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

func (f signupForm) validate() string {
	if !emailRegex.MatchString(f.Email) {
		return "Please enter a valid email address."
	}
	if f.FirstName == "" {
		return "Please enter your first name."
	}
	if f.LastName == "" {
		return "Please enter your last name."
	}
	if f.Password != f.ConfirmPassword {
		return "Passwords do not match!"
	}
	if len(f.Password) < 8 {
		return "Password must be at least 8 characters."
	}
	return ""
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Err": "Invalid form submission."})
		return
	}

	if msg := form.validate(); msg != "" {
		c.HTML(http.StatusOK, "signup.html", gin.H{"Err": msg, "Form": form})
		return
	}

	h.sessions.Clear(c)

	sess, err := h.users.CreateUser(c.Request.Context(), form.Email, form.Password, form.FirstName, form.LastName)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusOK, "signup.html", gin.H{"Err": apiErr.Msg, "Form": form})
			return
		}
		h.logger.Error("Signup request failed", zap.Error(err))
		c.HTML(http.StatusOK, "signup.html", gin.H{"Err": "Something went wrong. Please try again.", "Form": form})
		return
	}

	h.sessions.Set(c, sess.Token, sess.User.ID)
	h.logger.Info("User signed up", zap.Int("user_id", sess.User.ID))
	c.Redirect(http.StatusSeeOther, "/main")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := h.sessions.UserID(c)
	h.sessions.Clear(c)
	h.feeds.Drop(userID)
	c.Redirect(http.StatusSeeOther, "/home")
}

func (h *AuthHandler) ForgotPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "forgot_password.html", gin.H{})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := c.PostForm("email")
	if !emailRegex.MatchString(email) {
		c.HTML(http.StatusOK, "forgot_password.html", gin.H{"Err": "Please enter a valid email address."})
		return
	}

	if err := h.users.RequestPasswordReset(c.Request.Context(), email); err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusOK, "forgot_password.html", gin.H{"Err": apiErr.Msg})
			return
		}
		h.logger.Error("Password reset request failed", zap.Error(err))
		c.HTML(http.StatusOK, "forgot_password.html", gin.H{"Err": "Something went wrong. Please try again."})
		return
	}

	c.HTML(http.StatusOK, "forgot_password.html", gin.H{
		"Msg": "A temporary link has been successfully sent to your email!",
	})
}

func (h *AuthHandler) NewPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "new_password.html", gin.H{})
}

func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reset_password.html", gin.H{"Token": c.Query("token")})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.PostForm("token")
	password := c.PostForm("password")

	if len(password) < 8 {
		c.HTML(http.StatusOK, "reset_password.html", gin.H{
			"Err":   "Password must be at least 8 characters.",
			"Token": token,
		})
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), token, password); err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusOK, "reset_password.html", gin.H{"Err": apiErr.Msg, "Token": token})
			return
		}
		h.logger.Error("Password reset failed", zap.Error(err))
		c.HTML(http.StatusOK, "reset_password.html", gin.H{
			"Err":   "An error occurred. Please try again.",
			"Token": token,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

// authContext attaches the stored session token to the request context so
// outgoing backend calls carry it in their Authorization header.
func authContext(c *gin.Context, sessions *session.Store) context.Context {
	return graphql.WithToken(c.Request.Context(), sessions.Token(c))
}
