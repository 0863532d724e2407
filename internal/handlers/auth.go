package handlers

import (
	"errors"
	"net/http"
	"strings"

	"auth_portal/internal/metrics"
	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing messages; the login page shows these verbatim.
const (
	msgFillAllFields      = "Please fill in all fields"
	msgInvalidCredentials = "Invalid username or password"
	msgEmailTaken         = "User with this email already exists"
	msgUsernameTaken      = "Username already exists"
	msgInvalidRefresh     = "invalid or expired refresh token"
	msgUserNotFound       = "user not found"
)

// LoginRequest accepts a username or an email in the username field.
type LoginRequest struct {
	Username string `json:"username" form:"username" example:"logintest"`
	Password string `json:"password" form:"password" example:"ValidPass123!"`
}

// RefreshRequest carries the opaque refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// bindOrBadRequest binds JSON or form bodies into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterInput  true  "Registration payload"
// @Success      201   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input service.RegisterInput
	if ok := h.bindOrBadRequest(c, &input); !ok {
		metrics.Registrations.WithLabelValues(metrics.ResultRejected).Inc()
		return
	}

	id, err := h.services.Register(c.Request.Context(), input)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		metrics.Registrations.WithLabelValues(metrics.ResultRejected).Inc()
		if h.log != nil {
			h.log.Infow("auth_register_rejected", "username", input.Username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ValidationMessage(err)})
		return
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		metrics.Registrations.WithLabelValues(metrics.ResultConflict).Inc()
		if h.log != nil {
			h.log.Infow("auth_register_conflict", "username", input.Username, "err", err)
		}
		msg := msgEmailTaken
		if errors.Is(err, service.ErrUsernameTaken) {
			msg = msgUsernameTaken
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	default:
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_register_failed", err,
			"username", input.Username)
		return
	}

	metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()
	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", id, "username", input.Username)
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Log in with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  service.TokenPair
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		metrics.Logins.WithLabelValues(metrics.ResultRejected).Inc()
		return
	}
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		metrics.Logins.WithLabelValues(metrics.ResultRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": msgFillAllFields})
		return
	}

	pair, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues(metrics.ResultInvalid).Inc()
			if h.log != nil {
				h.log.Infow("auth_login_failed", "login", input.Username)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_login_error", err,
			"login", input.Username)
		return
	}

	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	if h.log != nil {
		h.log.Infow("auth_logged_in", "user_id", pair.UserID)
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Rotate a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  service.TokenPair
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var input RefreshRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	pair, err := h.services.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidRefresh})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_refresh_error", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input RefreshRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_logout_error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// @Summary      Current user profile
// @Tags         account
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	userID := c.GetInt(ctxUserID)
	u, err := h.services.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "profile_load_failed", err,
			"user_id", userID)
		return
	}
	c.JSON(http.StatusOK, u)
}
