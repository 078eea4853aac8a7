package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	auth         *services.AuthService
	secureCookie bool
}

func newAuthHandler(auth *services.AuthService, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		auth:         auth,
		secureCookie: secureCookie,
	}
}

func (h authHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// register creates an account and signs it in
// @Summary Register
// @Description Creates a user account when registration is open and starts a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Account data"
// @Success 201 {object} SessionResponse "Created user and session token"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid account data"
// @Failure 403 {object} ErrorResponse "Forbidden - Registration is closed"
// @Failure 409 {object} ErrorResponse "Conflict - Username taken"
// @Router /api/auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.auth.Register(r.Context(), services.RegisterInput{
			Username:  req.Username,
			Password:  req.Password,
			Name:      req.Name,
			AvatarURL: optional(req.AvatarURL),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.auth.IssueToken(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int("userId", user.ID).Str("username", user.Username).Msg("User registered")
		h.setSession(w, token)
		h.responder.WriteJSONStatus(w, http.StatusCreated, SessionResponse{User: *user, Token: token})
	}
}

// login checks credentials and starts a session
// @Summary Login
// @Description Sets the session cookie and returns the token for bearer clients
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse "User and session token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errs.IsInvalidCredentialsError(err) {
				h.logger.Warn().Str("username", req.Username).Str("ip", clientIP(r)).Msg("Failed login")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.setSession(w, token)
		h.responder.WriteJSON(w, SessionResponse{User: *user, Token: token})
	}
}

// logout clears the session cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /api/auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "Logged out",
		})
	}
}

// me returns the session user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User "Signed-in user"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ctxGetUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.auth.CurrentUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if user == nil {
			// token outlived its account
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
