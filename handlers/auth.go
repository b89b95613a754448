package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/camden-git/familyvault/config"
	"github.com/camden-git/familyvault/models"
	"github.com/camden-git/familyvault/repository"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Cfg         config.Config
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Activity    repository.ActivityRepository
}

func NewAuthHandler(cfg config.Config, userRepo repository.UserRepository, sessionRepo repository.SessionRepository, activity repository.ActivityRepository) *AuthHandler {
	return &AuthHandler{Cfg: cfg, UserRepo: userRepo, SessionRepo: sessionRepo, Activity: activity}
}

type RegisterPayload struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload: "+err.Error())
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Username and password are required")
		return
	}
	if payload.Password != payload.ConfirmPassword {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Passwords do not match")
		return
	}
	if username == models.SysopUsername {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Username is reserved")
		return
	}
	if _, err := h.UserRepo.GetByUsername(username); err == nil {
		WriteAPIError(w, http.StatusConflict, "conflict", "Username already taken")
		return
	}

	newUser := &models.User{Username: username}
	if err := newUser.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to hash password")
		return
	}
	if err := h.UserRepo.Create(newUser); err != nil {
		log.Printf("Error creating user '%s': %v", username, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully. Please log in."})
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request payload")
		return
	}

	// master password override yields an admin sysop session with no user row
	if payload.Password == h.Cfg.MasterPassword {
		h.logActivity(models.ActionLogin, models.SysopUsername, "Master password used")
		h.issueSession(w, &models.User{Username: models.SysopUsername, IsAdmin: true})
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		h.logActivity(models.ActionLoginFailed, payload.Username, "User does not exist")
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Invalid username or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		h.logActivity(models.ActionLoginFailed, payload.Username, "Incorrect password")
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "Invalid username or password")
		return
	}

	role := "User"
	if user.IsAdmin {
		role = "Admin"
	}
	h.logActivity(models.ActionLogin, user.Username, "Role: "+role)
	h.issueSession(w, user)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *models.User) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(time.Duration(h.Cfg.SessionTTLHours) * time.Hour)
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: expiresAt,
	}
	if err := h.SessionRepo.Create(session); err != nil {
		log.Printf("Error creating session for %s: %v", user.Username, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: userForResponse, ExpiresAt: expiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.SessionRepo.DeleteByToken(token); err != nil {
			log.Printf("Error deleting session on logout: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:    SessionCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler should be protected by AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Could not retrieve user from context")
		return
	}
	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}

func (h *AuthHandler) logActivity(action, username, details string) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Log(action, username, details); err != nil {
		log.Printf("Error logging activity %s: %v", action, err)
	}
}
