package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"mentorhub/models"
	"mentorhub/rdx"
	"mentorhub/store"
	"mentorhub/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// tokenCacheHash is the Redis hash holding the most recent token per user.
const tokenCacheHash = "tokki"

type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// Register creates the account and the mentor profile in one shot. New
// mentors start with the default weekday availability template.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		Bio             string `json:"bio"`
		Expertise       string `json:"expertise"`
		Timezone        string `json:"timezone"`
		GoogleMeetEmail string `json:"google_meet_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" || input.Bio == "" || input.Expertise == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !utils.ValidEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	expertise := []string{}
	for _, e := range strings.Split(input.Expertise, ",") {
		if e = strings.TrimSpace(e); e != "" {
			expertise = append(expertise, e)
		}
	}

	timezone := input.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	mentorID := uuid.NewString()
	account := models.Account{
		UserID:    uuid.NewString(),
		Email:     input.Email,
		Password:  hashed,
		Role:      models.RoleMentor,
		MentorID:  mentorID,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			utils.RespondWithError(w, http.StatusConflict, "User already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	mentor := models.Mentor{
		MentorID:        mentorID,
		Name:            input.Name,
		Email:           input.Email,
		Bio:             input.Bio,
		Expertise:       expertise,
		Timezone:        timezone,
		Availability:    models.DefaultAvailability(),
		GoogleMeetEmail: input.GoogleMeetEmail,
		CreatedAt:       time.Now(),
	}
	if err := h.store.SaveMentor(r.Context(), mentor); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := GenerateToken(account.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	cacheToken(account.UserID, token)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Registration successful",
		"token":   token,
		"mentor":  mentor,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	account, err := h.store.GetAccountByEmail(r.Context(), input.Email)
	if err != nil || !VerifyPassword(input.Password, account.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := GenerateToken(account.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.store.RecordLogin(r.Context(), account.UserID, time.Now()); err != nil {
		log.Printf("[auth] failed to record login for %s: %v", account.UserID, err)
	}
	cacheToken(account.UserID, token)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   token,
		"user": utils.M{
			"id":       account.UserID,
			"email":    account.Email,
			"role":     account.Role,
			"mentorid": account.MentorID,
		},
	})
}

// Logout drops the cached token for the account. The bearer token itself
// stays valid until it expires; only the cache entry is cleared.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if rdx.Conn != nil {
		if err := rdx.RdxHdel(tokenCacheHash, userID); err != nil {
			log.Printf("[auth] failed to drop cached token for %s: %v", userID, err)
		}
	}

	utils.SendResponse(w, http.StatusOK, nil, "Logged out", nil)
}

// Me returns the authenticated mentor's profile together with their
// bookings; the dashboard is built from this single call.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := h.store.GetAccountByID(r.Context(), userID)
	if err != nil || account.MentorID == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Mentor profile not found")
		return
	}

	mentor, err := h.store.GetMentor(r.Context(), account.MentorID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Mentor profile not found")
		return
	}

	bookings, err := h.store.ListBookings(r.Context(), account.MentorID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"mentor":   mentor,
		"bookings": bookings,
	})
}

// cacheToken mirrors the issued token into Redis. Best effort: login must
// not fail because the cache is down.
func cacheToken(userID, token string) {
	if rdx.Conn == nil {
		return
	}
	if err := rdx.RdxHset(tokenCacheHash, userID, token); err != nil {
		log.Printf("[auth] redis token cache failed: %v", err)
	}
}
