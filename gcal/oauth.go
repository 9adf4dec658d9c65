package gcal

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"mentorhub/rdx"
	"mentorhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const stateTTL = 10 * time.Minute

// The OAuth state is "mentorID:nonce". The mentor id makes the callback
// self-correlating; the nonce, parked in Redis for the duration of the
// consent round-trip, rejects forged callbacks. A state with no parked
// nonce (never issued, expired, or already redeemed) is refused; only a
// Redis transport error degrades the check to correlation only.
func (a *Adapter) newState(mentorID string) string {
	nonce := utils.GenerateRandomString(24)
	if rdx.Conn != nil {
		if err := rdx.SetWithTTL("gauth:"+mentorID, nonce, stateTTL); err != nil {
			log.Printf("[gcal] failed to park oauth nonce: %v", err)
		}
	}
	return mentorID + ":" + nonce
}

func (a *Adapter) checkState(state string) (mentorID string, ok bool) {
	mentorID, nonce, found := strings.Cut(state, ":")
	if !found || mentorID == "" {
		return "", false
	}
	if rdx.Conn == nil {
		return mentorID, true
	}
	parked, err := rdx.GetDel("gauth:" + mentorID)
	return mentorID, nonceMatches(parked, err, nonce, mentorID)
}

func nonceMatches(parked string, lookupErr error, nonce, mentorID string) bool {
	if lookupErr != nil {
		// Absent key means the state was never issued or is spent.
		if errors.Is(lookupErr, redis.Nil) {
			return false
		}
		log.Printf("[gcal] oauth nonce lookup failed for %s: %v", mentorID, lookupErr)
		return true
	}
	return parked == nonce
}

// BeginAuth returns the Google consent URL for the authenticated mentor.
// GET /api/auth/google
func (a *Adapter) BeginAuth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	account, err := a.store.GetAccountByID(r.Context(), userID)
	if err != nil || account.MentorID == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Mentor profile not found")
		return
	}

	authURL := a.cfg.AuthCodeURL(
		a.newState(account.MentorID),
		oauth2.AccessTypeOffline,
		// force the consent screen so a refresh token is always issued
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"authUrl": authURL})
}

// Callback completes the OAuth flow: exchanges the authorization code and
// persists the credentials on the mentor profile. Google redirects the
// browser here, so the outcome is reported by redirecting to the dashboard.
// GET /api/auth/google/callback?code=...&state=...
func (a *Adapter) Callback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		redirectDashboard(w, r, "error="+url.QueryEscape(errParam))
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		redirectDashboard(w, r, "error=missing_code_or_state")
		return
	}

	mentorID, ok := a.checkState(state)
	if !ok {
		redirectDashboard(w, r, "error=invalid_state")
		return
	}

	token, err := a.cfg.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("[gcal] code exchange failed for mentor %s: %v", mentorID, err)
		redirectDashboard(w, r, "error=token_exchange_failed")
		return
	}

	if err := a.store.SaveCalendarTokens(r.Context(), mentorID, token.AccessToken, token.RefreshToken, token.Expiry, true); err != nil {
		log.Printf("[gcal] failed to persist tokens for mentor %s: %v", mentorID, err)
		redirectDashboard(w, r, "error=token_save_failed")
		return
	}

	redirectDashboard(w, r, "google_connected=true")
}

func redirectDashboard(w http.ResponseWriter, r *http.Request, query string) {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	http.Redirect(w, r, base+"/mentors/dashboard?"+query, http.StatusTemporaryRedirect)
}
