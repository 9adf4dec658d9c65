package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"mentorhub/store"
	"mentorhub/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	engine *Engine
	store  store.Store
}

func NewHandler(e *Engine, s store.Store) *Handler {
	return &Handler{engine: e, store: s}
}

// POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b, err := h.engine.Create(r.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid field: "+verr.Field)
		case errors.Is(err, ErrMentorNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Mentor not found")
		case errors.Is(err, ErrSlotNotOffered):
			utils.RespondWithError(w, http.StatusBadRequest, "Requested time is not offered by this mentor")
		case errors.Is(err, ErrSlotTaken):
			utils.RespondWithError(w, http.StatusConflict, "This time slot is already booked")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"booking": b,
	})
}

// GET /api/bookings?mentorId=
//
// The list is public, but student contact details only go to the mentor the
// booking belongs to. Authentication is optional on this route; anonymous
// callers get every booking redacted.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.engine.List(r.Context(), r.URL.Query().Get("mentorId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var callerMentorID string
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		if account, err := h.store.GetAccountByID(r.Context(), userID); err == nil {
			callerMentorID = account.MentorID
		}
	}
	for i := range bookings {
		if callerMentorID == "" || bookings[i].MentorID != callerMentorID {
			bookings[i].StudentEmail = ""
			bookings[i].Message = ""
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

// DELETE /api/bookings/:id — only the mentor who owns the booking may cancel.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	userID := utils.GetUserIDFromRequest(r)
	account, err := h.store.GetAccountByID(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	b, err := h.engine.Get(r.Context(), bookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if b.MentorID != account.MentorID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your booking")
		return
	}

	updated, err := h.engine.Cancel(r.Context(), bookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "booking": updated})
}

// GET /api/mentors/:id/slots?date=YYYY-MM-DD
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing date parameter")
		return
	}

	slots, err := h.engine.AvailableSlots(r.Context(), ps.ByName("id"), date)
	if err != nil {
		if errors.Is(err, ErrMentorNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Mentor not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": date, "slots": slots})
}
