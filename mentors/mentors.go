package mentors

import (
	"net/http"

	"mentorhub/store"
	"mentorhub/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// GET /api/mentors — public browse listing. Token fields never leave the
// model's JSON shape, so no scrubbing is needed here.
func (h *Handler) ListMentors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mentors, err := h.store.ListMentors(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"mentors": mentors})
}

// GET /api/mentors/:id
func (h *Handler) GetMentor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mentor, err := h.store.GetMentor(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Mentor not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"mentor": mentor})
}
