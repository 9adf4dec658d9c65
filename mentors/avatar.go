package mentors

import (
	"net/http"
	"path/filepath"

	"mentorhub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const avatarDir = "./static/avatars"

// UploadAvatar replaces the authenticated mentor's avatar. The image is
// re-encoded and resized to a 300px-wide JPEG before serving.
// POST /api/mentors/me/avatar (multipart field "avatar")
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
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

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	if err := utils.EnsureDir(avatarDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	avatarPath := filepath.Join(avatarDir, mentor.MentorID+".jpg")
	if err := imaging.Save(thumb, avatarPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}

	mentor.Avatar = "/static/avatars/" + mentor.MentorID + ".jpg"
	if err := h.store.SaveMentor(r.Context(), mentor); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"avatar": mentor.Avatar})
}
