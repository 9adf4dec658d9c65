package booking

import (
	"bytes"
	"fmt"
	"net/http"

	"mentorhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/bookings/:id/qr — PNG QR code encoding the meeting link, so a
// student can jump into the session from a phone.
func (h *Handler) BookingQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.engine.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if b.MeetLink == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Booking has no meeting link")
		return
	}

	png, err := qrcode.Encode(b.MeetLink, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GET /api/bookings/:id/confirmation — downloadable PDF confirmation with
// the session details and a QR of the meeting link.
func (h *Handler) PrintConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.engine.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	mentor, err := h.store.GetMentor(r.Context(), b.MentorID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Mentor not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Mentoring Session Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Mentor: %s", mentor.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Student: %s (%s)", b.StudentName, b.StudentEmail))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s at %s (%s)", b.Date, b.Time, mentor.Timezone))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", b.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Meeting link: %s", b.MeetLink))
	pdf.Ln(12)

	if b.MeetLink != "" {
		qrPNG, qerr := qrcode.Encode(b.MeetLink, qrcode.Medium, 256)
		if qerr == nil {
			imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
			pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+b.BookingID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
