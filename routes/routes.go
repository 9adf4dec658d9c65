package routes

import (
	"net/http"

	"mentorhub/auth"
	"mentorhub/booking"
	"mentorhub/gcal"
	"mentorhub/mentors"
	"mentorhub/middleware"
	"mentorhub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
	// the mentor dashboard: own profile plus bookings
	router.GET("/api/auth/me", middleware.Authenticate(h.Me))
}

func AddMentorRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *mentors.Handler) {
	router.GET("/api/mentors", h.ListMentors)
	router.GET("/api/mentors/:id", h.GetMentor)
	router.POST("/api/profile/avatar", rl.Limit(middleware.Authenticate(h.UploadAvatar)))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *booking.Handler) {
	router.POST("/api/bookings", rl.Limit(h.CreateBooking))
	router.GET("/api/bookings", middleware.OptionalAuth(h.ListBookings))
	router.DELETE("/api/bookings/:id", rl.Limit(middleware.Authenticate(h.CancelBooking)))
	router.GET("/api/bookings/:id/qr", h.BookingQR)
	router.GET("/api/bookings/:id/confirmation", h.PrintConfirmation)
	router.GET("/api/mentors/:id/slots", h.GetAvailableSlots)
	router.GET("/ws/mentors/:mentorid", booking.HandleWS)
}

func AddCalendarRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, a *gcal.Adapter) {
	router.GET("/api/auth/google", rl.Limit(middleware.Authenticate(a.BeginAuth)))
	router.GET("/api/auth/google/callback", a.Callback)
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/*filepath", http.Dir("./static"))
}
