package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"frenchdriver/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleClient))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.GetMe))

	// Pricing
	mux.Post("/pricing/estimate", authMiddleware.ThenFunc(app.pricingHandler.EstimatePrice))

	// Bookings
	mux.Post("/booking", authMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Get("/booking/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBookingByID))
	mux.Get("/bookings", authMiddleware.ThenFunc(app.bookingHandler.GetBookings))
	mux.Post("/booking/:id/cancel", authMiddleware.ThenFunc(app.bookingHandler.CancelBooking))

	// Admin booking lifecycle
	mux.Put("/admin/booking/:id/status", adminAuthMiddleware.ThenFunc(app.bookingHandler.UpdateBookingStatus))
	mux.Post("/admin/booking/:id/assign", adminAuthMiddleware.ThenFunc(app.bookingHandler.AssignDriver))
	mux.Post("/admin/booking/:id/broadcast", adminAuthMiddleware.ThenFunc(app.bookingHandler.BroadcastBooking))
	mux.Post("/admin/booking/:id/invoice", adminAuthMiddleware.ThenFunc(app.bookingHandler.GenerateInvoice))
	mux.Get("/admin/dashboard", adminAuthMiddleware.ThenFunc(app.bookingHandler.GetDashboard))

	// Drivers
	mux.Post("/admin/driver", adminAuthMiddleware.ThenFunc(app.driverHandler.CreateDriver))
	mux.Get("/admin/driver/:id", adminAuthMiddleware.ThenFunc(app.driverHandler.GetDriverByID))
	mux.Get("/admin/drivers", adminAuthMiddleware.ThenFunc(app.driverHandler.GetDrivers))
	mux.Put("/admin/driver/:id", adminAuthMiddleware.ThenFunc(app.driverHandler.UpdateDriver))
	mux.Del("/admin/driver/:id", adminAuthMiddleware.ThenFunc(app.driverHandler.DeleteDriver))

	// Admin live events feed
	mux.Get("/ws/admin/events", adminAuthMiddleware.ThenFunc(app.BookingEventsHandler))

	return standardMiddleware.Then(mux)
}
