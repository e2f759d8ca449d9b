package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	tenantMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("tenant"))
	landlordMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("landlord"))

	mux := pat.New()

	// Pool: rental requests entering/leaving the matching pool
	mux.Post("/pool/requests", tenantMiddleware.ThenFunc(app.poolHandler.CreateRequest))
	mux.Put("/pool/requests/:id", tenantMiddleware.ThenFunc(app.poolHandler.UpdateRequest))
	mux.Del("/pool/requests/:id", tenantMiddleware.ThenFunc(app.poolHandler.DeleteRequest))
	mux.Post("/pool/requests/:id/match", tenantMiddleware.ThenFunc(app.poolHandler.AddToPool))

	// Matches
	mux.Get("/matches/counterparty/:counterparty_id", landlordMiddleware.ThenFunc(app.matchHandler.GetMatchesForCounterparty))
	mux.Get("/matches/request/:request_id", tenantMiddleware.ThenFunc(app.matchHandler.GetMatchesForRequest))
	mux.Post("/matches/:id/viewed", landlordMiddleware.ThenFunc(app.matchHandler.MarkViewed))

	// Collaborator signals
	mux.Post("/events/property", standardMiddleware.ThenFunc(app.eventHandler.PropertyChanged))
	mux.Post("/events/offer_accepted", standardMiddleware.ThenFunc(app.eventHandler.OfferAccepted))
	mux.Post("/events/trust_changed", standardMiddleware.ThenFunc(app.eventHandler.TrustChanged))

	// Match notification stream
	mux.Get("/ws/matches/:counterparty_id", http.HandlerFunc(app.matchHub.ServeWS))

	return mux
}
