// Package router assembles the gin engine: middleware stack, versioned API
// routes, the legacy unversioned aliases and the root routes.
package router

import (
	"net/http"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
)

// APIVersion is the prefix segment of the versioned API.
const APIVersion = "v1"

// Route is one endpoint. Scope names the JWT scope a caller needs; an empty
// Scope leaves the route public.
type Route struct {
	Method  string
	Path    string
	Scope   string
	Handler gin.HandlerFunc
}

// Guard returns the middleware enforcing scope. A nil Guard, or one that
// returns nil, leaves scoped routes open.
type Guard func(scope string) gin.HandlerFunc

// Mount registers routes on rg with guard(scope) in front of every scoped
// handler.
func Mount(rg gin.IRoutes, routes []Route, guard Guard) {
	for _, rt := range routes {
		handlers := make([]gin.HandlerFunc, 0, 2)
		if rt.Scope != "" && guard != nil {
			if mw := guard(rt.Scope); mw != nil {
				handlers = append(handlers, mw)
			}
		}
		rg.Handle(rt.Method, rt.Path, append(handlers, rt.Handler)...)
	}
}

// versionedRoutes lists everything under /api/v1. Job routes are present
// only when a job handler exists.
func versionedRoutes(h Handlers) []Route {
	routes := []Route{
		{http.MethodPost, "/predict", "", h.Prediction.Predict},
		{http.MethodGet, "/predictions/recent", "", h.Prediction.Recent},
		{http.MethodGet, "/strategies", "", h.Strategies.ListStrategies},

		{http.MethodPost, "/train", auth.ScopeModel, h.Model.Train},
		{http.MethodGet, "/model/info", "", h.Model.Info},
		{http.MethodGet, "/model/versions", "", h.Model.Versions},
		{http.MethodPost, "/model/compare", auth.ScopeModel, h.Model.Compare},

		{http.MethodPost, "/data/validate", auth.ScopeData, h.Data.Validate},
		{http.MethodPost, "/data/pipeline", auth.ScopeData, h.Data.Pipeline},
	}
	if h.Jobs != nil {
		routes = append(routes,
			Route{http.MethodPost, "/jobs/retrain", auth.ScopeModel, h.Jobs.Retrain},
			Route{http.MethodPost, "/jobs/pipeline", auth.ScopeData, h.Jobs.Pipeline},
			Route{http.MethodGet, "/jobs/:id", "", h.Jobs.Get},
		)
	}
	return routes
}

// legacyRoutes are the unversioned paths of the first release, kept under
// /api for existing clients.
func legacyRoutes(h Handlers) []Route {
	return []Route{
		{http.MethodPost, "/predict", "", h.Prediction.Predict},
		{http.MethodPost, "/train", auth.ScopeModel, h.Model.Train},
		{http.MethodGet, "/model/info", "", h.Model.Info},
	}
}
