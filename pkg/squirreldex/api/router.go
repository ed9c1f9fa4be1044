package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// NewRouter assembles the HTTP API. Reads are public; every mutating route
// sits behind token verification, and handlers receive the resolved actor ID
// through the request context.
func NewRouter(service squirreldex.Service, tokenAuth *jwtauth.JWTAuth, logger *slog.Logger) chi.Router {
	squirrels := NewSquirrelHandler(service)
	assets := NewAssetHandler(service)

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "OK"})
	})

	r.Route("/squirrels", func(r chi.Router) {
		r.Get("/", squirrels.ListSquirrels)
		r.Get("/{id}", squirrels.GetSquirrel)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(Authenticator)

			r.Post("/", squirrels.CreateSquirrel)
			r.Patch("/{id}", squirrels.UpdateSquirrel)
			r.Delete("/{id}", squirrels.DeleteSquirrel)

			r.Post("/{id}/assets", assets.UploadAsset)
			r.Delete("/{id}/assets/{assetID}", assets.DeleteAsset)
		})
	})

	return r
}
