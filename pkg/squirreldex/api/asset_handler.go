package api

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// AssetHandler handles HTTP requests for squirrel assets
type AssetHandler struct {
	service squirreldex.Service
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(service squirreldex.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// AssetResponse is the response body wrapping a single asset
type AssetResponse struct {
	Asset *squirreldex.Asset `json:"asset"`
}

// UploadAsset handles POST /squirrels/{id}/assets. The image is sent as the
// multipart form field "file".
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	squirrelID, err := parseID(r, "id")
	if err != nil {
		renderBadRequest(w, r, "invalid squirrel id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		renderBadRequest(w, r, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		renderBadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	asset, err := h.service.UploadAsset(r.Context(), ActorID(r.Context()), squirrelID, file)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, AssetResponse{Asset: asset})
}

// DeleteAsset handles DELETE /squirrels/{id}/assets/{assetID}
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	squirrelID, err := parseID(r, "id")
	if err != nil {
		renderBadRequest(w, r, "invalid squirrel id")
		return
	}

	assetID, err := parseID(r, "assetID")
	if err != nil {
		renderBadRequest(w, r, "invalid asset id")
		return
	}

	if err := h.service.DeleteAsset(r.Context(), ActorID(r.Context()), squirrelID, assetID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
