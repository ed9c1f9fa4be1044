package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// SquirrelHandler handles HTTP requests for squirrels
type SquirrelHandler struct {
	service squirreldex.Service
}

// NewSquirrelHandler creates a new squirrel handler
func NewSquirrelHandler(service squirreldex.Service) *SquirrelHandler {
	return &SquirrelHandler{service: service}
}

// ListResponse is the response body for listing squirrels
type ListResponse struct {
	Squirrels  []*squirreldex.Squirrel `json:"squirrels"`
	Pagination squirreldex.PageInfo    `json:"pagination"`
}

// SquirrelResponse is the response body wrapping a single squirrel
type SquirrelResponse struct {
	Squirrel *squirreldex.Squirrel `json:"squirrel"`
}

// CreateSquirrelRequest is the request body for creating a squirrel
type CreateSquirrelRequest struct {
	ScientificName  string   `json:"scientific_name"`
	CommonName      string   `json:"common_name"`
	Description     string   `json:"description"`
	FemaleSize      string   `json:"female_size"`
	MaleSize        string   `json:"male_size"`
	Distribution    string   `json:"distribution"`
	Variations      []string `json:"variations"`
	Conservation    string   `json:"conservation"`
	PopulationTrend string   `json:"population_trend"`
	Habitat         string   `json:"habitat"`
	General         *string  `json:"general"`
}

func (req *CreateSquirrelRequest) validate() error {
	required := map[string]string{
		"scientific_name":  req.ScientificName,
		"common_name":      req.CommonName,
		"description":      req.Description,
		"female_size":      req.FemaleSize,
		"male_size":        req.MaleSize,
		"distribution":     req.Distribution,
		"conservation":     req.Conservation,
		"population_trend": req.PopulationTrend,
		"habitat":          req.Habitat,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if len(req.Variations) > squirreldex.MaxVariations {
		return fmt.Errorf("at most %d variations are allowed", squirreldex.MaxVariations)
	}
	for _, v := range req.Variations {
		if v == "" {
			return fmt.Errorf("variations must not contain empty values")
		}
	}
	return nil
}

// UpdateSquirrelRequest is the request body for a partial squirrel update.
// Absent fields are left unchanged.
type UpdateSquirrelRequest struct {
	ScientificName  *string   `json:"scientific_name"`
	CommonName      *string   `json:"common_name"`
	Description     *string   `json:"description"`
	FemaleSize      *string   `json:"female_size"`
	MaleSize        *string   `json:"male_size"`
	Distribution    *string   `json:"distribution"`
	Variations      *[]string `json:"variations"`
	Conservation    *string   `json:"conservation"`
	PopulationTrend *string   `json:"population_trend"`
	Habitat         *string   `json:"habitat"`
	General         *string   `json:"general"`
}

func (req *UpdateSquirrelRequest) validate() error {
	provided := map[string]*string{
		"scientific_name":  req.ScientificName,
		"common_name":      req.CommonName,
		"description":      req.Description,
		"female_size":      req.FemaleSize,
		"male_size":        req.MaleSize,
		"distribution":     req.Distribution,
		"conservation":     req.Conservation,
		"population_trend": req.PopulationTrend,
		"habitat":          req.Habitat,
	}
	for field, value := range provided {
		if value != nil && *value == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
	}
	if req.Variations != nil {
		if len(*req.Variations) > squirreldex.MaxVariations {
			return fmt.Errorf("at most %d variations are allowed", squirreldex.MaxVariations)
		}
		for _, v := range *req.Variations {
			if v == "" {
				return fmt.Errorf("variations must not contain empty values")
			}
		}
	}
	return nil
}

// ListSquirrels handles GET /squirrels
func (h *SquirrelHandler) ListSquirrels(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	squirrels, info, err := h.service.ListSquirrels(r.Context(), page)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Squirrels: squirrels, Pagination: info})
}

// GetSquirrel handles GET /squirrels/{id}
func (h *SquirrelHandler) GetSquirrel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		renderBadRequest(w, r, "invalid squirrel id")
		return
	}

	squirrel, err := h.service.GetSquirrel(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, SquirrelResponse{Squirrel: squirrel})
}

// CreateSquirrel handles POST /squirrels
func (h *SquirrelHandler) CreateSquirrel(w http.ResponseWriter, r *http.Request) {
	var req CreateSquirrelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	squirrel, err := h.service.CreateSquirrel(r.Context(), ActorID(r.Context()), squirreldex.CreateSquirrelParams{
		ScientificName:  req.ScientificName,
		CommonName:      req.CommonName,
		Description:     req.Description,
		FemaleSize:      req.FemaleSize,
		MaleSize:        req.MaleSize,
		Distribution:    req.Distribution,
		Variations:      req.Variations,
		Conservation:    req.Conservation,
		PopulationTrend: req.PopulationTrend,
		Habitat:         req.Habitat,
		General:         req.General,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SquirrelResponse{Squirrel: squirrel})
}

// UpdateSquirrel handles PATCH /squirrels/{id}
func (h *SquirrelHandler) UpdateSquirrel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		renderBadRequest(w, r, "invalid squirrel id")
		return
	}

	var req UpdateSquirrelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	squirrel, err := h.service.UpdateSquirrel(r.Context(), ActorID(r.Context()), id, squirreldex.UpdateSquirrelParams{
		ScientificName:  req.ScientificName,
		CommonName:      req.CommonName,
		Description:     req.Description,
		FemaleSize:      req.FemaleSize,
		MaleSize:        req.MaleSize,
		Distribution:    req.Distribution,
		Variations:      req.Variations,
		Conservation:    req.Conservation,
		PopulationTrend: req.PopulationTrend,
		Habitat:         req.Habitat,
		General:         req.General,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, SquirrelResponse{Squirrel: squirrel})
}

// DeleteSquirrel handles DELETE /squirrels/{id}
func (h *SquirrelHandler) DeleteSquirrel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		renderBadRequest(w, r, "invalid squirrel id")
		return
	}

	if err := h.service.DeleteSquirrel(r.Context(), ActorID(r.Context()), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

// parsePageRequest reads page and pageSize query parameters, applying
// defaults and the schema bounds (page >= 1, pageSize a multiple of 10 in
// [0, 100]).
func parsePageRequest(r *http.Request) (squirreldex.Page, error) {
	page := squirreldex.DefaultPageRequest()

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return squirreldex.Page{}, fmt.Errorf("page must be a positive integer")
		}
		page.Page = n
	}

	if v := r.URL.Query().Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > squirreldex.MaxPageSize || n%10 != 0 {
			return squirreldex.Page{}, fmt.Errorf("pageSize must be a multiple of 10 between 0 and %d", squirreldex.MaxPageSize)
		}
		page.PageSize = n
	}

	return page, nil
}
