package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
	"github.com/acornlabs/squirreldex/pkg/squirreldex/api"
	"github.com/acornlabs/squirreldex/pkg/squirreldex/repo/memory"
	memorystorage "github.com/acornlabs/squirreldex/pkg/squirreldex/storage/memory"
)

func setupRouter(t *testing.T) (chi.Router, *jwtauth.JWTAuth) {
	t.Helper()

	svc, err := squirreldex.New(
		squirreldex.WithRepository(memory.New()),
		squirreldex.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	return api.NewRouter(svc, tokenAuth, slog.Default()), tokenAuth
}

func authHeader(t *testing.T, tokenAuth *jwtauth.JWTAuth) string {
	t.Helper()

	_, tokenString, err := tokenAuth.Encode(map[string]interface{}{"sub": "user-1"})
	require.NoError(t, err)
	return "Bearer " + tokenString
}

func squirrelBody() map[string]interface{} {
	return map[string]interface{}{
		"scientific_name":  "Sciurus anomalus",
		"common_name":      "Caucasian squirrel",
		"description":      "A tree squirrel native to southwestern Asia.",
		"female_size":      "213mm",
		"male_size":        "216mm",
		"distribution":     "Turkey, Georgia, Armenia",
		"variations":       []string{"S. a. anomalus"},
		"conservation":     "Least Concern",
		"population_trend": "Decreasing",
		"habitat":          "Deciduous forests",
	}
}

func doJSON(t *testing.T, router chi.Router, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSquirrel(t *testing.T, router chi.Router, auth string) int64 {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/squirrels", auth, squirrelBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.SquirrelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Squirrel.ID
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSquirrelHandler(t *testing.T) {
	router, tokenAuth := setupRouter(t)
	auth := authHeader(t, tokenAuth)

	t.Run("Created", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/squirrels", auth, squirrelBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.SquirrelResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotZero(t, resp.Squirrel.ID)
		assert.Equal(t, "Sciurus anomalus", resp.Squirrel.ScientificName)
		assert.NotNil(t, resp.Squirrel.Assets)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/squirrels", "", squirrelBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		body := squirrelBody()
		delete(body, "habitat")
		rec := doJSON(t, router, http.MethodPost, "/squirrels", auth, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("TooManyVariations", func(t *testing.T) {
		variations := make([]string, squirreldex.MaxVariations+1)
		for i := range variations {
			variations[i] = fmt.Sprintf("variation %d", i)
		}
		body := squirrelBody()
		body["variations"] = variations
		rec := doJSON(t, router, http.MethodPost, "/squirrels", auth, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetSquirrelHandler(t *testing.T) {
	router, tokenAuth := setupRouter(t)
	auth := authHeader(t, tokenAuth)
	id := createSquirrel(t, router, auth)

	t.Run("Found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/squirrels/%d", id), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.SquirrelResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, id, resp.Squirrel.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/squirrels/99999", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/squirrels/acorn", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListSquirrelsHandler(t *testing.T) {
	router, tokenAuth := setupRouter(t)
	auth := authHeader(t, tokenAuth)

	for i := 0; i < 12; i++ {
		body := squirrelBody()
		body["scientific_name"] = fmt.Sprintf("Sciurus %02d", i)
		rec := doJSON(t, router, http.MethodPost, "/squirrels", auth, body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("DefaultPage", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/squirrels", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Squirrels, 10)
		assert.Equal(t, 12, resp.Pagination.TotalRecords)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
		assert.True(t, resp.Pagination.HasNext)
	})

	t.Run("SecondPage", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/squirrels?page=2&pageSize=10", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Squirrels, 2)
		assert.True(t, resp.Pagination.HasPrevious)
		assert.False(t, resp.Pagination.HasNext)
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		for _, query := range []string{"pageSize=15", "pageSize=110", "pageSize=-10", "page=0"} {
			rec := doJSON(t, router, http.MethodGet, "/squirrels?"+query, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		}
	})
}

func TestUpdateSquirrelHandler(t *testing.T) {
	router, tokenAuth := setupRouter(t)
	auth := authHeader(t, tokenAuth)
	id := createSquirrel(t, router, auth)

	t.Run("PartialUpdate", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/squirrels/%d", id), auth,
			map[string]interface{}{"population_trend": "Stable"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.SquirrelResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Stable", resp.Squirrel.PopulationTrend)
		assert.Equal(t, "Sciurus anomalus", resp.Squirrel.ScientificName)
	})

	t.Run("EmptyProvidedField", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/squirrels/%d", id), auth,
			map[string]interface{}{"habitat": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/squirrels/99999", auth,
			map[string]interface{}{"population_trend": "Stable"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/squirrels/%d", id), "",
			map[string]interface{}{"population_trend": "Stable"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDeleteSquirrelHandler(t *testing.T) {
	router, tokenAuth := setupRouter(t)
	auth := authHeader(t, tokenAuth)
	id := createSquirrel(t, router, auth)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/squirrels/%d", id), auth, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/squirrels/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/squirrels/%d", id), auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
