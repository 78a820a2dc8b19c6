package movie

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/internal/auth"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type role int

const (
	anonymous role = iota
	member
	trusted
	admin
)

type handlerFixture struct {
	*serviceFixture
	router *gin.Engine
	auth   *auth.Authenticator
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)
	f := newServiceFixture()
	a := auth.NewAuthenticator(&config.JWTConfig{Secret: "test-secret"}, logger.Nop())

	router := gin.New()
	NewHandler(f.svc).RegisterRoutes(router.Group("/api/v1"), Guards{
		Authenticate:  a.Authenticate(),
		TrustedMember: a.RequireTrustedMember(),
		Admin:         a.RequireAdmin(),
	})

	return &handlerFixture{serviceFixture: f, router: router, auth: a}
}

func (f *handlerFixture) do(t *testing.T, method, path string, as role, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, _ := http.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if as != anonymous {
		token, err := f.auth.IssueToken(uuid.New(), as == admin, as == trusted, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateMovie(t *testing.T) {
	body := CreateMovieRequest{Title: "The Matrix", YearOfRelease: 1999, Genres: []string{"Action"}}

	t.Run("Created", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("Create", mock.Anything, mock.Anything).Return(true, nil)
		f.cache.On("EvictTag", mock.Anything, CacheTag).Return(nil)

		w := f.do(t, "POST", "/api/v1/movies", trusted, body)

		require.Equal(t, http.StatusCreated, w.Code)
		var response MovieResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "the-matrix-1999", response.Slug)
		assert.Equal(t, "/api/v1/movies/"+response.ID.String(), w.Header().Get("Location"))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newHandlerFixture()
		w := f.do(t, "POST", "/api/v1/movies", trusted, CreateMovieRequest{Title: "", YearOfRelease: 1999, Genres: []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"title"`)
	})

	t.Run("Conflict", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("Create", mock.Anything, mock.Anything).Return(false, apperrors.Conflict("slug 'the-matrix-1999' already exists"))

		w := f.do(t, "POST", "/api/v1/movies", trusted, body)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Plain member is forbidden", func(t *testing.T) {
		f := newHandlerFixture()
		w := f.do(t, "POST", "/api/v1/movies", member, body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandler_GetMovie(t *testing.T) {
	m := &Movie{ID: uuid.New(), Title: "The Matrix", YearOfRelease: 1999, Genres: []string{"Action"}}

	t.Run("By id", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("GetByID", mock.Anything, m.ID, (*uuid.UUID)(nil)).Return(m, nil)

		w := f.do(t, "GET", "/api/v1/movies/"+m.ID.String(), anonymous, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("By slug with viewer", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("GetBySlug", mock.Anything, "the-matrix-1999", mock.AnythingOfType("*uuid.UUID")).Return(m, nil)

		w := f.do(t, "GET", "/api/v1/movies/the-matrix-1999", member, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("GetBySlug", mock.Anything, "missing-2000", (*uuid.UUID)(nil)).Return(nil, nil)

		w := f.do(t, "GET", "/api/v1/movies/missing-2000", anonymous, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Canceled", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("GetBySlug", mock.Anything, "slow-2000", (*uuid.UUID)(nil)).Return(nil, context.Canceled)

		w := f.do(t, "GET", "/api/v1/movies/slow-2000", anonymous, nil)

		assert.Equal(t, 499, w.Code)
	})
}

func TestHandler_GetMovies(t *testing.T) {
	t.Run("Filters and paging", func(t *testing.T) {
		f := newHandlerFixture()
		year := 1999
		expected := GetAllOptions{Title: "matrix", Year: &year, SortField: SortYear, SortDescending: true, Page: 2, PageSize: 5}
		f.repo.On("GetAll", mock.Anything, expected).Return([]*Movie{}, nil)
		f.repo.On("Count", mock.Anything, "matrix", &year).Return(int64(6), nil)

		w := f.do(t, "GET", "/api/v1/movies?title=matrix&year=1999&sortBy=-year&page=2&pageSize=5", anonymous, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var response MoviesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(6), response.Total)
		assert.Equal(t, 2, response.Pages)
		assert.False(t, response.HasNext)
	})

	t.Run("Bad parameters", func(t *testing.T) {
		f := newHandlerFixture()
		for _, query := range []string{"sortBy=rating", "year=abc", "page=0", "pageSize=26"} {
			w := f.do(t, "GET", "/api/v1/movies?"+query, anonymous, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})

	t.Run("Storage error hides details", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("GetAll", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		w := f.do(t, "GET", "/api/v1/movies", anonymous, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestHandler_UpdateMovie(t *testing.T) {
	id := uuid.New()
	body := UpdateMovieRequest{Title: "The Matrix Reloaded", YearOfRelease: 2003, Genres: []string{"Action"}}

	t.Run("Updated", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("ExistsByID", mock.Anything, id).Return(true, nil)
		f.repo.On("Update", mock.Anything, mock.Anything).Return(true, nil)
		f.ratings.On("GetRatingPair", mock.Anything, id, mock.Anything).Return(nil, nil, nil)
		f.cache.On("EvictTag", mock.Anything, CacheTag).Return(nil)

		w := f.do(t, "PUT", "/api/v1/movies/"+id.String(), trusted, body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "the-matrix-reloaded-2003")
	})

	t.Run("Missing", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("ExistsByID", mock.Anything, id).Return(false, nil)

		w := f.do(t, "PUT", "/api/v1/movies/"+id.String(), trusted, body)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		f := newHandlerFixture()
		w := f.do(t, "PUT", "/api/v1/movies/not-a-uuid", trusted, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_DeleteMovie(t *testing.T) {
	id := uuid.New()

	t.Run("Deleted", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("Delete", mock.Anything, id).Return(true, nil)
		f.cache.On("EvictTag", mock.Anything, CacheTag).Return(nil)

		w := f.do(t, "DELETE", "/api/v1/movies/"+id.String(), admin, nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newHandlerFixture()
		f.repo.On("Delete", mock.Anything, id).Return(false, nil)

		w := f.do(t, "DELETE", "/api/v1/movies/"+id.String(), admin, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Trusted member cannot delete", func(t *testing.T) {
		f := newHandlerFixture()
		w := f.do(t, "DELETE", "/api/v1/movies/"+id.String(), trusted, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
