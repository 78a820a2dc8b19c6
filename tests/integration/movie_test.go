//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type movieBody struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	YearOfRelease int      `json:"year_of_release"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating"`
	UserRating    *int     `json:"user_rating"`
}

type MovieTestSuite struct {
	suite.Suite
	client  *apiClient
	trusted string
	admin   string
	title   string
}

func (suite *MovieTestSuite) SetupSuite() {
	suite.client = newAPIClient()
	suite.trusted = suite.client.token(uuid.New(), false, true)
	suite.admin = suite.client.token(uuid.New(), true, false)
	// Unique per run so reruns against the same database do not collide
	suite.title = fmt.Sprintf("Integration Movie %d", time.Now().UnixNano())
}

func (suite *MovieTestSuite) create(title string, year int, genres ...string) movieBody {
	resp, body, err := suite.client.do("POST", "/api/v1/movies", suite.trusted, map[string]any{
		"title": title, "year_of_release": year, "genres": genres,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var m movieBody
	suite.Require().NoError(json.Unmarshal(body, &m))
	return m
}

func (suite *MovieTestSuite) TestMovieLifecycle() {
	created := suite.create(suite.title, 1999, "Action", "Sci-Fi")
	suite.NotEmpty(created.ID)
	suite.ElementsMatch([]string{"Action", "Sci-Fi"}, created.Genres)

	// Lookup by slug and by id
	resp, body, err := suite.client.do("GET", "/api/v1/movies/"+created.Slug, "", nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, _, err = suite.client.do("GET", "/api/v1/movies/"+created.ID, "", nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)

	// Duplicate slug
	resp, _, err = suite.client.do("POST", "/api/v1/movies", suite.trusted, map[string]any{
		"title": suite.title, "year_of_release": 1999, "genres": []string{},
	})
	suite.Require().NoError(err)
	suite.Equal(http.StatusConflict, resp.StatusCode)

	// Update replaces the genre set and the slug
	resp, body, err = suite.client.do("PUT", "/api/v1/movies/"+created.ID, suite.trusted, map[string]any{
		"title": suite.title + " Reloaded", "year_of_release": 2003, "genres": []string{"Thriller"},
	})
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var updated movieBody
	suite.Require().NoError(json.Unmarshal(body, &updated))
	suite.Equal([]string{"Thriller"}, updated.Genres)
	suite.NotEqual(created.Slug, updated.Slug)

	// Cached slug lookups see the change
	resp, _, err = suite.client.do("GET", "/api/v1/movies/"+created.Slug, "", nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	// Delete, then delete again
	resp, _, err = suite.client.do("DELETE", "/api/v1/movies/"+created.ID, suite.admin, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNoContent, resp.StatusCode)

	resp, _, err = suite.client.do("DELETE", "/api/v1/movies/"+created.ID, suite.admin, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *MovieTestSuite) TestValidationAndAuthorization() {
	resp, body, err := suite.client.do("POST", "/api/v1/movies", suite.trusted, map[string]any{
		"title": "", "year_of_release": 1500, "genres": []string{},
	})
	suite.Require().NoError(err)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(string(body), "title")
	suite.Contains(string(body), "year_of_release")

	resp, _, err = suite.client.do("POST", "/api/v1/movies", "", map[string]any{
		"title": "Anonymous", "year_of_release": 2000, "genres": []string{},
	})
	suite.Require().NoError(err)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)

	member := suite.client.token(uuid.New(), false, false)
	resp, _, err = suite.client.do("POST", "/api/v1/movies", member, map[string]any{
		"title": "Member", "year_of_release": 2000, "genres": []string{},
	})
	suite.Require().NoError(err)
	suite.Equal(http.StatusForbidden, resp.StatusCode)
}

func (suite *MovieTestSuite) TestListing() {
	created := suite.create(suite.title+" Listing", 2001, "Drama")
	defer suite.client.do("DELETE", "/api/v1/movies/"+created.ID, suite.admin, nil)

	resp, body, err := suite.client.do("GET", "/api/v1/movies?title=listing&year=2001&sortBy=-title&pageSize=5", "", nil)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var list struct {
		Movies []movieBody `json:"movies"`
		Total  int64       `json:"total"`
	}
	suite.Require().NoError(json.Unmarshal(body, &list))
	suite.GreaterOrEqual(list.Total, int64(1))

	found := false
	for _, m := range list.Movies {
		if m.ID == created.ID {
			found = true
			suite.Equal([]string{"Drama"}, m.Genres)
		}
	}
	suite.True(found)

	resp, _, err = suite.client.do("GET", "/api/v1/movies?sortBy=rating", "", nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}
