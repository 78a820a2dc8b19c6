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

type RatingTestSuite struct {
	suite.Suite
	client  *apiClient
	alice   uuid.UUID
	bob     uuid.UUID
	movieID string
	slug    string
}

func (suite *RatingTestSuite) SetupSuite() {
	suite.client = newAPIClient()
	suite.alice = uuid.New()
	suite.bob = uuid.New()

	trusted := suite.client.token(uuid.New(), false, true)
	resp, body, err := suite.client.do("POST", "/api/v1/movies", trusted, map[string]any{
		"title":           fmt.Sprintf("Rated Movie %d", time.Now().UnixNano()),
		"year_of_release": 1999,
		"genres":          []string{"Action"},
	})
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var m movieBody
	suite.Require().NoError(json.Unmarshal(body, &m))
	suite.movieID = m.ID
	suite.slug = m.Slug
}

func (suite *RatingTestSuite) TearDownSuite() {
	suite.client.do("DELETE", "/api/v1/movies/"+suite.movieID, suite.client.token(uuid.New(), true, false), nil)
}

func (suite *RatingTestSuite) rate(user uuid.UUID, value int) int {
	resp, _, err := suite.client.do("PUT", "/api/v1/movies/"+suite.movieID+"/ratings",
		suite.client.token(user, false, false), map[string]int{"rating": value})
	suite.Require().NoError(err)
	return resp.StatusCode
}

func (suite *RatingTestSuite) view(user uuid.UUID) movieBody {
	resp, body, err := suite.client.do("GET", "/api/v1/movies/"+suite.slug, suite.client.token(user, false, false), nil)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var m movieBody
	suite.Require().NoError(json.Unmarshal(body, &m))
	return m
}

func (suite *RatingTestSuite) TestRatingFlow() {
	suite.Equal(http.StatusOK, suite.rate(suite.alice, 4))
	suite.Equal(http.StatusOK, suite.rate(suite.bob, 5))
	// Re-rating overwrites
	suite.Equal(http.StatusOK, suite.rate(suite.bob, 5))

	m := suite.view(suite.alice)
	suite.Require().NotNil(m.Rating)
	suite.Equal(4.5, *m.Rating)
	suite.Require().NotNil(m.UserRating)
	suite.Equal(4, *m.UserRating)

	resp, body, err := suite.client.do("GET", "/api/v1/ratings/me", suite.client.token(suite.alice, false, false), nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), suite.slug)

	resp, _, err = suite.client.do("DELETE", "/api/v1/movies/"+suite.movieID+"/ratings", suite.client.token(suite.alice, false, false), nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, _, err = suite.client.do("DELETE", "/api/v1/movies/"+suite.movieID+"/ratings", suite.client.token(suite.alice, false, false), nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	m = suite.view(suite.alice)
	suite.Equal(5.0, *m.Rating)
	suite.Nil(m.UserRating)
}

func (suite *RatingTestSuite) TestRatingRules() {
	suite.Equal(http.StatusBadRequest, suite.rate(suite.alice, 0))
	suite.Equal(http.StatusBadRequest, suite.rate(suite.alice, 6))

	resp, _, err := suite.client.do("PUT", "/api/v1/movies/"+uuid.NewString()+"/ratings",
		suite.client.token(suite.alice, false, false), map[string]int{"rating": 3})
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _, err = suite.client.do("PUT", "/api/v1/movies/"+suite.movieID+"/ratings", "", map[string]int{"rating": 3})
	suite.Require().NoError(err)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}
