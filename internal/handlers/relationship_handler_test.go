package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-app/backend/internal/access"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
	"github.com/carelink-app/backend/internal/validators"
)

func newRelationshipTestHandler() (*echo.Echo, *RelationshipHandler, *repositories.MemoryRelationshipRepository) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := repositories.NewMemoryRelationshipRepository()
	guard := access.NewGuard(repo, access.NewMemoryAuthzCache(), logger)

	h := NewRelationshipHandler(repo, nil, guard, nil)
	return e, h, repo
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestCreateRelationship(t *testing.T) {
	e, h, _ := newRelationshipTestHandler()

	c, rec := jsonContext(e, http.MethodPost, "/api/v1/relationships", `{"caregiverId":1,"recipientId":2}`)
	require.NoError(t, h.CreateRelationship(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var rel models.CareRelationship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rel))
	assert.Equal(t, models.RelationshipPending, rel.Status)
	assert.Equal(t, uint(1), rel.CaregiverID)
	assert.Equal(t, uint(2), rel.RecipientID)
	assert.Nil(t, rel.RespondedAt)
}

func TestCreateRelationshipDuplicate(t *testing.T) {
	e, h, _ := newRelationshipTestHandler()

	c, _ := jsonContext(e, http.MethodPost, "/api/v1/relationships", `{"caregiverId":1,"recipientId":2}`)
	require.NoError(t, h.CreateRelationship(c))

	c2, _ := jsonContext(e, http.MethodPost, "/api/v1/relationships", `{"caregiverId":1,"recipientId":2}`)
	err := h.CreateRelationship(c2)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestCreateRelationshipMissingFields(t *testing.T) {
	e, h, _ := newRelationshipTestHandler()

	c, _ := jsonContext(e, http.MethodPost, "/api/v1/relationships", `{"caregiverId":1}`)
	err := h.CreateRelationship(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestRespondToRelationship(t *testing.T) {
	e, h, repo := newRelationshipTestHandler()

	rel, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)

	c, rec := jsonContext(e, http.MethodPatch, "/", `{"decision":"accepted"}`)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(rel.ID)))
	require.NoError(t, h.RespondToRelationship(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var decided models.CareRelationship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.Equal(t, models.RelationshipAccepted, decided.Status)
	assert.NotNil(t, decided.RespondedAt)
}

func TestRespondToRelationshipNotFound(t *testing.T) {
	e, h, _ := newRelationshipTestHandler()

	c, _ := jsonContext(e, http.MethodPatch, "/", `{"decision":"accepted"}`)
	c.SetParamNames("id")
	c.SetParamValues("99")
	err := h.RespondToRelationship(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestRespondToRelationshipAlreadyDecided(t *testing.T) {
	e, h, repo := newRelationshipTestHandler()

	rel, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = repo.Respond(context.Background(), rel.ID, models.RelationshipRejected)
	require.NoError(t, err)

	c, _ := jsonContext(e, http.MethodPatch, "/", `{"decision":"accepted"}`)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(rel.ID)))
	err = h.RespondToRelationship(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestRespondToRelationshipInvalidDecision(t *testing.T) {
	e, h, repo := newRelationshipTestHandler()

	rel, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)

	c, _ := jsonContext(e, http.MethodPatch, "/", `{"decision":"blocked"}`)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(rel.ID)))
	err = h.RespondToRelationship(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestListRecipientRelationships(t *testing.T) {
	e, h, repo := newRelationshipTestHandler()
	ctx := context.Background()

	first, err := repo.Create(ctx, 1, 9)
	require.NoError(t, err)
	second, err := repo.Create(ctx, 2, 9)
	require.NoError(t, err)
	_, err = repo.Respond(ctx, second.ID, models.RelationshipAccepted)
	require.NoError(t, err)

	// default view is the pending queue
	c, rec := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.ListRecipientRelationships(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pending []models.CareRelationship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	// accepted view
	c2, rec2 := jsonContext(e, http.MethodGet, "/?status=accepted", "")
	c2.SetParamNames("id")
	c2.SetParamValues("9")
	require.NoError(t, h.ListRecipientRelationships(c2))

	var accepted []models.CareRelationship
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &accepted))
	require.Len(t, accepted, 1)
	assert.Equal(t, second.ID, accepted[0].ID)

	// unknown status filter
	c3, _ := jsonContext(e, http.MethodGet, "/?status=bogus", "")
	c3.SetParamNames("id")
	c3.SetParamValues("9")
	err = h.ListRecipientRelationships(c3)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}
