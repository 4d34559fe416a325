package oppgave

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"oppgave-sync/feature/oppgave/client/mocks"
	"oppgave-sync/feature/oppgave/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.OppgaveClient) {
	t.Helper()

	engine, mockClient, _ := setupEngine(t)
	app := fiber.New()
	NewHandler(engine).RegisterRoutes(app)
	return app, mockClient
}

func TestHandleBatchUpdate_EmptyBodyRunsDefaults(t *testing.T) {
	app, mockClient := setupTestApp(t)

	page := models.OppgaveResponse{AntallTreffTotalt: 1, Oppgaver: []models.Oppgave{
		testOppgave(1, "viser til § 8-4", ""),
	}}
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 0).Return(page, nil)
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 2).Return(models.OppgaveResponse{}, nil)
	mockClient.On("PutOppgave", mock.Anything, mock.Anything).Return(models.Oppgave{}, nil)

	req := httptest.NewRequest("POST", "/batchupdate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.BatchUpdateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.StatusOK, body.Status)
	assert.Equal(t, "1 stored out of 1", body.Message)
	assert.NotEmpty(t, body.Finished)
}

func TestHandleBatchUpdate_DryRunBody(t *testing.T) {
	app, mockClient := setupTestApp(t)

	page := models.OppgaveResponse{AntallTreffTotalt: 1, Oppgaver: []models.Oppgave{
		testOppgave(1, "viser til § 8-4", ""),
	}}
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 0).Return(page, nil)
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 2).Return(models.OppgaveResponse{}, nil)

	payload, _ := json.Marshal(models.BatchUpdateRequest{DryRun: true})
	req := httptest.NewRequest("POST", "/batchupdate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	mockClient.AssertNotCalled(t, "PutOppgave")
}

func TestHandleBatchUpdate_FetchFailureIs502(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 0).
		Return(models.OppgaveResponse{}, errors.New("remote unavailable"))

	req := httptest.NewRequest("POST", "/batchupdate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)

	var body models.BatchUpdateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.StatusError, body.Status)
}

func TestHandleBatchUpdate_InvalidBody(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/batchupdate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleBatchStore(t *testing.T) {
	app, mockClient := setupTestApp(t)

	page := models.OppgaveResponse{AntallTreffTotalt: 1, Oppgaver: []models.Oppgave{
		testOppgave(31, "viser til § 8-4", ""),
	}}
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 0).Return(page, nil)
	mockClient.On("FetchOppgaver", mock.Anything, mock.Anything, 2).Return(models.OppgaveResponse{}, nil)

	req := httptest.NewRequest("POST", "/batchstore", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body models.BatchStoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.StatusOK, body.Status)
	assert.Equal(t, "1 stored out of 1", body.Message)
}
