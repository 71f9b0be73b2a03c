package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStream_Endpoint(t *testing.T) {
	t.Parallel()

	srv, app, db := newTestServer(t)
	token, _ := registerTeacher(t, app, "Stream Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-101", Kurs: "1"}).Error)

	// teacherId falls back to the authenticated user
	resp, body := doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title":     "Unit 4 review",
		"classRoom": "204",
		"group":     "ENG-101",
		"science":   "Listening",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	assert.Equal(t, "li-stub-1", body["streamId"])
	assert.Equal(t, false, body["isStart"])

	provider := srv.provider.(*stubProvider)
	assert.Equal(t, 1, provider.createCalls)

	// unauthenticated requests are rejected before touching the provider
	resp, _ = doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title": "No auth", "group": "ENG-101",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, provider.createCalls)
}

func TestStreamLifecycle_Endpoint(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	token, _ := registerTeacher(t, app, "Lifecycle Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-102", Kurs: "1"}).Error)

	resp, created := doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title": "Lifecycle", "classRoom": "101", "group": "ENG-102",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	streamID := int(created["id"].(float64))

	resp, body := doJSON(t, app, http.MethodPut,
		"/streams/"+strconv.Itoa(streamID)+"/start", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isStart"])

	// live listing picks it up
	resp, list := doJSONList(t, app, "/streams/live")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)

	resp, body = doJSON(t, app, http.MethodPut,
		"/streams/"+strconv.Itoa(streamID)+"/ended", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isEnded"])
	assert.NotEmpty(t, body["endedTime"])

	resp, list = doJSONList(t, app, "/streams/live")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list)

	// invalid id is a 400, unknown id a 404
	resp, _ = doJSON(t, app, http.MethodPut, "/streams/abc/start", nil, bearer(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPut, "/streams/9999/start", nil, bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamFeedback_Endpoint(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	ownerToken, _ := registerTeacher(t, app, "Owner Teacher")
	_, rater := registerTeacher(t, app, "Rater Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-103", Kurs: "2"}).Error)

	resp, created := doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title": "Rated", "classRoom": "101", "group": "ENG-103",
	}, bearer(ownerToken))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	streamID := strconv.Itoa(int(created["id"].(float64)))
	raterID := int(rater["id"].(float64))

	resp, body := doJSON(t, app, http.MethodPost, "/stream/"+streamID+"/feedback", map[string]any{
		"raterId": raterID, "rate": 4, "feedback": "solid lesson",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	assert.Equal(t, 4.0, body["totalRating"])

	// one rating per rater
	resp, _ = doJSON(t, app, http.MethodPost, "/stream/"+streamID+"/feedback", map[string]any{
		"raterId": raterID, "rate": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/stream/"+streamID+"/feedbacks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["feedbacks"], 1)
	assert.Equal(t, 4.0, body["averageRating"])

	// mark all read
	resp, body = doJSON(t, app, http.MethodPut, "/streams/"+streamID+"/read", nil, bearer(ownerToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Feedbacks marked as read", body["message"])
}

func TestWebhook_Endpoint(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	token, _ := registerTeacher(t, app, "Webhook Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-104", Kurs: "2"}).Error)

	resp, created := doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title": "Hooked", "classRoom": "101", "group": "ENG-104",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	liveStreamID := created["streamId"].(string)
	streamID := strconv.Itoa(int(created["id"].(float64)))

	resp, _ = doJSON(t, app, http.MethodPost, "/webhook", map[string]any{
		"type":         models.WebhookBroadcastStarted,
		"liveStreamId": liveStreamID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := doJSON(t, app, http.MethodGet, "/streams/"+streamID, nil)
	assert.Equal(t, true, body["isStart"])

	// unknown event type is acknowledged
	resp, _ = doJSON(t, app, http.MethodPost, "/webhook", map[string]any{
		"type":         "video.source.recorded",
		"liveStreamId": liveStreamID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// known type for a stream that does not exist is archived and acknowledged
	resp, _ = doJSON(t, app, http.MethodPost, "/webhook", map[string]any{
		"type":         models.WebhookBroadcastEnded,
		"liveStreamId": "li-missing",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var archived int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).
		Where("live_stream_id = ?", "li-missing").Count(&archived).Error)
	assert.EqualValues(t, 1, archived)
}

func TestGetProviderToken_Endpoint(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodGet, "/get-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "stub-token", body["token"])
}

func TestStreamViewers_Endpoint(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	token, _ := registerTeacher(t, app, "Viewer Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-105", Kurs: "3"}).Error)

	resp, created := doJSON(t, app, http.MethodPost, "/create-stream", map[string]any{
		"title": "Watched", "classRoom": "101", "group": "ENG-105",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	streamID := strconv.Itoa(int(created["id"].(float64)))

	viewer := map[string]any{"id": 7, "name": "Aziza", "science": "Listening"}

	resp, body := doJSON(t, app, http.MethodPost, "/streams/"+streamID+"/viewers", viewer)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)

	resp, _ = doJSON(t, app, http.MethodPost, "/streams/"+streamID+"/viewers", viewer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
