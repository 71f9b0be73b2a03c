package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Shukurulla/stream-service/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadFile(t *testing.T, app *fiber.App, fields map[string]string, filename, content, token string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/create", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func TestCreateFile_Endpoint(t *testing.T) {
	t.Parallel()

	srv, app, db := newTestServer(t)
	token, teacher := registerTeacher(t, app, "File Teacher")
	group := models.Group{Name: "ENG-401", Kurs: "4"}
	require.NoError(t, db.Create(&group).Error)

	resp, body := uploadFile(t, app, map[string]string{
		"title":       "Homework sheet",
		"description": "Unit 5 exercises",
		"teacherId":   strconv.Itoa(int(teacher["id"].(float64))),
		"groupId":     "1",
	}, "homework.pdf", "%PDF-1.4 fake", token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	assert.Equal(t, "Homework sheet", body["title"])
	assert.Contains(t, body["fileUrl"], "/uploads/")
	assert.True(t, strings.HasSuffix(body["fileUrl"].(string), ".pdf"))
	assert.Equal(t, "File Teacher", body["from"].(map[string]any)["name"])

	// the binary actually landed in the upload directory
	stored := filepath.Base(body["fileUrl"].(string))
	data, err := os.ReadFile(filepath.Join(srv.config.UploadDir, stored))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))

	resp, list := doJSONList(t, app, "/files/all?groupId=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)
}

func TestCreateFile_Validation(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	token, teacher := registerTeacher(t, app, "Strict Teacher")
	require.NoError(t, db.Create(&models.Group{Name: "ENG-402", Kurs: "4"}).Error)
	teacherID := strconv.Itoa(int(teacher["id"].(float64)))

	// missing title
	resp, _ := uploadFile(t, app, map[string]string{
		"teacherId": teacherID, "groupId": "1",
	}, "a.txt", "x", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// missing binary
	resp, _ = uploadFile(t, app, map[string]string{
		"title": "No file", "teacherId": teacherID, "groupId": "1",
	}, "", "", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// group that does not exist
	resp, _ = uploadFile(t, app, map[string]string{
		"title": "Bad group", "teacherId": teacherID, "groupId": "99",
	}, "a.txt", "x", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
