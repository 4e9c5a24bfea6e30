package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formforge/internal/model"
	"formforge/internal/service"
	"formforge/internal/transport/rest"
)

type memRepo struct {
	forms  map[string]*model.Form
	nextID int
	order  []string
}

func (r *memRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.nextID++
	id := fmt.Sprintf("form_%d", r.nextID)
	form.ID = id
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	clone := *form
	r.forms[id] = &clone
	r.order = append(r.order, id)
	return id, nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	clone := *form
	return &clone, nil
}

func (r *memRepo) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	existing, ok := r.forms[form.ID]
	if !ok {
		return nil, nil
	}
	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now()
	clone := *form
	r.forms[form.ID] = &clone
	return form, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.forms[id]; !ok {
		return false, nil
	}
	delete(r.forms, id)
	return true, nil
}

func (r *memRepo) List(ctx context.Context) ([]*model.Form, error) {
	forms := make([]*model.Form, 0, len(r.forms))
	for i := len(r.order) - 1; i >= 0; i-- {
		if form, ok := r.forms[r.order[i]]; ok {
			clone := *form
			forms = append(forms, &clone)
		}
	}
	return forms, nil
}

type memCache struct {
	forms map[string]*model.Form
}

func (c *memCache) Set(ctx context.Context, form *model.Form) error {
	c.forms[form.ID] = form
	return nil
}

func (c *memCache) Get(ctx context.Context, id string) (*model.Form, error) {
	return c.forms[id], nil
}

func (c *memCache) Delete(ctx context.Context, id string) error {
	delete(c.forms, id)
	return nil
}

func newTestServer() *httptest.Server {
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := &memRepo{forms: make(map[string]*model.Form)}
	fc := &memCache{forms: make(map[string]*model.Form)}
	svc := service.NewFormService(repo, fc, log)

	return httptest.NewServer(rest.NewRouter(&rest.Container{
		FormService: svc,
		Logger:      log,
	}))
}

const createBody = `{
	"title": "Geography quiz",
	"description": "One question",
	"questions": [
		{
			"type": "mcq",
			"questionText": "Capital of France?",
			"points": 10,
			"options": [
				{"text": "London", "isCorrect": false},
				{"text": "Paris", "isCorrect": true}
			]
		}
	]
}`

func createTestForm(t *testing.T, srv *httptest.Server) model.Form {
	t.Helper()

	resp, err := http.Post(srv.URL+"/v1/forms", "application/json", strings.NewReader(createBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var form model.Form
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	require.NotEmpty(t, form.ID)
	return form
}

func TestFormEndpoints_CreateAndGet(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	form := createTestForm(t, srv)
	assert.Equal(t, "Geography quiz", form.Title)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, 0, form.Questions[0].Order)

	resp, err := http.Get(srv.URL + "/v1/forms/" + form.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched model.Form
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, form.ID, fetched.ID)
	assert.Equal(t, "Geography quiz", fetched.Title)
}

func TestFormEndpoints_CreateRejectsBadInput(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"title":`},
		{name: "missing title", body: `{"questions": []}`},
		{name: "negative points", body: `{"title": "x", "questions": [{"type": "mcq", "points": -1}]}`},
		{name: "unknown question type", body: `{"title": "x", "questions": [{"type": "essay", "points": 1}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/forms", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestFormEndpoints_GetNotFound(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/forms/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormEndpoints_Update(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	form := createTestForm(t, srv)

	update := `{"title": "Renamed quiz", "questions": [{"type": "shorttext", "points": 2}]}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/v1/forms/"+form.ID, strings.NewReader(update))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.Form
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Renamed quiz", updated.Title)
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, model.QuestionShortText, updated.Questions[0].Type)

	// Missing id gives 404
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/v1/forms/nope", strings.NewReader(update))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormEndpoints_Delete(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	form := createTestForm(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/forms/"+form.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/forms/" + form.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormEndpoints_List(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	createTestForm(t, srv)
	createTestForm(t, srv)

	resp, err := http.Get(srv.URL + "/v1/forms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Forms []model.Form `json:"forms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Forms, 2)
}

func TestFormEndpoints_Grade(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	form := createTestForm(t, srv)

	submission := `{"answers": {"0": {"optionIndex": 1}}}`
	resp, err := http.Post(srv.URL+"/v1/forms/"+form.ID+"/grade", "application/json", bytes.NewReader([]byte(submission)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grade model.FormGrade
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grade))
	require.Len(t, grade.PerQuestion, 1)
	assert.True(t, grade.PerQuestion[0].IsCorrect)
	assert.Equal(t, 10.0, grade.PerQuestion[0].Score)
	assert.Equal(t, "Correct!", grade.PerQuestion[0].Feedback)
	assert.Equal(t, 10.0, grade.TotalScore)
	assert.Equal(t, 10.0, grade.MaxScore)
}

func TestFormEndpoints_GradeUnanswered(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	form := createTestForm(t, srv)

	resp, err := http.Post(srv.URL+"/v1/forms/"+form.ID+"/grade", "application/json", strings.NewReader(`{"answers": {}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grade model.FormGrade
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grade))
	require.Len(t, grade.PerQuestion, 1)
	assert.False(t, grade.PerQuestion[0].IsCorrect)
	assert.Equal(t, "No answer provided", grade.PerQuestion[0].Feedback)
	assert.Equal(t, 0.0, grade.TotalScore)
	assert.Equal(t, 10.0, grade.MaxScore)
}

func TestFormEndpoints_GradeFormNotFound(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/forms/nope/grade", "application/json", strings.NewReader(`{"answers": {}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
