package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/usecase"
	"usage-telemetry-service/internal/tracking/session"

	"github.com/gofiber/fiber/v2"
)

type fakeSessionService struct {
	PublishWheelFunc func(ctx context.Context, clientID string, events []domain.RawEvent) error
	PublishClickFunc func(ctx context.Context, clientID string, c domain.Click) error
	PublishErrorFunc func(ctx context.Context, clientID string, e domain.ClientError) error
	ExperimentFunc   func(ctx context.Context, clientID string) (domain.Group, error)
	LastErrorFunc    func(clientID string) (domain.DeveloperNotice, bool)

	LastClientID  string
	LastWheel     []domain.RawEvent
	LastClick     domain.Click
	LastClientErr domain.ClientError
}

func (f *fakeSessionService) PublishWheel(ctx context.Context, clientID string, events []domain.RawEvent) error {
	f.LastClientID = clientID
	f.LastWheel = events
	if f.PublishWheelFunc != nil {
		return f.PublishWheelFunc(ctx, clientID, events)
	}
	return nil
}

func (f *fakeSessionService) PublishClick(ctx context.Context, clientID string, c domain.Click) error {
	f.LastClientID = clientID
	f.LastClick = c
	if f.PublishClickFunc != nil {
		return f.PublishClickFunc(ctx, clientID, c)
	}
	return nil
}

func (f *fakeSessionService) PublishError(ctx context.Context, clientID string, e domain.ClientError) error {
	f.LastClientID = clientID
	f.LastClientErr = e
	if f.PublishErrorFunc != nil {
		return f.PublishErrorFunc(ctx, clientID, e)
	}
	return nil
}

func (f *fakeSessionService) Experiment(ctx context.Context, clientID string) (domain.Group, error) {
	f.LastClientID = clientID
	if f.ExperimentFunc != nil {
		return f.ExperimentFunc(ctx, clientID)
	}
	return domain.GroupControl, nil
}

func (f *fakeSessionService) LastError(clientID string) (domain.DeveloperNotice, bool) {
	if f.LastErrorFunc != nil {
		return f.LastErrorFunc(clientID)
	}
	return domain.DeveloperNotice{}, false
}

func setupTestApp(svc SessionService) *fiber.App {
	app := fiber.New()
	NewSessionHandler(svc).Register(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body string) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != "" {
		buf = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func TestPostWheel_Accepted(t *testing.T) {
	svc := &fakeSessionService{}
	app := setupTestApp(svc)

	resp, body := doRequest(t, app, http.MethodPost, "/sessions/client-1/wheel",
		`{"events":[{"time_stamp":100,"delta_y":-3,"owner":"u"},{"time_stamp":250,"delta_y":4,"owner":"u"}]}`)

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, body)
	}
	if svc.LastClientID != "client-1" {
		t.Fatalf("unexpected client id %q", svc.LastClientID)
	}
	if len(svc.LastWheel) != 2 || svc.LastWheel[0].Magnitude != -3 || svc.LastWheel[1].TimeStamp != 250 {
		t.Fatalf("unexpected events %+v", svc.LastWheel)
	}

	var out AcceptedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected count 2, got %d", out.Count)
	}
}

func TestPostWheel_MissingNumbersBecomeNaN(t *testing.T) {
	svc := &fakeSessionService{}
	app := setupTestApp(svc)

	resp, _ := doRequest(t, app, http.MethodPost, "/sessions/c/wheel", `{"events":[{"owner":"u"}]}`)

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	e := svc.LastWheel[0]
	if !math.IsNaN(e.Magnitude) || !math.IsNaN(e.TimeStamp) {
		t.Fatalf("expected NaN fields, got %+v", e)
	}
}

func TestPostWheel_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"events":`, "invalid_json"},
		{"empty list", `{"events":[]}`, "events_list_required"},
		{"missing list", `{}`, "events_list_required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeSessionService{}
			resp, body := doRequest(t, setupTestApp(svc), http.MethodPost, "/sessions/c/wheel", tc.body)

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var out ErrorResponse
			_ = json.Unmarshal(body, &out)
			if out.Error != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, out.Error)
			}
			if svc.LastWheel != nil {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestPostWheel_InvalidClientID(t *testing.T) {
	svc := &fakeSessionService{
		PublishWheelFunc: func(ctx context.Context, clientID string, events []domain.RawEvent) error {
			return session.ErrInvalidClientID
		},
	}
	resp, _ := doRequest(t, setupTestApp(svc), http.MethodPost, "/sessions/x/wheel", `{"events":[{"delta_y":1}]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPostClick_MapsTargetChain(t *testing.T) {
	svc := &fakeSessionService{}
	app := setupTestApp(svc)

	resp, body := doRequest(t, app, http.MethodPost, "/sessions/c/clicks", `{
		"x": 5, "y": 6,
		"target": {"local_name": "span", "text_content": "Reply",
			"parent": {"class_name": "post__body", "parent": {"id": "post-1"}}},
		"screen": {"height": 800, "width": 1280},
		"owner": "https://chat.example/"
	}`)

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, body)
	}
	c := svc.LastClick
	if c.X != 5 || c.Y != 6 || c.ViewHeight != 800 || c.ViewWidth != 1280 {
		t.Fatalf("unexpected click %+v", c)
	}
	if id, ok := c.Target.MostSpecific(domain.AttrID); !ok || id != "post-1" {
		t.Fatalf("expected id from grandparent, got %q", id)
	}
	if class, ok := c.Target.MostSpecific(domain.AttrClassName); !ok || class != "post__body" {
		t.Fatalf("expected class from parent, got %q", class)
	}
}

func TestPostError_AcceptsNumericPositions(t *testing.T) {
	svc := &fakeSessionService{}
	app := setupTestApp(svc)

	resp, _ := doRequest(t, app, http.MethodPost, "/sessions/c/errors",
		`{"msg":"x is undefined","url":"main.js","line":12,"column":"7","stack":"at f"}`)

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	e := svc.LastClientErr
	if e.Message != "x is undefined" || e.Line != "12" || e.Column != "7" || e.Stack != "at f" {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestPostError_MissingPositionsLogAsUndefined(t *testing.T) {
	svc := &fakeSessionService{}
	app := setupTestApp(svc)

	resp, _ := doRequest(t, app, http.MethodPost, "/sessions/c/errors",
		`{"msg":"Script error.","url":"lib.js","line":null}`)

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	want := "msg: Script error. row: undefined col: undefined stack:  url: lib.js"
	if got := svc.LastClientErr.LogEntry().Message; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetExperiment(t *testing.T) {
	svc := &fakeSessionService{
		ExperimentFunc: func(ctx context.Context, clientID string) (domain.Group, error) {
			return domain.GroupTreatment, nil
		},
	}
	resp, body := doRequest(t, setupTestApp(svc), http.MethodGet, "/sessions/c/experiment", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out ExperimentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Key != domain.ExperimentKey || out.Group != "treatment" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestGetExperiment_StoreError(t *testing.T) {
	svc := &fakeSessionService{
		ExperimentFunc: func(ctx context.Context, clientID string) (domain.Group, error) {
			return "", fmt.Errorf("%w: read EXPERIMENT1_GROUP: db down", usecase.ErrBucketStore)
		},
	}
	resp, body := doRequest(t, setupTestApp(svc), http.MethodGet, "/sessions/c/experiment", "")

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var out ErrorResponse
	_ = json.Unmarshal(body, &out)
	if out.Error != "experiment_store_unavailable" {
		t.Fatalf("unexpected error code %q", out.Error)
	}
}

func TestGetLastError(t *testing.T) {
	svc := &fakeSessionService{
		LastErrorFunc: func(clientID string) (domain.DeveloperNotice, bool) {
			if clientID != "known" {
				return domain.DeveloperNotice{}, false
			}
			return domain.DeveloperNotice{Type: "developer", Message: "DEVELOPER MODE"}, true
		},
	}
	app := setupTestApp(svc)

	resp, _ := doRequest(t, app, http.MethodGet, "/sessions/unknown/last-error", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, body := doRequest(t, app, http.MethodGet, "/sessions/known/last-error", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out LastErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Type != "developer" {
		t.Fatalf("unexpected notice %+v", out)
	}
}

func TestLooseValue(t *testing.T) {
	cases := map[string]string{
		`"12"`: "12",
		`12`:   "12",
		`12.5`: "12.5",
		`null`: "",
	}
	for in, want := range cases {
		var v LooseValue
		if err := json.Unmarshal([]byte(in), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if string(v) != want {
			t.Errorf("%s: expected %q, got %q", in, want, v)
		}
	}
}
