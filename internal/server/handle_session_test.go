package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/i18n"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/persistence"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/questions"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

type testEnv struct {
	router   chi.Router
	store    *session.Store
	kv       persistence.KV
	language *i18n.Setting
	broker   *Broker
}

func newTestEnv(t *testing.T, kv persistence.KV, opts ...session.Option) *testEnv {
	t.Helper()

	qs, err := questions.Load(questions.DatasetDefault)
	if err != nil {
		t.Fatalf("loading questions: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := NewBroker()
	repo := persistence.NewSessionRepository(kv, farmquest.Levels(), logger)
	store := session.New(repo, questions.NewMemorySource(qs),
		append([]session.Option{session.WithLogger(logger), session.WithNotifier(broker)}, opts...)...)

	setting := i18n.NewSetting(farmquest.DefaultLanguage)
	stop := session.SyncLanguage(setting, store)
	t.Cleanup(stop)

	return &testEnv{
		router:   newRouter(logger, Deps{Store: store, Language: setting, Broker: broker}),
		store:    store,
		kv:       kv,
		language: setting,
		broker:   broker,
	}
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	return newTestEnv(t, persistence.NewMemoryKV()).router
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func (e *testEnv) startSession(t *testing.T, crop string) StateResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/session", InitSessionRequest{PlayerName: "Ana", Crop: crop})
	if rec.Code != http.StatusCreated {
		t.Fatalf("init status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	return decode[StateResponse](t, rec)
}

// brokenKV fails every operation.
type brokenKV struct{}

var errBroken = errors.New("storage offline")

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenKV) Set(context.Context, string, string) error         { return errBroken }
func (brokenKV) Remove(context.Context, string) error              { return errBroken }
func (brokenKV) Check(context.Context) error                       { return errBroken }

func TestGetSession_Empty(t *testing.T) {
	env := newTestEnv(t, persistence.NewMemoryKV())

	rec := env.do(t, http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode[StateResponse](t, rec)
	if resp.Session != nil {
		t.Errorf("session = %+v, want nil", resp.Session)
	}
	if resp.Language != string(farmquest.DefaultLanguage) {
		t.Errorf("language = %q, want %q", resp.Language, farmquest.DefaultLanguage)
	}
}

func TestInitSession(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name:       "valid",
			body:       InitSessionRequest{PlayerName: "Ana", Crop: "corn"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       InitSessionRequest{PlayerName: "  ", Crop: "corn"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown crop",
			body:       InitSessionRequest{PlayerName: "Ana", Crop: "wheat"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, persistence.NewMemoryKV())
			rec := env.do(t, http.MethodPost, "/api/session", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			resp := decode[StateResponse](t, rec)
			if resp.Session == nil {
				t.Fatal("session is nil")
			}
			if resp.Session.PlayerName != "Ana" {
				t.Errorf("playerName = %q, want Ana", resp.Session.PlayerName)
			}
			if len(resp.Session.CropProgress) != 3 {
				t.Errorf("cropProgress has %d crops, want 3", len(resp.Session.CropProgress))
			}
			if got := resp.Session.CropProgress["potato"].LevelsProgress[1].Status; got != "available" {
				t.Errorf("potato level 1 = %q, want available", got)
			}
			if got := resp.Session.CropProgress["potato"].LevelsProgress[2].Status; got != "locked" {
				t.Errorf("potato level 2 = %q, want locked", got)
			}
		})
	}
}

func TestInitSession_StorageDown(t *testing.T) {
	env := newTestEnv(t, brokenKV{})

	rec := env.do(t, http.MethodPost, "/api/session", InitSessionRequest{PlayerName: "Ana", Crop: "corn"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Error != "Failed to initialize session" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Kind != string(session.KindInitializationFailed) {
		t.Errorf("kind = %q, want %q", resp.Kind, session.KindInitializationFailed)
	}
}

func TestContinueSession(t *testing.T) {
	env := newTestEnv(t, persistence.NewMemoryKV())
	first := env.startSession(t, "corn")

	rec := env.do(t, http.MethodPost, "/api/session/continue", InitSessionRequest{Crop: "quinoa"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode[StateResponse](t, rec)
	if resp.Session.PlayerID != first.Session.PlayerID {
		t.Errorf("playerId changed: %q -> %q", first.Session.PlayerID, resp.Session.PlayerID)
	}
	if resp.Session.SelectedCrop == nil || *resp.Session.SelectedCrop != "quinoa" {
		t.Errorf("selectedCrop = %v, want quinoa", resp.Session.SelectedCrop)
	}
}

func TestContinueSession_NewPlayer(t *testing.T) {
	env := newTestEnv(t, persistence.NewMemoryKV())

	rec := env.do(t, http.MethodPost, "/api/session/continue", InitSessionRequest{Crop: "potato"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode[StateResponse](t, rec)
	if resp.Session == nil || resp.Session.PlayerName != session.DefaultPlayerName {
		t.Fatalf("session = %+v, want default player", resp.Session)
	}
}

func TestLoadSession(t *testing.T) {
	kv := persistence.NewMemoryKV()
	writer := newTestEnv(t, kv)
	writer.startSession(t, "potato")

	reader := newTestEnv(t, kv)
	rec := reader.do(t, http.MethodPost, "/api/session/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode[StateResponse](t, rec)
	if resp.Session == nil || resp.Session.PlayerName != "Ana" {
		t.Fatalf("session = %+v, want Ana's", resp.Session)
	}
}

func TestClearSession(t *testing.T) {
	env := newTestEnv(t, persistence.NewMemoryKV())
	env.startSession(t, "corn")

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodDelete, "/api/session", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete %d: status = %d, want %d", i, rec.Code, http.StatusNoContent)
		}
	}

	if _, ok, _ := env.kv.Get(context.Background(), persistence.SessionKey); ok {
		t.Error("session still stored")
	}
	rec := env.do(t, http.MethodGet, "/api/levels", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("levels after clear: status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestSelectCrop(t *testing.T) {
	tests := []struct {
		name       string
		withSess   bool
		crop       string
		wantStatus int
	}{
		{name: "valid", withSess: true, crop: "quinoa", wantStatus: http.StatusOK},
		{name: "unknown crop", withSess: true, crop: "rice", wantStatus: http.StatusBadRequest},
		{name: "no session", withSess: false, crop: "quinoa", wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, persistence.NewMemoryKV())
			if tt.withSess {
				env.startSession(t, "corn")
			}

			rec := env.do(t, http.MethodPut, "/api/session/crop", SelectCropRequest{Crop: tt.crop})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			resp := decode[StateResponse](t, rec)
			if *resp.Session.SelectedCrop != tt.crop {
				t.Errorf("selectedCrop = %q, want %q", *resp.Session.SelectedCrop, tt.crop)
			}
			if *resp.Session.CurrentLevel != 1 {
				t.Errorf("currentLevel = %d, want 1", *resp.Session.CurrentLevel)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	env := newTestEnv(t, persistence.NewMemoryKV())

	rec := env.do(t, http.MethodPut, "/api/language", LanguageRequest{Language: "en"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := env.store.Language(); got != farmquest.LanguageEnglish {
		t.Errorf("store language = %q, want en", got)
	}

	rec = env.do(t, http.MethodPut, "/api/language", LanguageRequest{Language: "fr"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported language: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := env.language.Get(); got != farmquest.LanguageEnglish {
		t.Errorf("setting = %q, want en", got)
	}
}
