package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/domain"
	"learnquiz-service/internal/infra/memory"
	"learnquiz-service/internal/logger"
	transport "learnquiz-service/internal/transport/http"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	store.SeedCatalog(memory.SampleCatalog())

	hash, err := app.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: hash}
	if err := store.Users().Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	log := logger.NewNop()
	quizRepo := memory.NewQuizCache(store, time.Minute)
	authService := app.NewAuthService(store.Users(), store.Tokens(), "test-secret", 15*time.Minute, time.Hour)
	catalogService := app.NewCatalogService(store, quizRepo)
	progressService := app.NewProgressService(store.Progress())
	streakService := app.NewStreakService(store.Streaks(), store.Profiles())
	profileService := app.NewProfileService(store.Users(), store.Profiles())
	quizService := app.NewQuizService(quizRepo, store.Profiles(), store)

	router := transport.NewRouter(transport.RouterConfig{
		Auth:     transport.NewAuthHandler(authService, log),
		AuthMW:   transport.NewAuthMiddleware(authService),
		Catalog:  transport.NewCatalogHandler(catalogService, log),
		Quiz:     transport.NewQuizHandler(catalogService, quizService, progressService, log),
		Progress: transport.NewProgressHandler(progressService, log),
		Streak:   transport.NewStreakHandler(streakService, log),
		Profile:  transport.NewProfileHandler(profileService, log),
		Log:      log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func obtainToken(t *testing.T, server *httptest.Server) string {
	t.Helper()
	body := bytes.NewBufferString(`{"username":"alice","password":"s3cret-pass"}`)
	resp, err := http.Post(server.URL+"/auth/token/", "application/json", body)
	if err != nil {
		t.Fatalf("obtain token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("obtain token status: %d", resp.StatusCode)
	}
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	return pair.Access
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestDisciplinesArePublic(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/disciplines/")
	if err != nil {
		t.Fatalf("get disciplines: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var disciplines []struct {
		Name      string `json:"name"`
		QuizCount int    `json:"quiz_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&disciplines); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(disciplines) != 2 || disciplines[0].Name != "Contract Law" {
		t.Fatalf("unexpected disciplines: %+v", disciplines)
	}
}

func TestTakeHidesCorrectFlags(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/quizzes/1/take/")
	if err != nil {
		t.Fatalf("take quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var view struct {
		Questions []struct {
			Answers []map[string]any `json:"answers"`
		} `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(view.Questions))
	}
	for _, q := range view.Questions {
		for _, a := range q.Answers {
			if _, leaked := a["correct"]; leaked {
				t.Fatalf("take view must not include correct flags: %+v", a)
			}
		}
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/quizzes/1/submit/", "", map[string]any{"answers": map[string]int64{}})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSubmitFlow(t *testing.T) {
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/quizzes/1/submit/", token, map[string]any{
		"answers": map[string]int64{"1": 1, "2": 4},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status: %d", resp.StatusCode)
	}

	var result struct {
		Score          float64 `json:"score"`
		CorrectAnswers int     `json:"correct_answers"`
		TotalQuestions int     `json:"total_questions"`
		Passed         bool    `json:"passed"`
		Results        []struct {
			UserAnswer string `json:"user_answer"`
		} `json:"results"`
		StreakInfo struct {
			CurrentStreak  int    `json:"current_streak"`
			StreakUpdated  bool   `json:"streak_updated"`
			LastActiveDate string `json:"last_active_date"`
		} `json:"streak_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if result.CorrectAnswers != 1 || result.TotalQuestions != 3 || result.Passed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Results[2].UserAnswer != "Not answered" {
		t.Fatalf("expected unanswered placeholder, got %+v", result.Results[2])
	}
	if result.StreakInfo.CurrentStreak != 1 || !result.StreakInfo.StreakUpdated {
		t.Fatalf("expected streak advanced, got %+v", result.StreakInfo)
	}

	scores := doJSON(t, http.MethodGet, server.URL+"/quizzes/my_scores/", token, nil)
	defer scores.Body.Close()
	var recorded []struct {
		QuizID int64   `json:"quiz"`
		Score  float64 `json:"score"`
	}
	if err := json.NewDecoder(scores.Body).Decode(&recorded); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if len(recorded) != 1 || recorded[0].QuizID != 1 {
		t.Fatalf("expected one recorded score, got %+v", recorded)
	}
}

func TestSubmitRejectsNonNumericKeys(t *testing.T) {
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/quizzes/1/submit/", token, map[string]any{
		"answers": map[string]int64{"abc": 1},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProgressCRUDAndSummary(t *testing.T) {
	server := newTestServer(t)
	token := obtainToken(t, server)

	created := doJSON(t, http.MethodPost, server.URL+"/user-progress/", token, map[string]any{
		"quiz": 1, "score": 80,
	})
	defer created.Body.Close()
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", created.StatusCode)
	}
	var rec struct {
		ID    int64   `json:"id"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(created.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}

	recordURL := fmt.Sprintf("%s/user-progress/%d/", server.URL, rec.ID)
	updated := doJSON(t, http.MethodPut, recordURL, token, map[string]any{"score": 60})
	defer updated.Body.Close()
	if updated.StatusCode != http.StatusOK {
		t.Fatalf("update status: %d", updated.StatusCode)
	}

	bad := doJSON(t, http.MethodPost, server.URL+"/user-progress/", token, map[string]any{"quiz": 1, "score": 150})
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range score, got %d", bad.StatusCode)
	}

	summary := doJSON(t, http.MethodGet, server.URL+"/user-progress/summary/", token, nil)
	defer summary.Body.Close()
	var sum struct {
		TotalAttempted int     `json:"total_attempted"`
		AverageScore   float64 `json:"average_score"`
	}
	if err := json.NewDecoder(summary.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalAttempted != 1 || sum.AverageScore != 60 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestStreakEndpoints(t *testing.T) {
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/streak/", token, nil)
	defer resp.Body.Close()
	var state struct {
		CurrentStreak int `json:"current_streak"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode streak: %v", err)
	}
	if state.CurrentStreak != 0 {
		t.Fatalf("expected fresh streak, got %+v", state)
	}

	update := doJSON(t, http.MethodPost, server.URL+"/streak/update/", token, nil)
	defer update.Body.Close()
	var info struct {
		CurrentStreak int  `json:"current_streak"`
		StreakUpdated bool `json:"streak_updated"`
	}
	if err := json.NewDecoder(update.Body).Decode(&info); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if info.CurrentStreak != 1 || !info.StreakUpdated {
		t.Fatalf("expected advanced streak, got %+v", info)
	}

	again := doJSON(t, http.MethodPost, server.URL+"/streak/update/", token, nil)
	defer again.Body.Close()
	if err := json.NewDecoder(again.Body).Decode(&info); err != nil {
		t.Fatalf("decode second update: %v", err)
	}
	if info.StreakUpdated {
		t.Fatalf("same-day update must report no change, got %+v", info)
	}
}

func TestProfileTimezoneValidation(t *testing.T) {
	server := newTestServer(t)
	token := obtainToken(t, server)

	resp := doJSON(t, http.MethodPut, server.URL+"/me/", token, map[string]any{"timezone": "Mars/Olympus_Mons"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus timezone, got %d", resp.StatusCode)
	}

	ok := doJSON(t, http.MethodPut, server.URL+"/me/", token, map[string]any{"timezone": "America/New_York"})
	defer ok.Body.Close()
	if ok.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.StatusCode)
	}
	var profile struct {
		Username string `json:"username"`
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(ok.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Username != "alice" || profile.Timezone != "America/New_York" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestRoadmapRequiresAuth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/roadmap/1/")
	if err != nil {
		t.Fatalf("get roadmap: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	token := obtainToken(t, server)
	authed := doJSON(t, http.MethodGet, server.URL+"/roadmap/1/", token, nil)
	defer authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", authed.StatusCode)
	}
}
