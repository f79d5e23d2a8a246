package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// doRequest performs a request against the router, carrying any cookies
// from a previous response, and decodes the JSON body.
func doRequest(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s returned non-JSON body: %v (%s)", method, path, err, w.Body.String())
	}
	return w, decoded
}

func sessionOf(p map[string]any) map[string]any {
	session, _ := p["session"].(map[string]any)
	return session
}

func TestStartAndStateFlow(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteStart, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RouteStart, w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie on first contact")
	}

	session := sessionOf(body)
	if session["active"] != true {
		t.Error("Expected active session after start")
	}
	if session["score"].(float64) != 0 || session["streak"].(float64) != 0 {
		t.Errorf("Expected zeroed stats, got %+v", session)
	}
	if body["round"] == nil {
		t.Fatal("Expected a round in the start response")
	}

	w, body = doRequest(t, router, http.MethodGet, RouteState, "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d", RouteState, w.Code)
	}
	if sessionOf(body)["active"] != true {
		t.Error("Expected the same active session from /state")
	}
	if prompt, _ := body["prompt"].(string); !strings.HasPrefix(prompt, UtterancePromptPrefix) {
		t.Errorf("Expected a spoken prompt for the target, got %q", prompt)
	}
	if date, _ := body["date"].(string); date == "" {
		t.Error("Expected a date string for the printable certificate")
	}
}

func TestAnswerFlow(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteStart, "", nil)
	cookies := w.Result().Cookies()

	round := body["round"].(map[string]any)
	target := round["target"].(map[string]any)
	targetValue := target["value"].(string)

	// Wrong answer first: streak stays 0, the question stands.
	w, body = doRequest(t, router, http.MethodPost, RouteAnswer, `{"value":"—"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RouteAnswer, w.Code)
	}
	result := body["result"].(map[string]any)
	if result["correct"] != false || result["feedback"] != FeedbackWrong {
		t.Errorf("Expected wrong feedback, got %+v", result)
	}
	session := sessionOf(body)
	if session["score"].(float64) != 0 || session["streak"].(float64) != 0 {
		t.Errorf("Expected untouched stats after wrong answer, got %+v", session)
	}
	newTarget := body["round"].(map[string]any)["target"].(map[string]any)
	if newTarget["id"] != target["id"] {
		t.Error("Expected the same target after a wrong answer")
	}

	// Now the right one: score and streak advance, round regenerates.
	w, body = doRequest(t, router, http.MethodPost, RouteAnswer, `{"value":"`+targetValue+`"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RouteAnswer, w.Code)
	}
	result = body["result"].(map[string]any)
	if result["correct"] != true {
		t.Errorf("Expected correct result, got %+v", result)
	}
	session = sessionOf(body)
	if session["score"].(float64) != 1 || session["streak"].(float64) != 1 {
		t.Errorf("Expected score=1 streak=1, got %+v", session)
	}
	if session["highScore"].(float64) < 1 {
		t.Errorf("Expected highScore >= 1, got %+v", session)
	}
	history := body["history"].([]any)
	if len(history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(history))
	}
}

func TestAnswerWithoutActiveRound(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteAnswer, `{"value":"A"}`, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected %d, got %d", http.StatusConflict, w.Code)
	}
	if body["error"] != ErrorNoActiveRound {
		t.Errorf("Expected %q, got %v", ErrorNoActiveRound, body["error"])
	}
}

func TestCategoryHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteCategory, `{"category":"Animals"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RouteCategory, w.Code)
	}
	if sessionOf(body)["category"] != CategoryAnimals {
		t.Errorf("Expected category switch, got %+v", sessionOf(body))
	}

	w, body = doRequest(t, router, http.MethodPost, RouteCategory, `{"category":"Shapes"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected %d for unknown category, got %d", http.StatusBadRequest, w.Code)
	}
	if body["error"] != ErrorUnknownCategory {
		t.Errorf("Expected %q, got %v", ErrorUnknownCategory, body["error"])
	}
}

func TestItemsHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteItems, `{"value":"Bear","display":"🐻","category":"Animals"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST %s returned %d: %v", RouteItems, w.Code, body)
	}
	item := body["item"].(map[string]any)
	if item["value"] != "Bear" || item["category"] != CategoryAnimals {
		t.Errorf("Unexpected created item: %+v", item)
	}
	if body["utterance"] != UtteranceItemAdded {
		t.Errorf("Expected utterance %q, got %v", UtteranceItemAdded, body["utterance"])
	}

	w, body = doRequest(t, router, http.MethodPost, RouteItems, `{"value":"","display":"","category":"Animals"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected %d for empty fields, got %d", http.StatusBadRequest, w.Code)
	}
	if body["error"] != ErrorEmptyItemFields {
		t.Errorf("Expected %q, got %v", ErrorEmptyItemFields, body["error"])
	}
}

func TestResetHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodPost, RouteStart, "", nil)
	cookies := w.Result().Cookies()

	target := body["round"].(map[string]any)["target"].(map[string]any)
	_, _ = doRequest(t, router, http.MethodPost, RouteAnswer, `{"value":"`+target["value"].(string)+`"}`, cookies)

	w, body = doRequest(t, router, http.MethodPost, RouteReset, "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RouteReset, w.Code)
	}
	session := sessionOf(body)
	if session["score"].(float64) != 0 || session["highScore"].(float64) != 0 {
		t.Errorf("Expected wiped stats, got %+v", session)
	}
	if session["active"] != false {
		t.Error("Expected idle session after reset")
	}
	if len(body["history"].([]any)) != 0 {
		t.Error("Expected empty history after reset")
	}
}

func TestHealthzHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	w, body := doRequest(t, router, http.MethodGet, RouteHealthz, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d", RouteHealthz, w.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", body["status"])
	}
	if body["catalog_items"].(float64) != float64(len(app.BuiltinItems)) {
		t.Errorf("Expected catalog_items %d, got %v", len(app.BuiltinItems), body["catalog_items"])
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := newTestApp(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 1
	router := app.buildRouter()

	w, _ := doRequest(t, router, http.MethodPost, RouteStart, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("First request returned %d", w.Code)
	}
	w, _ = doRequest(t, router, http.MethodPost, RouteStart, "", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected %d on burst exhaustion, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newTestApp(t)
	router := app.buildRouter()

	req := httptest.NewRequest(http.MethodGet, RouteHealthz, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("Expected a generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, RouteHealthz, nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "fixed-id" {
		t.Errorf("Expected request id passthrough, got %q", got)
	}
}
