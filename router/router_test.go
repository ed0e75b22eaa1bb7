// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/handlers"
	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/store"
	"github.com/Mamajin/ku-polls/testutil"
	"github.com/Mamajin/ku-polls/voting"
)

func setupRouter(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	limiter := middleware.NewIPRateLimiter(rate.Inf, 1)

	mux, err := NewRouter(st, voting.NewEngine(st), limiter, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}
	return mux, st
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := serve(mux, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := serve(mux, httptest.NewRequest("GET", "/", nil))

	testutil.AssertRedirect(t, w, "/polls/")
}

func TestRouteExistence(t *testing.T) {
	mux, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/polls/"},
		{"GET", "/polls/1/"},
		{"GET", "/polls/1/results/"},
		{"GET", "/polls/1/vote/"},
		{"POST", "/polls/1/vote/"},
		{"GET", "/api/polls/1/results"},
		{"OPTIONS", "/api/polls/1/results"},
		{"GET", "/accounts/login/"},
		{"POST", "/accounts/login/"},
		{"POST", "/accounts/logout/"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(mux, httptest.NewRequest(tc.method, tc.path, nil))

			// a missing question is a handler 404 with an HTML page, not the mux's plain one
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered for method", tc.method, tc.path)
			}
			if w.Code == http.StatusNotFound && strings.HasPrefix(w.Body.String(), "404 page not found") {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	mux, _ := setupRouter(t)

	w := serve(mux, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = serve(mux, httptest.NewRequest("DELETE", "/polls/", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestAnonymousVoteRedirectsToLogin(t *testing.T) {
	mux, st := setupRouter(t)
	q, choices := testutil.CreateTestQuestion(t, st, "Anon?", -time.Hour, nil, "a")

	form := url.Values{"choice": {fmt.Sprint(choices[0].ID)}}
	path := fmt.Sprintf("/polls/%d/vote/", q.ID)
	w := serve(mux, testutil.MakeRequest("POST", path, form))

	testutil.AssertRedirect(t, w, "/accounts/login/?next="+url.QueryEscape(path))

	var n int
	if err := st.DB().Get(&n, `SELECT COUNT(*) FROM vote`); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no vote rows, got %d", n)
	}
}

func TestFutureQuestionHidden(t *testing.T) {
	mux, st := setupRouter(t)
	q, _ := testutil.CreateTestQuestion(t, st, "Future question.", 30*24*time.Hour, nil, "a")

	w := serve(mux, httptest.NewRequest("GET", "/polls/", nil))
	if strings.Contains(w.Body.String(), "Future question.") {
		t.Error("Future question must not be listed")
	}

	w = serve(mux, httptest.NewRequest("GET", fmt.Sprintf("/polls/%d/", q.ID), nil))
	testutil.AssertRedirect(t, w, "/polls/")

	w = serve(mux, httptest.NewRequest("GET", fmt.Sprintf("/api/polls/%d/results", q.ID), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestFullVotingWorkflow logs in, votes, changes the vote and reads results
func TestFullVotingWorkflow(t *testing.T) {
	mux, st := setupRouter(t)

	user := testutil.CreateTestUser(t, st, "alice")
	q, choices := testutil.CreateTestQuestion(t, st, "Workflow?", -time.Hour, nil, "first", "second")
	votePath := fmt.Sprintf("/polls/%d/vote/", q.ID)

	// Step 1: log in, following next back to the vote URL
	login := url.Values{
		"username": {user.Username},
		"password": {testutil.TestPassword},
		"next":     {votePath},
	}
	w := serve(mux, testutil.MakeRequest("POST", "/accounts/login/", login))
	testutil.AssertRedirect(t, w, votePath)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatal("Expected session cookie after login")
	}

	// Step 2: GET on the vote URL lands on the form
	w = serve(mux, testutil.MakeRequest("GET", votePath, nil, session))
	testutil.AssertRedirect(t, w, fmt.Sprintf("/polls/%d/", q.ID))

	w = serve(mux, testutil.MakeRequest("GET", fmt.Sprintf("/polls/%d/", q.ID), nil, session))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "Workflow?", "Signed in as alice")

	// Step 3: vote, then change the vote
	resultsPath := fmt.Sprintf("/polls/%d/results/", q.ID)
	for _, c := range choices {
		form := url.Values{"choice": {fmt.Sprint(c.ID)}}
		w = serve(mux, testutil.MakeRequest("POST", votePath, form, session))
		testutil.AssertRedirect(t, w, resultsPath)
	}

	// Step 4: results and JSON agree on a single vote for the second choice
	w = serve(mux, testutil.MakeRequest("GET", resultsPath, nil, session))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "1 vote in total")

	w = serve(mux, httptest.NewRequest("GET", fmt.Sprintf("/api/polls/%d/results", q.ID), nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w,
		fmt.Sprintf(`{"choice_id":%d,"choice_text":"first","votes":0}`, choices[0].ID),
		fmt.Sprintf(`{"choice_id":%d,"choice_text":"second","votes":1}`, choices[1].ID),
		`"total_votes":1`,
	)
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected CORS headers on the JSON API")
	}

	if n := testutil.CountVotes(t, st, user.ID, q.ID); n != 1 {
		t.Errorf("Expected exactly 1 vote row, got %d", n)
	}

	// Step 5: log out
	w = serve(mux, testutil.MakeRequest("POST", "/accounts/logout/", nil, session))
	testutil.AssertRedirect(t, w, "/polls/")
}

func TestLoginRateLimited(t *testing.T) {
	st := testutil.SetupTestStore(t)
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Hour), 2)
	mux, err := NewRouter(st, voting.NewEngine(st), limiter, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}

	form := url.Values{"username": {"ghost"}, "password": {"wrong-password"}}
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := serve(mux, testutil.MakeRequest("POST", "/accounts/login/", form))
		codes = append(codes, w.Code)
		if i == 0 {
			testutil.AssertBodyContains(t, w, handlers.MsgInvalidLogin)
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected [200 200 429], got %v", codes)
	}
}

func TestCrossOriginPostsRejected(t *testing.T) {
	mux, st := setupRouter(t)
	user := testutil.CreateTestUser(t, st, "alice")
	q, choices := testutil.CreateTestQuestion(t, st, "Cross?", -time.Hour, nil, "a")

	login := url.Values{"username": {user.Username}, "password": {testutil.TestPassword}}
	vote := url.Values{"choice": {fmt.Sprint(choices[0].ID)}}
	votePath := fmt.Sprintf("/polls/%d/vote/", q.ID)

	testCases := []struct {
		name   string
		path   string
		form   url.Values
		header string
		value  string
	}{
		{"login cross-site fetch", "/accounts/login/", login, "Sec-Fetch-Site", "cross-site"},
		{"login foreign origin", "/accounts/login/", login, "Origin", "https://evil.example"},
		{"vote cross-site fetch", votePath, vote, "Sec-Fetch-Site", "cross-site"},
		{"logout cross-site fetch", "/accounts/logout/", nil, "Sec-Fetch-Site", "cross-site"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", tc.path, tc.form)
			req.Header.Set(tc.header, tc.value)
			w := serve(mux, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("Expected status 403, got %d", w.Code)
			}
			for _, c := range w.Result().Cookies() {
				if c.Name == auth.SessionCookieName && c.Value != "" {
					t.Error("Cross-origin login must not set a session")
				}
			}
		})
	}

	// same-origin browser posts still work
	req := testutil.MakeRequest("POST", "/accounts/login/", login)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	w := serve(mux, req)
	testutil.AssertRedirect(t, w, "/polls/")
}
