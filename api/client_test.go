package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create jar: %v", err)
	}
	return &Client{
		baseURL: srv.URL,
		http:    &http.Client{Jar: jar},
		limiter: rate.NewLimiter(rate.Inf, 1),
		store:   NewCookieStore(filepath.Join(t.TempDir(), "cookies.json")),
	}
}

func TestDo_DecodesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "post too long"})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.CreatePost(context.Background(), "x")

	if err == nil {
		t.Fatal("Expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", apiErr.Status)
	}
	if apiErr.Message != "post too long" {
		t.Errorf("Expected server message, got '%s'", apiErr.Message)
	}
}

func TestDo_NonJSONErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>gateway exploded</html>", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Me(context.Background())

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("Expected status text fallback, got '%s'", apiErr.Message)
	}
}

func TestDo_SetsRequestID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"posts": []any{}, "page": 1, "has_more": false, "total": 0})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if _, err := c.Feed(context.Background(), "balanced", 1); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if gotID == "" {
		t.Error("Expected X-Request-ID header on request")
	}
}

func TestFeed_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"posts": []map[string]any{
				{"id": 1, "content": "A", "created_at": "2024-01-01T10:00:00", "author": map[string]any{"id": 2, "username": "bob", "avatar": ""}, "is_own": false},
			},
			"page": 3, "has_more": true, "total": 31,
		})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	resp, err := c.Feed(context.Background(), "serendipity", 3)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	if gotQuery.Get("mode") != "serendipity" {
		t.Errorf("Expected mode=serendipity, got '%s'", gotQuery.Get("mode"))
	}
	if gotQuery.Get("page") != "3" {
		t.Errorf("Expected page=3, got '%s'", gotQuery.Get("page"))
	}
	if len(resp.Posts) != 1 || resp.Posts[0].Author.Username != "bob" {
		t.Errorf("Expected parsed post with author bob, got %+v", resp.Posts)
	}
	if !resp.HasMore || resp.Total != 31 {
		t.Errorf("Expected has_more/total from response, got %+v", resp)
	}
}

func TestLogin_PersistsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1, "username": "alice"}})
			return
		}
		// /api/auth/me succeeds only with the session cookie
		if cookie, err := r.Cookie("session"); err != nil || cookie.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authorized"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1, "username": "alice"}})
	}))
	defer srv.Close()

	c := testClient(t, srv)

	user, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected user alice, got '%s'", user.Username)
	}

	// The jar carries the cookie forward
	if _, err := c.Me(context.Background()); err != nil {
		t.Errorf("Expected authenticated probe after login, got %v", err)
	}

	// And the store has it on disk
	cookies, err := c.store.Load()
	if err != nil {
		t.Fatalf("Expected persisted cookies: %v", err)
	}
	found := false
	for _, cookie := range cookies {
		if cookie.Name == "session" && cookie.Value == "abc123" {
			found = true
		}
	}
	if !found {
		t.Error("Expected session cookie in store")
	}
}

func TestSearch_EmptyQueryAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "" {
			t.Errorf("Expected empty q, got '%s'", r.URL.Query().Get("q"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []any{},
			"popular_users": []map[string]any{
				{"id": 1, "username": "p1", "followers_count": 10},
				{"id": 2, "username": "p2", "followers_count": 5},
			},
			"query": "",
		})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	resp, err := c.Search(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Users) != 0 {
		t.Errorf("Expected no matches for empty query, got %d", len(resp.Users))
	}
	if len(resp.PopularUsers) != 2 {
		t.Errorf("Expected 2 popular users, got %d", len(resp.PopularUsers))
	}
}

func TestEditProfile_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("interests"); got != "go,terminals" {
			t.Errorf("Expected interests CSV, got '%s'", got)
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Fatalf("Expected avatar file: %v", err)
		}
		file.Close()
		if header.Filename != "me.png" {
			t.Errorf("Expected filename me.png, got '%s'", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1, "username": "alice", "interests": []string{"go", "terminals"}}})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	user, err := c.EditProfile(context.Background(), []string{"go", "terminals"}, "me.png", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("EditProfile failed: %v", err)
	}
	if len(user.Interests) != 2 {
		t.Errorf("Expected 2 interests on returned user, got %d", len(user.Interests))
	}
}

func TestDeletePost_Path(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.DeletePost(context.Background(), 42); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if gotPath != "/api/posts/42" {
		t.Errorf("Expected path /api/posts/42, got '%s'", gotPath)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", gotMethod)
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsNotFound(&Error{Status: http.StatusNotFound, Message: "no such user"}) {
		t.Error("Expected IsNotFound for 404")
	}
	if IsNotFound(&Error{Status: http.StatusInternalServerError}) {
		t.Error("Expected IsNotFound false for 500")
	}
	if !IsUnauthorized(&Error{Status: http.StatusUnauthorized}) {
		t.Error("Expected IsUnauthorized for 401")
	}
	if IsUnauthorized(nil) {
		t.Error("Expected IsUnauthorized false for nil")
	}
}

func TestFollow_Paths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"success": true, "followers_count": 7})
	}))
	defer srv.Close()

	c := testClient(t, srv)

	resp, err := c.Follow(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if gotPath != "/api/users/bob/follow" {
		t.Errorf("Expected follow path, got '%s'", gotPath)
	}
	if resp.FollowersCount != 7 {
		t.Errorf("Expected followers_count 7, got %d", resp.FollowersCount)
	}

	if _, err := c.Unfollow(context.Background(), "bob"); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if gotPath != "/api/users/bob/unfollow" {
		t.Errorf("Expected unfollow path, got '%s'", gotPath)
	}
}
