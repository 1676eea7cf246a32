package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvailles/inkwell/internal/handler"
)

func TestHandleRegister_Success(t *testing.T) {
	_, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"newuser","password":"password123"}`))
	w := httptest.NewRecorder()

	h.HandleRegister(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		User handler.UserDTO `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User.Username != "newuser" {
		t.Fatalf("expected username newuser, got %q", body.User.Username)
	}
	if body.User.ID == "" {
		t.Fatal("expected user ID in response")
	}
}

func TestHandleRegister_ShortUsername(t *testing.T) {
	_, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"abc","password":"password123"}`))
	w := httptest.NewRecorder()

	h.HandleRegister(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestHandleRegister_Duplicate(t *testing.T) {
	_, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"username":"dupuser","password":"password123"}`))
		w := httptest.NewRecorder()
		h.HandleRegister(w, req)
		if w.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, want, w.Code)
		}
	}
}

func TestHandleLogin_SetsSessionCookie(t *testing.T) {
	tokens, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	regReq := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"loginuser","password":"password123"}`))
	h.HandleRegister(httptest.NewRecorder(), regReq)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"loginuser","password":"password123"}`))
	w := httptest.NewRecorder()
	h.HandleLogin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected token cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("expected token cookie to be HttpOnly")
	}

	// The cookie value is a verifiable session token.
	claims, err := tokens.Verify(sessionCookie.Value)
	if err != nil {
		t.Fatalf("Verify cookie token: %v", err)
	}
	if claims.Username != "loginuser" {
		t.Fatalf("expected username loginuser in token, got %q", claims.Username)
	}
}

func TestHandleLogin_UniformFailure(t *testing.T) {
	_, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	regReq := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"realuser","password":"password123"}`))
	h.HandleRegister(httptest.NewRecorder(), regReq)

	// Wrong password and unknown username produce identical responses.
	var bodies []string
	for _, payload := range []string{
		`{"username":"realuser","password":"wrongpassword"}`,
		`{"username":"ghostuser","password":"password123"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload))
		w := httptest.NewRecorder()
		h.HandleLogin(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("login failure must not reveal which case occurred: %q vs %q", bodies[0], bodies[1])
	}
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	_, auth, _, _ := newTestServices(t)
	h := handler.NewAuthHandler(auth, false)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	h.HandleLogout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected token cookie to be cleared")
	}
}
