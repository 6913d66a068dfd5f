package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/preparly/taxassist/internal/store"
)

var testSecret = []byte("test-secret")

func TestSignupCreatesUser(t *testing.T) {
	e := echo.New()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := &AuthHandler{Store: &store.Store{DB: db}, Secret: testSecret}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, email, name, role, password_hash) VALUES ($1,$2,$3,$4,$5)`)).
		WithArgs(sqlmock.AnyArg(), "jeff@preparly.dev", "Jeff", "Preparer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"email":"jeff@preparly.dev","name":"Jeff","password":"password123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := handler.signup(ctx); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	e := echo.New()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := &AuthHandler{Store: &store.Store{DB: db}, Secret: testSecret}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"email":"jeff@preparly.dev","password":"short"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err = handler.signup(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %#v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	e := echo.New()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := &AuthHandler{Store: &store.Store{DB: db}, Secret: testSecret}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, role, password_hash FROM users WHERE id=$1 OR email=$1`)).
		WithArgs("jeff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash"}).
			AddRow("jeff", "jeff@preparly.dev", "Jeff", "Preparer", string(hash)))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"jeff","password":"password"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := handler.login(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" || resp.User.ID != "jeff" || resp.User.Role != "Preparer" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "auth" {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value != resp.Token || !cookie.HttpOnly {
		t.Fatalf("expected httponly auth cookie carrying the token")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	e := echo.New()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := &AuthHandler{Store: &store.Store{DB: db}, Secret: testSecret}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, role, password_hash FROM users WHERE id=$1 OR email=$1`)).
		WithArgs("jeff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash"}).
			AddRow("jeff", "jeff@preparly.dev", "Jeff", "Preparer", string(hash)))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"jeff","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err = handler.login(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %#v", err)
	}
}

func TestWithAuthAcceptsBearerAndCookie(t *testing.T) {
	e := echo.New()
	tok, err := signJWT("user-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}
	wrapped := withAuth(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	if err := wrapped(e.NewContext(req, rec)); err != nil {
		t.Fatalf("bearer auth: %v", err)
	}
	if rec.Body.String() != "user-1" {
		t.Fatalf("expected subject user-1, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: tok})
	rec = httptest.NewRecorder()
	if err := wrapped(e.NewContext(req, rec)); err != nil {
		t.Fatalf("cookie auth: %v", err)
	}
}

func TestWithAuthRejectsBadToken(t *testing.T) {
	e := echo.New()
	wrapped := withAuth(func(c echo.Context) error { return c.NoContent(http.StatusOK) }, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	err := wrapped(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %#v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	err = wrapped(e.NewContext(req, rec))
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %#v", err)
	}
}
