package authgoogle_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/commonshub/internal/app/features/authgoogle"
	auditstore "github.com/dalemusser/commonshub/internal/app/store/audit"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*authgoogle.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	audit := auditlog.New(auditstore.New(db), zap.NewNop(), auditlog.Config{})
	handler := authgoogle.NewHandler(db, audit,
		"test-client-id", "test-client-secret", "http://localhost:8080", zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func TestIsConfigured(t *testing.T) {
	handler, _ := newTestHandler(t)
	if !handler.IsConfigured() {
		t.Error("IsConfigured() = false with client ID and secret set")
	}

	handler.ClientSecret = ""
	if handler.IsConfigured() {
		t.Error("IsConfigured() = true without a client secret")
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	handler, _ := newTestHandler(t)
	handler.ClientID = ""
	handler.ClientSecret = ""

	req := testutil.NewRequest("GET", "/auth/google")
	rec := testutil.NewRecorder()
	handler.ServeLogin(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_not_configured") {
		t.Errorf("Location = %q, want google_not_configured error", loc)
	}
}

func TestServeLogin_RedirectsToGoogleAndSavesState(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	req := testutil.NewRequest("GET", "/auth/google?return=/groups")
	rec := testutil.NewRecorder()
	handler.ServeLogin(rec, req)

	rec.AssertStatus(t, http.StatusTemporaryRedirect)

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect URL: %v", err)
	}
	if loc.Host != "accounts.google.com" {
		t.Errorf("redirect host = %q, want accounts.google.com", loc.Host)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("redirect URL has no state parameter")
	}

	// The state must be persisted so the callback can validate it.
	var stored struct {
		ReturnURL string `bson:"return_url"`
	}
	err = fixtures.DB().Collection("oauth_states").
		FindOne(ctx, bson.M{"state": state}).Decode(&stored)
	if err != nil {
		t.Fatalf("state not persisted: %v", err)
	}
	if stored.ReturnURL != "/groups" {
		t.Errorf("return_url = %q, want %q", stored.ReturnURL, "/groups")
	}
}

func TestServeCallback_GoogleError(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/google/callback?error=access_denied")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_denied") {
		t.Errorf("Location = %q, want google_denied error", loc)
	}
}

func TestServeCallback_MissingState(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/google/callback?code=test-code")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location = %q, want invalid_state error", loc)
	}
}

func TestServeCallback_UnknownState(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/auth/google/callback?state=never-issued&code=test-code")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location = %q, want invalid_state error", loc)
	}
}

func TestRoutes(t *testing.T) {
	handler, _ := newTestHandler(t)
	if authgoogle.Routes(handler) == nil {
		t.Fatal("Routes() returned nil")
	}
}
