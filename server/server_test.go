package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/resauth/go-auth-server/apps"
	fakeapprepo "github.com/resauth/go-auth-server/apps/repofake"
	"github.com/resauth/go-auth-server/internal/config"
	"github.com/resauth/go-auth-server/permissions"
	"github.com/resauth/go-auth-server/resources"
	fakeresourcerepo "github.com/resauth/go-auth-server/resources/repofake"
	"github.com/resauth/go-auth-server/server"
	"github.com/resauth/go-auth-server/sessions"
	fakesessionrepo "github.com/resauth/go-auth-server/sessions/repofake"
	"github.com/resauth/go-auth-server/token"
	faketokenrepo "github.com/resauth/go-auth-server/token/repofake"
	"github.com/resauth/go-auth-server/users"
	fakeuserrepo "github.com/resauth/go-auth-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testUserID      = "user-1"
	testUsername    = "user_test"
	testPassword    = "pass_test"
	testAppID       = "1"
	testAppName     = "App1"
	testAppSecret   = "1029384756"
	testResourceID  = "1"
	testResource    = "Resource1"
	testRedirectURI = "http://www.google.com"
	testState       = "xyz"
	testScope       = "all"
)

type serverFixture struct {
	server *server.Server
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	appRepo := fakeapprepo.NewFakeAppRepo()
	resourceRepo := fakeresourcerepo.NewFakeResourceRepo()
	links := permissions.NewStore()

	gate, err := sessions.NewGate(userRepo, fakesessionrepo.NewFakeSessionRepo(), time.Hour)
	require.NoError(t, err)

	issuer, err := token.NewIssuer(faketokenrepo.NewFakeCodeRepo(), faketokenrepo.NewFakeTokenRepo(), 10*time.Minute)
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Repos{
		Users:     userRepo,
		Apps:      appRepo,
		Resources: resourceRepo,
	}, links, gate, issuer)
	require.NoError(t, err)

	require.NoError(t, userRepo.Upsert(&users.User{ID: testUserID, Username: testUsername, Password: testPassword}))
	require.NoError(t, appRepo.Upsert(&apps.App{ID: testAppID, Name: testAppName, Secret: testAppSecret}))
	require.NoError(t, resourceRepo.Upsert(&resources.Resource{ID: testResourceID, Name: testResource}))
	links.LinkAppToUser(testUserID, testAppID)
	links.LinkResourceToApp(testResourceID, testAppID)

	return &serverFixture{server: srv}
}

// get performs a GET through the full middleware stack, optionally with
// a session cookie attached.
func (f *serverFixture) get(t *testing.T, target, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func authorizeQuery(granted string) url.Values {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", testAppID)
	q.Set("resource_id", testResourceID)
	q.Set("redirect_uri", testRedirectURI)
	q.Set("state", testState)
	q.Set("scope", testScope)
	if granted != "" {
		q.Set("granted", granted)
	}
	return q
}

// login signs the test user in and returns the session cookie value.
func (f *serverFixture) login(t *testing.T) string {
	t.Helper()

	q := authorizeQuery("")
	q.Set("username", testUsername)
	q.Set("password", testPassword)
	rec := f.get(t, "/login?"+q.Encode(), "")
	require.Equal(t, http.StatusFound, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" {
			require.NotEmpty(t, cookie.Value)
			return cookie.Value
		}
	}
	t.Fatal("no session cookie set on login")
	return ""
}

func TestLoginRendersFormOnFirstVisit(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.get(t, "/login?"+authorizeQuery("").Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "Sign in")
	// The authorize parameters ride along as hidden fields
	require.Contains(t, body, `value="`+testState+`"`)
	require.Contains(t, body, `value="`+testRedirectURI+`"`)
}

func TestLoginFailureRendersFailurePage(t *testing.T) {
	f := setupServerFixture(t)

	q := authorizeQuery("")
	q.Set("username", testUsername)
	q.Set("password", "wrong_password")
	rec := f.get(t, "/login?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sign in failed")
}

func TestLoginSuccessRedirectsToAuthorize(t *testing.T) {
	f := setupServerFixture(t)

	q := authorizeQuery("")
	q.Set("username", testUsername)
	q.Set("password", testPassword)
	rec := f.get(t, "/login?"+q.Encode(), "")
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/authorize", location.Path)
	require.Equal(t, testState, location.Query().Get("state"))

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)
}

func TestLoginRejectsUnsupportedResponseType(t *testing.T) {
	f := setupServerFixture(t)

	q := authorizeQuery("")
	q.Set("response_type", "token")
	q.Set("username", testUsername)
	q.Set("password", testPassword)
	rec := f.get(t, "/login?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "response type is not supported")
}

func TestAuthorizeWithoutSessionShowsLogin(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.get(t, "/authorize?"+authorizeQuery("").Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sign in")
}

func TestAuthorizeShowsConsentPage(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	rec := f.get(t, "/authorize?"+authorizeQuery("").Encode(), sessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, testAppName)
	require.Contains(t, body, testResource)
	require.Contains(t, body, "Allow")
	require.Contains(t, body, "Deny")
	require.Contains(t, body, "Applications authorized for this account")
}

func TestAuthorizeUnknownAppShowsErrorPage(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	q := authorizeQuery("")
	q.Set("client_id", "2")
	rec := f.get(t, "/authorize?"+q.Encode(), sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "was not found for this account")
}

func TestAuthorizeDeniedConsentShowsErrorPage(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	rec := f.get(t, "/authorize?"+authorizeQuery("no").Encode(), sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "denied")
}

func TestFullAuthorizationCodeFlow(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	// Grant: the redirect carries code and echoed state back to the app
	rec := f.get(t, "/authorize?"+authorizeQuery("yes").Encode(), sessionID)
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "www.google.com", location.Host)
	require.Equal(t, testState, location.Query().Get("state"))
	code := location.Query().Get("code")
	require.NotEmpty(t, code)

	// Exchange: the code buys exactly one token
	tq := url.Values{}
	tq.Set("client_id", testAppID)
	tq.Set("app_secret", testAppSecret)
	tq.Set("code", code)
	rec = f.get(t, "/token?"+tq.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Resource    string `json:"resource"`
		Scope       string `json:"scope"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResponse))
	require.NotEmpty(t, tokenResponse.AccessToken)
	require.Equal(t, "Bearer", tokenResponse.TokenType)
	require.Equal(t, testResourceID, tokenResponse.Resource)
	require.Equal(t, testScope, tokenResponse.Scope)

	// Replay: the same code is rejected
	rec = f.get(t, "/token?"+tq.Encode(), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_grant")
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	rec := f.get(t, "/authorize?"+authorizeQuery("yes").Encode(), sessionID)
	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	tq := url.Values{}
	tq.Set("client_id", testAppID)
	tq.Set("app_secret", "wrong-secret")
	tq.Set("code", location.Query().Get("code"))
	rec = f.get(t, "/token?"+tq.Encode(), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_client")
}

func TestTokenAcceptsPost(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	rec := f.get(t, "/authorize?"+authorizeQuery("yes").Encode(), sessionID)
	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("client_id", testAppID)
	form.Set("app_secret", testAppSecret)
	form.Set("code", location.Query().Get("code"))

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postRec := httptest.NewRecorder()
	f.server.ServeHTTP(postRec, req)

	require.Equal(t, http.StatusOK, postRec.Code)
	require.Contains(t, postRec.Body.String(), "access_token")
}

func TestLogoutClearsSession(t *testing.T) {
	f := setupServerFixture(t)
	sessionID := f.login(t)

	rec := f.get(t, "/logout", sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Signed out")

	var cleared *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	require.Negative(t, cleared.MaxAge)

	// The old session no longer authenticates the authorize step
	rec = f.get(t, "/authorize?"+authorizeQuery("").Encode(), sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sign in")
}

func TestHealthz(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.get(t, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupServerFixture(t)
	f.login(t) // record at least one login

	rec := f.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "authserver_login_total")
}

func TestFrameSecurityHeaders(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.get(t, "/login?"+authorizeQuery("").Encode(), "")
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
}
