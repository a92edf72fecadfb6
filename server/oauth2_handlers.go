package server

import (
	"encoding/json"
	"net/http"

	"github.com/resauth/go-auth-server/auth"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// ConsentPageData contains data for rendering the consent page
type ConsentPageData struct {
	AppName        string
	ResourceName   string
	Scope          string
	AuthorizedApps []string
	AcceptURL      string
	DenyURL        string
}

// AuthorizeHandler evaluates an authorize request (GET /authorize).
// Unauthenticated callers get the login form with the request preserved;
// authenticated ones get the consent page, an error page, or a redirect
// back to the app with code and state.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}
	consentTmpl, err := ParseTemplate("permissions.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse permissions template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		params := auth.ParseAuthorizationParameters(r.URL.Query())

		result, err := s.flow.Authorize(r.Context(), params)
		if err != nil {
			log.Err(err).Msg("authorize failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		switch result.Outcome {
		case auth.OutcomeNeedsLogin:
			s.renderPage(w, loginTmpl, loginPageData(params, ""))
		case auth.OutcomeNeedsConsent:
			s.renderPage(w, consentTmpl, consentPageData(result))
		case auth.OutcomeRedirect:
			http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		case auth.OutcomeError:
			s.renderErrorPage(w, result.Reason)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// TokenHandler exchanges an authorization code for an access token
// (GET or POST /token).
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "invalid_request", "Failed to parse request parameters", http.StatusBadRequest)
			return
		}

		tokenReq := auth.TokenRequest{
			ClientID:  r.FormValue("client_id"),
			AppSecret: r.FormValue("app_secret"),
			Code:      r.FormValue("code"),
		}

		tokenResponse, err := s.flow.Token(r.Context(), tokenReq)
		if err != nil {
			if ierrors.Is(err, ierrors.ErrInvalidClient) {
				writeJSONError(w, "invalid_client", "Client authentication failed", http.StatusUnauthorized)
				return
			}
			writeJSONError(w, "invalid_grant", "The authorization code is invalid, expired or already used", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(tokenResponse)
	}
}

// HealthzHandler reports liveness
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// consentPageData builds the consent page data, including the accept and
// deny continuations that re-enter /authorize with the granted answer.
func consentPageData(result *auth.AuthorizeResult) ConsentPageData {
	accept := *result.Params
	accept.Granted = auth.GrantedYes
	deny := *result.Params
	deny.Granted = "no"

	return ConsentPageData{
		AppName:        result.Consent.AppName,
		ResourceName:   result.Consent.ResourceName,
		Scope:          result.Consent.Scope,
		AuthorizedApps: result.Consent.AuthorizedApps,
		AcceptURL:      "/authorize?" + accept.Values().Encode(),
		DenyURL:        "/authorize?" + deny.Values().Encode(),
	}
}

// writeJSONError writes an OAuth2 error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
