package server

import (
	"html/template"
	"net/http"

	"github.com/resauth/go-auth-server/auth"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login and login-failure pages
type LoginPageData struct {
	ResponseType string
	ClientID     string
	ResourceID   string
	RedirectURI  string
	State        string
	Scope        string
	Username     string
	Error        string
}

func loginPageData(params *auth.AuthorizationParameters, username string) LoginPageData {
	return LoginPageData{
		ResponseType: string(params.ResponseType),
		ClientID:     params.ClientID,
		ResourceID:   params.ResourceID,
		RedirectURI:  params.RedirectURI,
		State:        params.State,
		Scope:        params.Scope,
		Username:     username,
	}
}

// LoginHandler authenticates the resource owner (GET /login). A request
// without credentials renders the login form; a credential mismatch
// re-renders it with the original authorize parameters preserved; a
// success attaches the session cookie and redirects to /authorize so the
// flow continues without a second hop.
func (s *Server) LoginHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}
	loginFailTmpl, err := ParseTemplate("login_fail.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login_fail template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		params := auth.ParseAuthorizationParameters(query)
		username := query.Get("username")
		password := query.Get("password")

		// First visit: no credentials submitted yet
		if username == "" && password == "" {
			s.renderPage(w, loginTmpl, loginPageData(params, ""))
			return
		}

		result, err := s.flow.Login(r.Context(), username, password, params)
		if err != nil {
			log.Err(err).Msg("login failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		switch result.Outcome {
		case auth.OutcomeRedirect:
			s.SetSessionCookie(w, r, result.SessionID, int(s.config.GetSessionTTL().Seconds()))
			http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		case auth.OutcomeLoginFailed:
			s.renderPage(w, loginFailTmpl, loginPageData(params, username))
		case auth.OutcomeError:
			s.renderErrorPage(w, result.Reason)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// LogoutHandler clears the session (GET /logout). It succeeds whatever
// the session state and renders a neutral confirmation page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	logoutTmpl, err := ParseTemplate("logout.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse logout template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.flow.Logout(r.Context(), sessionIDFromRequest(r)); err != nil {
			log.Err(err).Msg("logout failed to clear session")
		}
		s.ClearSessionCookie(w, r)
		s.renderPage(w, logoutTmpl, nil)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, data any) {
	if tmpl == nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
	}
}

func (s *Server) renderErrorPage(w http.ResponseWriter, reason error) {
	errorTmpl, err := ParseTemplate("error.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse error template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, errorTmpl, struct{ Message string }{Message: errorPageMessage(reason)})
}

func errorPageMessage(reason error) string {
	switch {
	case ierrors.Is(reason, ierrors.ErrUnsupportedResponseType):
		return "The response type is not supported. Only response_type=code is accepted."
	case ierrors.Is(reason, ierrors.ErrClientNotFound):
		return "The requested application was not found for this account."
	case ierrors.Is(reason, ierrors.ErrAccessDenied):
		return "Access to the requested resource was denied."
	default:
		return "The authorization request could not be completed."
	}
}
