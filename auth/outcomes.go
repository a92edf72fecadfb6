package auth

// Outcome names the structured result of a flow step. The presentation
// layer maps outcomes to pages or redirects and never takes part in the
// decision itself.
type Outcome string

const (
	// OutcomeNeedsLogin steers an unauthenticated authorize request to the
	// login form, original parameters preserved. Not an error.
	OutcomeNeedsLogin Outcome = "needs_login"

	// OutcomeLoginFailed re-renders the login form after a credential
	// mismatch; no session is attached and the parameters survive for retry.
	OutcomeLoginFailed Outcome = "login_failed"

	// OutcomeRedirect carries a redirect target: the authorize continuation
	// after login, or the app's redirect_uri with code and state after a grant.
	OutcomeRedirect Outcome = "redirect"

	// OutcomeNeedsConsent renders the consent screen. Terminal for the
	// request; the user's answer arrives as a fresh authorize request.
	OutcomeNeedsConsent Outcome = "needs_consent"

	// OutcomeError renders the error page. Reason carries the sentinel
	// (client not found, access denied, unsupported response type).
	OutcomeError Outcome = "error"
)

// ConsentPrompt is what the consent screen needs to show. AuthorizedApps
// lists the display names of every app already linked to the account.
type ConsentPrompt struct {
	AppName        string
	ResourceName   string
	Scope          string
	State          string
	AuthorizedApps []string
}

// LoginResult is the structured outcome of the login step.
type LoginResult struct {
	Outcome     Outcome
	SessionID   string // set when a session was attached
	RedirectURL string // set when Outcome == OutcomeRedirect
	Params      *AuthorizationParameters
	Reason      error // set when Outcome == OutcomeError
}

// AuthorizeResult is the structured outcome of the authorize step.
type AuthorizeResult struct {
	Outcome     Outcome
	RedirectURL string // set when Outcome == OutcomeRedirect
	Consent     *ConsentPrompt
	Params      *AuthorizationParameters
	Reason      error // set when Outcome == OutcomeError
}

// TokenRequest carries the code exchange inputs.
type TokenRequest struct {
	ClientID  string
	AppSecret string
	Code      string
}

// TokenResponse is the JSON payload of a successful exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Resource    string `json:"resource"`
	Scope       string `json:"scope,omitempty"`
}
