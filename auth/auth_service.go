package auth

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/resauth/go-auth-server/apps"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/resauth/go-auth-server/internal/metrics"
	"github.com/resauth/go-auth-server/permissions"
	"github.com/resauth/go-auth-server/resources"
	"github.com/resauth/go-auth-server/sessions"
	"github.com/resauth/go-auth-server/token"
	"github.com/resauth/go-auth-server/users"
)

// Repos holds all repository dependencies for the FlowService
type Repos struct {
	Users     users.Repo
	Apps      apps.Repo
	Resources resources.Repo
}

// FlowService is the authorization protocol state machine. Each request's
// decision is a pure function of entity reads plus at most one write:
// code issuance on grant, code redemption on exchange. It holds no
// mutable state of its own, so it is safe to share across requests.
type FlowService struct {
	repos   Repos
	gate    *sessions.Gate
	checker permissions.Checker
	issuer  *token.Issuer
	metrics metrics.Collector
}

// FlowServiceOption defines a function type to modify the FlowService instance.
type FlowServiceOption func(*FlowService)

// WithMetrics replaces the default no-op metrics collector.
func WithMetrics(collector metrics.Collector) FlowServiceOption {
	return func(fs *FlowService) {
		fs.metrics = collector
	}
}

// NewFlowService initializes a new FlowService with required dependencies.
func NewFlowService(
	repos Repos,
	gate *sessions.Gate,
	checker permissions.Checker,
	issuer *token.Issuer,
	options ...FlowServiceOption,
) (*FlowService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewFlowService] Users repo is required")
	}
	if repos.Apps == nil {
		return nil, errors.New("[NewFlowService] Apps repo is required")
	}
	if repos.Resources == nil {
		return nil, errors.New("[NewFlowService] Resources repo is required")
	}
	if gate == nil {
		return nil, errors.New("[NewFlowService] session gate is required")
	}
	if checker == nil {
		return nil, errors.New("[NewFlowService] permission checker is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewFlowService] issuer is required")
	}

	flowService := &FlowService{
		repos:   repos,
		gate:    gate,
		checker: checker,
		issuer:  issuer,
		metrics: metrics.Noop{},
	}
	for _, opt := range options {
		opt(flowService)
	}
	return flowService, nil
}

// Login authenticates the resource owner and, on success, attaches a
// session and hands back a redirect to the authorize step carrying the
// original parameters, so login directly continues the flow.
func (fs *FlowService) Login(ctx context.Context, username, password string, params *AuthorizationParameters) (*LoginResult, error) {
	if err := params.ValidateResponseType(); err != nil {
		return &LoginResult{Outcome: OutcomeError, Params: params, Reason: err}, nil
	}

	user, err := fs.gate.Authenticate(ctx, username, password)
	if err != nil {
		fs.metrics.RecordLogin(false)
		return &LoginResult{Outcome: OutcomeLoginFailed, Params: params}, nil
	}

	sessionID, err := fs.gate.Attach(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[FlowService.Login] gate.Attach")
	}

	fs.metrics.RecordLogin(true)
	return &LoginResult{
		Outcome:     OutcomeRedirect,
		SessionID:   sessionID,
		RedirectURL: params.AuthorizePath(),
		Params:      params,
	}, nil
}

// Authorize evaluates one authorize request against the session gate, the
// permission checker and the consent answer, in that order.
func (fs *FlowService) Authorize(ctx context.Context, params *AuthorizationParameters) (*AuthorizeResult, error) {
	userID, attached := sessions.UserIDFromContext(ctx)
	if !attached {
		fs.metrics.RecordAuthorizeOutcome(string(OutcomeNeedsLogin))
		return &AuthorizeResult{Outcome: OutcomeNeedsLogin, Params: params}, nil
	}

	if err := params.ValidateResponseType(); err != nil {
		return fs.authorizeError(params, err), nil
	}

	app, err := fs.repos.Apps.Get(params.ClientID)
	if err != nil {
		return fs.authorizeError(params, ierrors.ErrClientNotFound), nil
	}

	resource, err := fs.repos.Resources.Get(params.ResourceID)
	if err != nil {
		return fs.authorizeError(params, ierrors.ErrAccessDenied), nil
	}

	// The relationship gates progress, not just existence: the app must be
	// linked to this user and the resource linked to the app.
	if !fs.checker.IsAppLinkedToUser(userID, app.ID) {
		return fs.authorizeError(params, ierrors.ErrClientNotFound), nil
	}
	if !fs.checker.IsResourceLinkedToApp(resource.ID, app.ID) {
		return fs.authorizeError(params, ierrors.ErrAccessDenied), nil
	}

	switch params.Granted {
	case "":
		fs.metrics.RecordAuthorizeOutcome(string(OutcomeNeedsConsent))
		return &AuthorizeResult{
			Outcome: OutcomeNeedsConsent,
			Params:  params,
			Consent: &ConsentPrompt{
				AppName:        app.Name,
				ResourceName:   resource.Name,
				Scope:          params.Scope,
				State:          params.State,
				AuthorizedApps: fs.checker.AppNamesForUser(userID, fs.appName),
			},
		}, nil
	case GrantedYes:
		redirectURL, err := fs.grant(ctx, userID, app, resource, params)
		if err != nil {
			return nil, errors.Wrap(err, "[FlowService.Authorize] grant")
		}
		fs.metrics.RecordAuthorizeOutcome(string(OutcomeRedirect))
		return &AuthorizeResult{Outcome: OutcomeRedirect, RedirectURL: redirectURL, Params: params}, nil
	default:
		return fs.authorizeError(params, ierrors.ErrAccessDenied), nil
	}
}

// Token exchanges an authorization code for an access token. Client
// authentication is exact secret equality; an app with no stored secret
// can never pass. Redemption and the used-mark are one atomic step, so a
// replayed code cannot mint a second token.
func (fs *FlowService) Token(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	app, err := fs.repos.Apps.Get(req.ClientID)
	if err != nil || !app.CheckSecret(req.AppSecret) {
		fs.metrics.RecordTokenFailure("invalid_client")
		return nil, ierrors.ErrInvalidClient
	}

	code, err := fs.issuer.Redeem(ctx, req.Code)
	if err != nil {
		fs.metrics.RecordTokenFailure(redeemFailureReason(err))
		return nil, ierrors.Wrapf(ierrors.ErrInvalidGrant, "[FlowService.Token] redeem (%v)", err)
	}

	// A code redeemed by a different app than it was issued to is a grant
	// failure even when that app's own credentials check out.
	if code.AppID != app.ID {
		fs.metrics.RecordTokenFailure("app_mismatch")
		return nil, ierrors.Wrapf(ierrors.ErrInvalidGrant, "[FlowService.Token] code issued to another app")
	}

	accessToken, err := fs.issuer.IssueToken(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "[FlowService.Token] issuer.IssueToken")
	}

	fs.metrics.RecordTokenIssued()
	return &TokenResponse{
		AccessToken: accessToken.Token,
		TokenType:   "Bearer",
		Resource:    accessToken.ResourceID,
		Scope:       accessToken.Scope,
	}, nil
}

// Logout clears the session. It always succeeds, whatever the session state.
func (fs *FlowService) Logout(ctx context.Context, sessionID string) error {
	return fs.gate.Clear(ctx, sessionID)
}

func (fs *FlowService) grant(ctx context.Context, userID string, app *apps.App, resource *resources.Resource, params *AuthorizationParameters) (string, error) {
	code, err := fs.issuer.IssueCode(ctx, token.IssueCodeRequest{
		UserID:      userID,
		AppID:       app.ID,
		ResourceID:  resource.ID,
		RedirectURI: params.RedirectURI,
		Scope:       params.Scope,
		State:       params.State,
	})
	if err != nil {
		return "", errors.Wrap(err, "issuer.IssueCode")
	}
	fs.metrics.RecordCodeIssued()

	redirectURL, err := callbackURL(params.RedirectURI, code.Code, params.State)
	if err != nil {
		return "", errors.Wrap(err, "callbackURL")
	}
	return redirectURL, nil
}

// appName resolves an app id to its display name for the consent listing.
func (fs *FlowService) appName(appID string) (string, bool) {
	app, err := fs.repos.Apps.Get(appID)
	if err != nil {
		return "", false
	}
	return app.Name, true
}

func (fs *FlowService) authorizeError(params *AuthorizationParameters, reason error) *AuthorizeResult {
	fs.metrics.RecordAuthorizeOutcome(string(OutcomeError))
	return &AuthorizeResult{Outcome: OutcomeError, Params: params, Reason: reason}
}

// callbackURL appends code and state to the app's redirect URI as query
// parameters, echoing state verbatim.
func callbackURL(redirectURI, code, state string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", errors.Wrap(err, "invalid redirect URI")
	}
	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func redeemFailureReason(err error) string {
	switch {
	case ierrors.Is(err, ierrors.ErrCodeAlreadyUsed):
		return "code_already_used"
	case ierrors.Is(err, ierrors.ErrCodeExpired):
		return "code_expired"
	default:
		return "code_not_found"
	}
}
