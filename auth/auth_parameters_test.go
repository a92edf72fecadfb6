package auth_test

import (
	"net/url"
	"testing"

	"github.com/resauth/go-auth-server/auth"
	ierrors "github.com/resauth/go-auth-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestParseAuthorizationParameters(t *testing.T) {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", "1")
	query.Set("resource_id", "1")
	query.Set("redirect_uri", "http://www.google.com")
	query.Set("state", "xyz")
	query.Set("scope", "all")
	query.Set("granted", "yes")

	params := auth.ParseAuthorizationParameters(query)
	require.Equal(t, auth.CodeResponseType, params.ResponseType)
	require.Equal(t, "1", params.ClientID)
	require.Equal(t, "1", params.ResourceID)
	require.Equal(t, "http://www.google.com", params.RedirectURI)
	require.Equal(t, "xyz", params.State)
	require.Equal(t, "all", params.Scope)
	require.Equal(t, "yes", params.Granted)
}

func TestValuesOmitsUnsetFields(t *testing.T) {
	params := &auth.AuthorizationParameters{
		ResponseType: auth.CodeResponseType,
		ClientID:     "1",
	}

	values := params.Values()
	require.Equal(t, "code", values.Get("response_type"))
	require.Equal(t, "1", values.Get("client_id"))
	_, hasState := values["state"]
	require.False(t, hasState)
	_, hasGranted := values["granted"]
	require.False(t, hasGranted)
}

func TestAuthorizePathRoundTrip(t *testing.T) {
	params := &auth.AuthorizationParameters{
		ResponseType: auth.CodeResponseType,
		ClientID:     "1",
		ResourceID:   "1",
		RedirectURI:  "http://www.google.com",
		State:        "xyz",
		Scope:        "all",
	}

	u, err := url.Parse(params.AuthorizePath())
	require.NoError(t, err)
	require.Equal(t, "/authorize", u.Path)
	require.Equal(t, params, auth.ParseAuthorizationParameters(u.Query()))
}

func TestValidateResponseType(t *testing.T) {
	params := &auth.AuthorizationParameters{ResponseType: auth.CodeResponseType}
	require.NoError(t, params.ValidateResponseType())

	for _, rt := range []auth.ResponseType{"", "token", "CODE"} {
		params.ResponseType = rt
		require.ErrorIs(t, params.ValidateResponseType(), ierrors.ErrUnsupportedResponseType)
	}
}
