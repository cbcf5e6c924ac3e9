package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAccessCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	secret := make([]byte, jwtx.MinSecretLen)
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	codec, err := jwtx.NewCodec(jwtx.TokenTypeAccess, secret, "gatehouse-test")
	require.NoError(t, err)
	return codec
}

func signAccess(t *testing.T, codec *jwtx.Codec, role string) string {
	t.Helper()
	token, err := codec.Sign(jwtx.NewAccessClaims("01J7USER", "user@x.com", role, "soc1"), time.Minute)
	require.NoError(t, err)
	return token
}

// echoIdentity reports the identity the guard attached.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusInternalServerError, "no identity")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, id)
})

func TestAuthnMissingToken(t *testing.T) {
	handler := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(newAccessCodec(t)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), httpx.MsgAuthRequired)
}

func TestAuthnBearerHeader(t *testing.T) {
	codec := newAccessCodec(t)
	handler := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(codec))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signAccess(t, codec, "CLIENT"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "01J7USER")
}

func TestAuthnCookie(t *testing.T) {
	codec := newAccessCodec(t)
	handler := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(codec))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: signAccess(t, codec, "CLIENT")})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthnCookieWinsOverHeader(t *testing.T) {
	codec := newAccessCodec(t)
	handler := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(codec))

	// Valid cookie plus a garbage header: the cookie must be the only
	// source consulted, so the request succeeds.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: signAccess(t, codec, "CLIENT")})
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// And the inverse: a garbage cookie is not rescued by a valid header.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: "garbage"})
	req.Header.Set("Authorization", "Bearer "+signAccess(t, codec, "CLIENT"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthnInvalidAndExpiredTokens(t *testing.T) {
	codec := newAccessCodec(t)
	handler := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(codec))

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signAccess(t, codec, "CLIENT")+"x")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), httpx.MsgInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		zeroLeeway, err := jwtx.NewCodec(jwtx.TokenTypeAccess, secretOf(t, codec), "gatehouse-test", jwtx.WithLeeway(0))
		require.NoError(t, err)
		token, err := zeroLeeway.Sign(jwtx.NewAccessClaims("u", "u@x.com", "CLIENT", ""), -time.Minute)
		require.NoError(t, err)

		guarded := httpx.Chain(echoIdentity, httpx.AuthnMiddleware(zeroLeeway))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// secretOf rebuilds the deterministic test secret; codecs don't expose it.
func secretOf(t *testing.T, _ *jwtx.Codec) []byte {
	t.Helper()
	secret := make([]byte, jwtx.MinSecretLen)
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	return secret
}

func TestAuthnRedirectPreservesDestination(t *testing.T) {
	codec := newAccessCodec(t)
	handler := httpx.Chain(echoIdentity, httpx.AuthnRedirect(codec, "/login"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/reports?month=6", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login?redirect=%2Fdashboard%2Freports%3Fmonth%3D6",
		rec.Header().Get("Location"))
}
