package auth_test

import (
	"net/http"
	"testing"

	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLoginMatrix(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	t.Run("bootstrap admin can log in", func(t *testing.T) {
		session, err := client.Login(t.Context(), authsdk.LoginRequest{
			Email: adminEmail, Password: adminPassword, Role: "SUPER_ADMIN",
		})
		require.NoError(t, err)
		require.Equal(t, "SUPER_ADMIN", session.User().Role)
		require.NoError(t, session.Logout(t.Context()))
	})

	t.Run("role field is optional", func(t *testing.T) {
		session, err := client.Login(t.Context(), authsdk.LoginRequest{
			Email: adminEmail, Password: adminPassword,
		})
		require.NoError(t, err)
		require.Equal(t, "SUPER_ADMIN", session.User().Role)
		require.NoError(t, session.Logout(t.Context()))
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := client.Login(t.Context(), authsdk.LoginRequest{
			Email: adminEmail, Password: "not-the-password", Role: "SUPER_ADMIN",
		})
		require.ErrorIs(t, err, authsdk.ErrAuthenticationFailed)
	})

	t.Run("unknown email rejected identically", func(t *testing.T) {
		_, err := client.Login(t.Context(), authsdk.LoginRequest{
			Email: "ghost@example.com", Password: adminPassword, Role: "SUPER_ADMIN",
		})
		require.ErrorIs(t, err, authsdk.ErrAuthenticationFailed)
	})

	t.Run("declared role mismatch is 403 with labelled message", func(t *testing.T) {
		_, err := client.Login(t.Context(), authsdk.LoginRequest{
			Email: adminEmail, Password: adminPassword, Role: "CLIENT",
		})
		require.Error(t, err)

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		require.Equal(t, "Access denied. Client privileges required.", apiErr.Message)
	})
}

func TestClientAccountLifecycle(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	admin, err := client.Login(t.Context(), authsdk.LoginRequest{
		Email: adminEmail, Password: adminPassword, Role: "SUPER_ADMIN",
	})
	require.NoError(t, err)

	// Admin creates a client account.
	resp, err := admin.Do(t.Context(), http.MethodPost, "/v1/accounts", authsdk.CreateAccountRequest{
		Email: "client@example.com", Password: "ClientPass123!", Role: "CLIENT", SocietyID: "soc-001",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// The new client can log in on the client form but not the admin one.
	clientSession, err := client.Login(t.Context(), authsdk.LoginRequest{
		Email: "client@example.com", Password: "ClientPass123!", Role: "CLIENT",
	})
	require.NoError(t, err)
	require.Equal(t, "soc-001", clientSession.User().SocietyID)

	_, err = client.Login(t.Context(), authsdk.LoginRequest{
		Email: "client@example.com", Password: "ClientPass123!", Role: "SUPER_ADMIN",
	})
	require.Error(t, err)

	// Clients cannot reach the admin surface: 403, not 401, so the SDK
	// does not try to refresh its way past the guard.
	resp, err = clientSession.Do(t.Context(), http.MethodPost, "/v1/accounts", authsdk.CreateAccountRequest{
		Email: "sneaky@example.com", Password: "SneakyPass123!", Role: "CLIENT", SocietyID: "soc-002",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}
