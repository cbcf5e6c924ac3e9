package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helpers for the end-to-end suite: container setup,
 * bootstrap credentials and the SDK wiring used by every test file.
 */

const (
	testImageName = "gatehouse-test:latest"

	adminEmail    = "admin@example.com"
	adminPassword = "E2eAdmin123!"

	accessSecret  = "e2e-access-signing-material-0123456789abcdef"
	refreshSecret = "e2e-refresh-signing-material-0123456789abcdef"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building gatehouse Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up gatehouse Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/gatehouse/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.Command("docker", "rmi", "-f", testImageName).Run()
}

// setupAuthContainer starts the service in a container and returns its base
// URL. Rate limits are loosened so rapid test requests don't trip them; the
// dedicated rate limit test uses defaults instead.
func setupAuthContainer(t *testing.T) (string, func()) {
	return startContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupAuthContainerWithDefaultRateLimits keeps the production rate limit
// profiles, for the test that proves they fire.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	return startContainer(t, nil)
}

// decodeJSONBody decodes a response body into v and closes it.
func decodeJSONBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"AUTH_ISSUER":               "gatehouse",
		"AUTH_ACCESS_TOKEN_SECRET":  accessSecret,
		"AUTH_REFRESH_TOKEN_SECRET": refreshSecret,
		"AUTH_DATABASE_FILE":        "/tmp/gatehouse.db",
		"AUTH_BOOTSTRAP_EMAIL":      adminEmail,
		"AUTH_BOOTSTRAP_PASSWORD":   adminPassword,
		"ENV":                       "dev",
		"LOG_LEVEL":                 "info",
		"LOG_FORMAT":                "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return baseURL, cleanup
}
