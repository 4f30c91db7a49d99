package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestApplicationStartStop(t *testing.T) {
	port := freePort(t)
	t.Setenv("CYBERLENS_SERVER_PORT", fmt.Sprintf("%d", port))
	t.Setenv("CYBERLENS_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("CYBERLENS_LOGGING_OUTPUT", "console")
	t.Setenv("CYBERLENS_SECURITY_RATE_LIMIT_ENABLED", "false")

	app, err := NewApplication()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Start(ctx, cancel)

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, app.Stop(context.Background()))

	// Server no longer accepts connections after Stop.
	_, err = http.Get(url)
	assert.Error(t, err)
}
