package gate_test

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/millhouse-dev/taskgate/internal/gate/biometric"
	httpapi "github.com/millhouse-dev/taskgate/internal/gate/http"
	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/internal/gate/store/drivers/sqlite"
	"github.com/millhouse-dev/taskgate/pkg/cryptox"
	"github.com/millhouse-dev/taskgate/pkg/jwtx"
	"github.com/millhouse-dev/taskgate/pkg/slogx"
)

// gateOptions tweaks the in-process daemon a test spins up.
type gateOptions struct {
	prompter        biometric.Prompter
	sessionDuration time.Duration
}

// setupGateServer boots the full daemon stack in-process against a
// throwaway database and returns its base URL. The server and store are
// torn down with the test.
func setupGateServer(t *testing.T, opts gateOptions) string {
	t.Helper()

	dir := t.TempDir()

	deviceKey, err := cryptox.LoadOrCreateDeviceKey(filepath.Join(dir, "device.key"))
	require.NoError(t, err)

	sealer, err := cryptox.NewSealer(deviceKey)
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(dir, "gate.db"))
	st, err := sqlite.NewStore(dsn, sealer)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSigner(deviceKey, "taskgate-test")
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{
		Service: "taskgate-test",
		Level:   "error",
		Format:  "text",
	})

	prompter := opts.prompter
	if prompter == nil {
		prompter = biometric.Unsupported{}
	}

	auth := &service.AuthService{
		Credentials:     st.Credentials(),
		Events:          st.AuthEvents(),
		Prompter:        prompter,
		Logger:          logger,
		SessionDuration: opts.sessionDuration,
	}

	session := service.NewSessionService(auth, logger, 10*time.Millisecond)
	session.Start()
	t.Cleanup(session.Stop)

	router := httpapi.NewRouter(signer, "test", st, logger)
	router.AuthService = auth
	router.SessionService = session
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv.URL
}

// writeHelperScript drops an executable fake biometric helper into a temp
// dir and returns its path. The script honours the capability and
// challenge subcommands with fixed outcomes.
func writeHelperScript(t *testing.T, challengeJSON string) string {
	t.Helper()

	script := fmt.Sprintf(`#!/bin/sh
case "$1" in
capability)
	echo '{"hardware": true, "enrolled": true}'
	;;
challenge)
	cat >/dev/null
	echo '%s'
	;;
*)
	exit 2
	;;
esac
`, challengeJSON)

	path := filepath.Join(t.TempDir(), "helper.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}
