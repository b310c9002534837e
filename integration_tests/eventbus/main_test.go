package eventbusintegrationtests

import (
	"os"
	"testing"

	"github.com/ahalia-sports/tournament-admin/integration_tests/testutils"
)

var shared testutils.Shared

func TestMain(m *testing.M) {
	oldAppEnv := os.Getenv("APP_ENV")
	os.Setenv("APP_ENV", "test")

	exitCode := m.Run()

	os.Setenv("APP_ENV", oldAppEnv)
	shared.Teardown()
	os.Exit(exitCode)
}
