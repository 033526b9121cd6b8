package tests

import (
	"os"
	"testing"

	"github.com/trezcool/darasa/core"
)

func TestMain(m *testing.M) {
	core.Conf.TestMode = true
	core.Conf.Debug = false // keep translated validation messages in responses
	os.Exit(m.Run())
}
