package database

import (
	"os"
	"testing"

	"github.com/reflectionapp/reflection/api/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "console",
	})
	os.Exit(m.Run())
}
