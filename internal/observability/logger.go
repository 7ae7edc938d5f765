package observability

import (
	"os"

	"github.com/danmuck/locuslink/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the process logger for app and installs it globally.
func InitLogger(app string) zerolog.Logger {
	logger := logging.New(os.Stdout, app)
	log.Logger = logger
	return logger
}
