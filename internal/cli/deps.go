package cli

import (
	"math/rand/v2"
	"net/http"

	"github.com/yildizm/Koryaku/internal/config"
	"github.com/yildizm/Koryaku/internal/logger"
	"github.com/yildizm/Koryaku/internal/session"
	"github.com/yildizm/Koryaku/internal/templates"
)

// newRand returns the random source for shuffles and jitter. A zero seed
// picks a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 - presentation order
	}
	return rand.New(rand.NewPCG(seed, seed)) // #nosec G404 - reproducible runs
}

// newSource resolves the configured templates location
func newSource(cfg *config.Config) templates.Source {
	client := &http.Client{Timeout: cfg.Templates.FetchTimeout}
	return templates.SourceFor(cfg.Templates.Source, client)
}

func newLogger() *logger.Logger {
	return logger.NewWithCallback("cli", isVerbose)
}

// sessionOptions builds controller options from cfg
func sessionOptions(cfg *config.Config, log *logger.Logger) session.Options {
	return session.Options{
		Timing:      cfg.SequencerTiming(),
		CopyConfirm: cfg.Timing.CopyConfirm,
		Rand:        newRand(cfg.Seed),
		Logger:      log,
	}
}
