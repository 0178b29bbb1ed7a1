package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "tcg.log"

var (
	mu            sync.Mutex
	consoleWriter io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
)

// Init sets up the global logger with human-readable output on stderr.
// EnableFile adds the rotating log file once the configuration is known.
func Init(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
}

// EnableFile tees the global logger into a rotating file in logDir. When the
// directory is not writable, logging stays on stderr only and the error is
// returned.
func EnableFile(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	fileWriter, err := openFile(logDir)
	if err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Logging to stderr only")
		return err
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(consoleWriter, fileWriter)).
		With().
		Timestamp().
		Logger()
	return nil
}

func openFile(logDir string) (io.Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	// MkdirAll succeeds on existing read-only directories.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, err
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}, nil
}
