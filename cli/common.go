package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/navsim/config"
	"go.viam.com/navsim/logging"
)

const (
	logFileMaxMB   = 16
	logFileBackups = 2
)

// newLogger logs to the app's error writer at --log-level, or DEBUG when --debug is given at any
// level of the command. The returned function closes the --log-file output and must be called
// when the action returns.
func newLogger(c *cli.Context) (logging.Logger, func() error, error) {
	level, err := logging.LevelFromString(c.String(generalFlagLogLevel))
	if err != nil {
		return nil, nil, errors.Wrap(err, "--"+generalFlagLogLevel)
	}
	if anyBool(c, generalFlagDebug) {
		level = logging.DEBUG
	}
	logger := logging.NewBlankLogger("navsim")
	logger.SetLevel(level)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))

	path := c.Path(generalFlagLogFile)
	if path == "" {
		return logger, func() error { return nil }, nil
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxMB,
		MaxBackups: logFileBackups,
	}
	logger.AddAppender(logging.NewWriterAppender(file))
	return logger, file.Close, nil
}

func anyBool(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx.Bool(name) {
			return true
		}
	}
	return false
}

func progressEnabled(c *cli.Context) bool {
	return !anyBool(c, generalFlagQuiet)
}

// loadScenario reads --config, falling back to the defaults when it is not given.
func loadScenario(c *cli.Context) (*config.Scenario, error) {
	path := c.Path(generalFlagConfig)
	if path == "" {
		scenario := config.Default()
		return &scenario, nil
	}
	return config.Read(path)
}

// createFile creates path along with any missing parent directories.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	//nolint:gosec
	return os.Create(path)
}

// SchemaAction prints the JSON schema of scenario files.
func SchemaAction(c *cli.Context) error {
	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", data)
	return nil
}
