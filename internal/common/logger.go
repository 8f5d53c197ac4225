package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const logTimeFormat = "15:04:05"

func consoleWriter() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       logTimeFormat,
		TextOutput:       true,
		DisableTimestamp: false,
	}
}

// DefaultLogger returns a console-only logger for use before configuration
// has been loaded.
func DefaultLogger() arbor.ILogger {
	return arbor.NewLogger().WithConsoleWriter(consoleWriter())
}

// InitLogger builds the arbor logger from the logging configuration.
// File output lands in ./logs, the same directory the crash handler
// writes to.
func InitLogger(config *Config) arbor.ILogger {
	logger := arbor.NewLogger()

	var fileAdded, consoleAdded bool
	for _, output := range config.Logging.Output {
		switch output {
		case "file":
			if fileAdded {
				continue
			}
			if err := os.MkdirAll("logs", 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to create logs directory: %v\n", err)
				continue
			}
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:             models.LogWriterTypeFile,
				FileName:         filepath.Join("logs", "nephra.log"),
				TimeFormat:       logTimeFormat,
				MaxSize:          20 * 1024 * 1024, // 20 MB
				MaxBackups:       5,
				TextOutput:       true,
				DisableTimestamp: false,
			})
			fileAdded = true
		case "stdout", "console":
			if consoleAdded {
				continue
			}
			logger = logger.WithConsoleWriter(consoleWriter())
			consoleAdded = true
		default:
			fmt.Fprintf(os.Stderr, "Warning: unknown log output %q ignored\n", output)
		}
	}

	return logger.WithLevelFromString(config.Logging.Level)
}
