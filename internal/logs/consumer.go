package logs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	arborlevels "github.com/ternarybob/arbor/levels"
	arbormodels "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
)

// defaultExcludePatterns filters chatter that would loop straight back
// into the log stream or add no value to a connected client.
var defaultExcludePatterns = []string{
	"WebSocket client connected",
	"WebSocket client disconnected",
	"HTTP request",
	"HTTP response",
	"Publishing event",
}

// Consumer drains log batches from arbor's context channel and republishes
// displayable lines onto the event bus for websocket delivery. Logs are
// not persisted here; retention belongs to the file writer.
type Consumer struct {
	eventService    interfaces.EventService
	logger          arbor.ILogger
	channel         chan []arbormodels.LogEvent
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	minEventLevel   arbor.LogLevel // Minimum log level to publish as events
	excludePatterns []string
}

// NewConsumer creates a new log consumer
func NewConsumer(eventService interfaces.EventService, logger arbor.ILogger, config *common.WebSocketConfig) *Consumer {
	minLevel := "info"
	excludePatterns := defaultExcludePatterns
	if config != nil {
		if config.MinLevel != "" {
			minLevel = config.MinLevel
		}
		if len(config.ExcludePatterns) > 0 {
			excludePatterns = config.ExcludePatterns
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		eventService:    eventService,
		logger:          logger,
		channel:         make(chan []arbormodels.LogEvent, 10),
		ctx:             ctx,
		cancel:          cancel,
		minEventLevel:   parseLogLevel(minLevel),
		excludePatterns: excludePatterns,
	}
}

// parseLogLevel converts string log level to arbor.LogLevel
func parseLogLevel(levelStr string) arbor.LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return arbor.DebugLevel
	case "info":
		return arbor.InfoLevel
	case "warn", "warning":
		return arbor.WarnLevel
	case "error":
		return arbor.ErrorLevel
	default:
		return arbor.InfoLevel
	}
}

// convertTo3Letter converts full level names to 3-letter codes
func convertTo3Letter(level string) string {
	switch strings.ToUpper(level) {
	case "INFO":
		return "INF"
	case "WARN", "WARNING":
		return "WRN"
	case "ERROR":
		return "ERR"
	case "DEBUG":
		return "DBG"
	default:
		// If already 3 letters, return as-is (uppercase)
		if len(level) == 3 {
			return strings.ToUpper(level)
		}
		return "INF"
	}
}

// GetChannel returns the channel for arbor to send log batches to
func (c *Consumer) GetChannel() chan []arbormodels.LogEvent {
	return c.channel
}

// Start launches the consumer goroutine
func (c *Consumer) Start() error {
	c.wg.Add(1)
	go c.consume()
	return nil
}

// Stop gracefully shuts down the consumer
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.logger.Info().Msg("Log consumer stopped")
	return nil
}

// consume processes log batches from arbor and republishes them as events
func (c *Consumer) consume() {
	defer c.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Log consumer panic recovered")
		}
	}()

	for {
		select {
		case batch, ok := <-c.channel:
			if !ok {
				// Channel closed, exit gracefully
				return
			}

			for _, event := range batch {
				if c.eventService == nil || !c.shouldPublish(event) {
					continue
				}

				// Publish failures are dropped lines, nothing more.
				// Logging them here would recurse through this consumer.
				c.eventService.Publish(c.ctx, interfaces.Event{
					Type:    interfaces.EventLogMessage,
					Payload: transformEvent(event),
				})
			}

		case <-c.ctx.Done():
			// Context cancelled, exit gracefully
			return
		}
	}
}

// shouldPublish applies the level threshold and exclusion patterns
func (c *Consumer) shouldPublish(event arbormodels.LogEvent) bool {
	if arborlevels.FromLogLevel(event.Level) < c.minEventLevel {
		return false
	}

	for _, pattern := range c.excludePatterns {
		if strings.Contains(event.Message, pattern) {
			return false
		}
	}

	return true
}

// transformEvent converts an arbor LogEvent to the compact display form
func transformEvent(event arbormodels.LogEvent) models.LogEntry {
	message := event.Message
	for key, value := range event.Fields {
		message += fmt.Sprintf(" %s=%v", key, value)
	}

	return models.LogEntry{
		Timestamp: event.Timestamp.Format("15:04:05"),
		Level:     convertTo3Letter(event.Level.String()),
		Message:   message,
	}
}
