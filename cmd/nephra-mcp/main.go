package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/storage"
)

func main() {
	// Load configuration
	configPath := os.Getenv("NEPHRA_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("nephra.toml"); err == nil {
			configPath = "nephra.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Initialize storage for history and interpretation tools. Never honor
	// reset_on_startup here: the MCP binary must not wipe the server's data.
	config.Storage.Badger.ResetOnStartup = false
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	scoreStorage := storageManager.ScoreStorage()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"nephra",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register scoring tools
	mcpServer.AddTool(createComputeScoreTool(), handleComputeScore(logger))
	mcpServer.AddTool(createInterpretScoreTool(), handleInterpretScore(scoreStorage, logger))

	// Register renal tools
	mcpServer.AddTool(createEstimateGFRTool(), handleEstimateGFR(logger))

	// Register history tools
	mcpServer.AddTool(createScoreHistoryTool(), handleScoreHistory(scoreStorage, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
