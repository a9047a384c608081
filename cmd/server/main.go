package main

import (
	"context"
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/espn-power-rankings/internal/config"
	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sam-maryland/espn-power-rankings/internal/mcp"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to the power rankings settings file")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", cfg.LogLevel).Warn("Invalid log level, keeping info")
	} else {
		logger.SetLevel(level)
	}

	clientCfg := espn.ClientConfig{
		BaseURL:   cfg.ESPN.BaseURL,
		Timeout:   cfg.ESPN.Timeout,
		UserAgent: cfg.ESPN.UserAgent,
	}

	if cfg.Cache.Enabled() {
		cache, err := espn.NewRedisCacheFromURL(context.Background(), cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			logger.WithError(err).Warn("Redis cache unavailable, fetching from ESPN directly")
		} else {
			defer cache.Close()
			clientCfg.Cache = cache
			logger.Info("Caching ESPN responses in Redis")
		}
	}

	mcpServer := mcp.NewPowerRankingsMCPServer(espn.NewHTTPClient(logger, clientCfg), logger, cfg)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting ESPN Power Rankings MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Error("Server failed to start")
		os.Exit(1)
	}
}
