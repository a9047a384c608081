package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sam-maryland/espn-power-rankings/internal/config"
	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sam-maryland/espn-power-rankings/internal/rankings"
	"github.com/sirupsen/logrus"
)

const leaguePrompt = "Please enter your league ID."

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one power ranking and returns the process exit code. The
// ranking goes to stdout only when every step succeeded.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("powerrank", flag.ContinueOnError)
	flags.SetOutput(stderr)
	leagueFlag := flags.String("league", "", "ESPN league ID (prompted for when omitted)")
	configPath := flags.String("config", "", "path to the power rankings settings file")
	verbose := flags.Bool("verbose", false, "print each team's composite weight")
	noAllPlay := flags.Bool("no-all-play", false, "rank on record and points for only, skipping the schedule")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load settings")
		return 1
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("Invalid log level, keeping info")
	} else {
		logger.SetLevel(level)
	}

	log := logger.WithField("run_id", uuid.New().String())

	var leagueID string
	if *leagueFlag != "" {
		leagueID, err = validateLeagueID(*leagueFlag)
	} else {
		leagueID, err = promptLeagueID(stdin, stdout)
	}
	if err != nil {
		log.WithError(err).Error("Invalid league ID")
		return 1
	}
	log = log.WithField("league_id", leagueID)
	log.Info("Computing power rankings")

	clientCfg := espn.ClientConfig{
		BaseURL:   cfg.ESPN.BaseURL,
		Timeout:   cfg.ESPN.Timeout,
		UserAgent: cfg.ESPN.UserAgent,
	}
	if cfg.Cache.Enabled() {
		cache, err := espn.NewRedisCacheFromURL(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			log.WithError(err).Warn("Redis cache unavailable, fetching from ESPN directly")
		} else {
			defer cache.Close()
			clientCfg.Cache = cache
		}
	}

	settings := cfg.GetLeagueSettings(leagueID)
	req := rankings.Request{
		LeagueID:       leagueID,
		IncludeAllPlay: settings.AllPlayEnabled() && !*noAllPlay,
		OpponentPool:   settings.OpponentPool,
	}

	service := rankings.NewService(espn.NewHTTPClient(logger, clientCfg), logger)
	report, err := service.PowerRankings(ctx, req)
	if err != nil {
		log.WithError(err).Error("Power rankings failed")
		return 1
	}

	if err := rankings.WriteRankings(stdout, report.Standings, *verbose); err != nil {
		log.WithError(err).Error("Failed to print rankings")
		return 1
	}

	log.WithFields(logrus.Fields{
		"teams":     len(report.Standings),
		"all_play":  report.AllPlay,
		"api_calls": report.APICallsUsed,
	}).Debug("Finished")
	return 0
}

// promptLeagueID asks for the league on w and reads one line from r
func promptLeagueID(r io.Reader, w io.Writer) (string, error) {
	if _, err := fmt.Fprintln(w, leaguePrompt); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading league ID: %w", err)
	}

	return validateLeagueID(line)
}

// validateLeagueID trims surrounding whitespace and requires an unsigned integer
func validateLeagueID(raw string) (string, error) {
	leagueID := strings.TrimSpace(raw)
	if leagueID == "" {
		return "", errors.New("league ID is required")
	}
	if _, err := strconv.ParseUint(leagueID, 10, 64); err != nil {
		return "", fmt.Errorf("league ID must be an unsigned integer, got %q", leagueID)
	}
	return leagueID, nil
}
