// Package logger provides a structured logging interface for the Reddit miner.
//
// It wraps zerolog behind a small Logger interface with field helpers:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("subreddit", "EarthPorn").Info("Collecting posts")
//	logger.GetLogger().InfoWithFields("Listing page processed", map[string]interface{}{
//	    "page":      2,
//	    "collected": 57,
//	})
//
// Console output is written to stderr with short coloured level tags. When a
// log file is configured, entries are also appended to it as JSON lines.
//
// Tests can use NewNopLogger to silence output or NewTestLogger to capture
// messages and assert on them.
package logger
