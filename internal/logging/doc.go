// Package logging builds the log/slog loggers used by bing-wallpaper.
//
// A scheduled run appends plain text records to log.txt in the working
// directory. Interactive runs (-u) log to the console instead, with level
// colors when stdout is a terminal.
//
//	logger, closeLog, err := logging.New(logging.Options{Level: "info", Path: "log.txt"})
//	defer closeLog()
//	logger, runID := logging.WithRun(logger)
package logging
