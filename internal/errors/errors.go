package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/habitconfig"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
	"github.com/julianstephens/daylog/internal/storage"
)

// hints suggest a next step for errors a user can fix themselves.
var hints = []struct {
	err  error
	hint string
}{
	{session.ErrNavigationDenied, "Only today and days you already logged can be opened."},
	{cli.ErrReadOnly, "Past days are editable only if they were logged on the day."},
	{session.ErrNotSkippable, "Allow skipping with 'daylog habits skippable NAME'."},
	{session.ErrUnknownAffirmation, "Run 'daylog affirmations' to list them."},
	{habitconfig.ErrHabitNotFound, "Run 'daylog habits' to see your habits."},
	{models.ErrInvalidMood, "Mood is a number from 0 (awful) to 4 (great)."},
	{storage.ErrEmbeddedCredentials, "Keep the password in DAYLOG_DB_CONNECTION, ~/.pgpass or 'daylog keyring set'."},
}

// Hint returns a suggested next step for err, or "" when there is none.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.err) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(stderr, Format(err))
		exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintln(stderr, Formatf(format, args...))
	exit(1)
}
