package core

// errors.go maps internal errors to user-friendly messages with support
// codes. Users can quote the code when reporting a problem.
//
// Code groups:
//
//	VAL001 - a record is missing a required field
//	FILE001 - a results file could not be opened or read
//	FILE002 - a results file produced no complete lines
//	DB001  - the database rejected the ingest
//	DB002  - the database was unreachable or timed out
//	GEN001 - anything unclassified

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/annotatehq/turkread/internal/mturk"
)

// UserMessage is a user-facing rendering of an internal error.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError converts an internal error into a UserMessage. The technical
// error should still be logged server-side; this is only the public face.
func MapError(err error) UserMessage {
	var verr *mturk.ValidationError
	if errors.As(err, &verr) {
		return UserMessage{
			Code:    "VAL001",
			Message: "A record is missing the required field \"" + verr.Field + "\" (file: " + verr.File + ")",
			Action:  "Check that every row in the file has a value for this column, or drop it from the required fields",
		}
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return UserMessage{
			Code:    "FILE001",
			Message: "A results file could not be read",
			Action:  "Verify the file path and permissions",
		}
	}

	msg := ""
	if err != nil {
		msg = err.Error()
	}

	switch {
	case strings.Contains(msg, "no complete lines"):
		return UserMessage{
			Code:    "FILE002",
			Message: "The file contains no complete result rows",
			Action:  "Confirm this is an unmodified MTurk results download",
		}
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "timeout"):
		return UserMessage{
			Code:    "DB002",
			Message: "The database did not respond",
			Action:  "Try again in a few moments",
		}
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "violates"):
		return UserMessage{
			Code:    "DB001",
			Message: "The database rejected the ingested records",
			Action:  "Quote code DB001 when reporting this",
		}
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "Something went wrong while processing the request",
		Action:  "Try again, and quote code GEN001 if the problem persists",
	}
}
