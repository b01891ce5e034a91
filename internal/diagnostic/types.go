package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fixturegen/internal/common"
)

// Diagnostic codes.
const (
	CodeUsage          = "usage"
	CodeUnusedSelector = "unused_selector"
	CodeRecovered      = "recovered"
	CodeMaxDepth       = "max_depth"
	CodeUnresolved     = "unresolved_assignment"
)

// Diagnostics holds all diagnostic information of one creation call.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code    string
	Message string
	// Subject is the selector or node this relates to (if any).
	Subject string
	// Location is the declaration site or node path (if any).
	Location    string
	Suggestions []string
	// Err is the underlying error, kept for errors.Is and errors.As.
	Err error
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Level maps the severity to a log level.
func (s DiagnosticSeverity) Level() slog.Level {
	switch s {
	case DiagnosticError:
		return slog.LevelError
	case DiagnosticWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// AddError adds an error diagnostic wrapping err.
func (d *Diagnostics) AddError(code string, err error, subject, location string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  err.Error(),
		Subject:  subject,
		Location: location,
		Err:      err,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, subject, location string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Location: location,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, subject, location string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Location: location,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err returns nil without errors, the error itself for a single one and a
// joined error otherwise. Wrapped errors stay reachable with errors.Is.
func (d *Diagnostics) Err() error {
	switch len(d.Errors) {
	case 0:
		return nil
	case 1:
		return d.Errors[0].Err
	}

	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = e.Err
	}

	return errors.Join(errs...)
}

// Log writes warnings and infos to logger.
func (d *Diagnostics) Log(ctx context.Context, logger *slog.Logger) {
	for _, list := range [][]Diagnostic{d.Warnings, d.Infos} {
		for _, w := range list {
			logger.Log(ctx, w.Severity.Level(), w.Message,
				slog.String("code", w.Code),
				slog.String("subject", w.Subject),
				slog.String("location", w.Location),
			)
		}
	}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if d.Location != "" {
		prefix = append(prefix, d.Location)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
