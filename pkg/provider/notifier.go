// Package provider keeps the client-side lists of condominios and assets and the current
// session in sync with the API.
package provider

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Notifier shows short user-facing messages about the outcome of a mutation.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

// WriterNotifier prints notifications as single lines, e.g. to a terminal's stderr.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Success(msg string) { fmt.Fprintf(n.W, "✔ %s\n", msg) }

func (n WriterNotifier) Failure(msg string, err error) {
	fmt.Fprintf(n.W, "✘ %s: %v\n", msg, err)
}

// LogNotifier reports through a zap logger.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Success(msg string) { n.Log.Info(msg) }

func (n LogNotifier) Failure(msg string, err error) { n.Log.Error(msg, zap.Error(err)) }
