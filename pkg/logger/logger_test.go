package logger_test

import (
	"bytes"
	stdlog "log"
	"strings"
	"testing"

	"github.com/gomind-search/pipeline/pkg/logger"
)

// captureOutput redirects the standard logger's writer for the duration of
// fn and returns everything written to it.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	original := stdlog.Writer()
	defer stdlog.SetOutput(original)

	var buf bytes.Buffer
	stdlog.SetOutput(&buf)
	fn()
	return buf.String()
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

// TestSimpleLogger_MapFieldsAreRendered guards against a prior bug where
// passing a single map[string]interface{} (the convention pkg/search uses
// throughout) was silently dropped instead of rendered as key=value pairs.
func TestSimpleLogger_MapFieldsAreRendered(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.Info("operator completed", map[string]interface{}{
			"operator": "vector_search",
			"ms":       145,
		})
	})

	assertContains(t, output, "operator=vector_search")
	assertContains(t, output, "ms=145")
}

// TestSimpleLogger_SingleFieldStructRendered guards the second calling
// convention this codebase uses: a single logger.Field argument.
func TestSimpleLogger_SingleFieldStructRendered(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.Warn("retrying", logger.Field{Key: "attempt", Value: 2})
	})

	assertContains(t, output, "attempt=2")
}

// TestSimpleLogger_KeyValuePairsRendered covers the third convention: a flat
// key, value, key, value... argument list.
func TestSimpleLogger_KeyValuePairsRendered(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.Error("operator failed", "operator", "reranking", "error", "boom")
	})

	assertContains(t, output, "operator=reranking")
	assertContains(t, output, "error=boom")
}

func TestSimpleLogger_LevelPrefixes(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.SetLevel("debug")
		log.Debug("d")
		log.Info("i")
		log.Warn("w")
		log.Error("e")
	})

	assertContains(t, output, "[DEBUG] d")
	assertContains(t, output, "[INFO] i")
	assertContains(t, output, "[WARN] w")
	assertContains(t, output, "[ERROR] e")
}

// TestSimpleLogger_LevelFiltering verifies messages below the configured
// level are suppressed entirely.
func TestSimpleLogger_LevelFiltering(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.SetLevel("error")
		log.Debug("debug suppressed")
		log.Info("info suppressed")
		log.Warn("warn suppressed")
		log.Error("error kept")
	})

	if strings.Contains(output, "suppressed") {
		t.Fatalf("expected messages below error level to be suppressed, got %q", output)
	}
	assertContains(t, output, "error kept")
}

// TestSimpleLogger_DebugSuppressedByDefault pins the default level at Info.
func TestSimpleLogger_DebugSuppressedByDefault(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger()
		log.Debug("should not appear")
	})

	if strings.Contains(output, "should not appear") {
		t.Fatalf("expected debug to be suppressed at default level, got %q", output)
	}
}

// TestSimpleLogger_WithFieldPersists verifies child loggers carry their
// fields into every subsequent line, and that the parent is unaffected.
func TestSimpleLogger_WithFieldPersists(t *testing.T) {
	log := logger.NewSimpleLogger()
	child := log.WithField("request_id", "req-1")

	childOutput := captureOutput(t, func() {
		child.Info("executing plan")
	})
	assertContains(t, childOutput, "request_id=req-1")

	parentOutput := captureOutput(t, func() {
		log.Info("no request context")
	})
	if strings.Contains(parentOutput, "request_id") {
		t.Fatalf("parent logger must not inherit child fields, got %q", parentOutput)
	}
}

func TestSimpleLogger_WithFieldsPersists(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger().WithFields(map[string]interface{}{
			"component": "executor",
			"version":   "1.0",
		})
		log.Info("started")
	})

	assertContains(t, output, "component=executor")
	assertContains(t, output, "version=1.0")
}

func TestSimpleLogger_WithPersists(t *testing.T) {
	output := captureOutput(t, func() {
		log := logger.NewSimpleLogger().With(
			logger.Field{Key: "component", Value: "emitter"},
		)
		log.Warn("publish failed")
	})

	assertContains(t, output, "component=emitter")
}
