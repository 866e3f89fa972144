package logger

import (
	"testing"

	"github.com/totoapp/expenses-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestObjHelpersWriteStructuredField(t *testing.T) {
	prev := S
	defer func() { S = prev }()

	core, logs := observer.New(zapcore.DebugLevel)
	S = zap.New(core).Sugar()

	var log Logger = zapLogger{}
	log.InfoObj("request done", "http_result", map[string]any{"status": 200})
	log.DebugObj("debug", "k", 1)
	log.WarnObj("warn", "k", 2)
	log.ErrorObj("error", "k", 3)

	if logs.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", logs.Len())
	}
	first := logs.All()[0]
	if first.Message != "request done" {
		t.Fatalf("unexpected message %q", first.Message)
	}
	if _, ok := first.ContextMap()["http_result"]; !ok {
		t.Fatalf("missing http_result field: %#v", first.ContextMap())
	}
}

func TestHelpersNoopBeforeInit(t *testing.T) {
	prev := S
	defer func() { S = prev }()
	S = nil

	InfoObj("ignored", "k", "v")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	prev := S
	defer func() { S = prev }()

	log, err := Init(&config.Config{LogLevel: "debug", AppName: "test", LogOutput: "stderr"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log == nil || S == nil {
		t.Fatalf("expected logger to be initialized")
	}
}
