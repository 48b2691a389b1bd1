package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_FirstCallWins(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	first := Init(Options{Level: "debug", Output: &buf})
	if first.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", first.GetLevel())
	}

	// A second Init is a no-op; the singleton keeps the first configuration.
	second := Init(Options{Level: "error", Output: &bytes.Buffer{}})
	if second.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("second Init must not reconfigure, level = %v", second.GetLevel())
	}

	log := Get()
	log.Info().Msg("singleton write")
	if !strings.Contains(buf.String(), "singleton write") {
		t.Fatalf("Get() must return the logger wired to the first Init's output, got %q", buf.String())
	}
}

func TestReset_AllowsReinitialisation(t *testing.T) {
	Reset()
	defer Reset()

	Init(Options{Level: "warn", Output: &bytes.Buffer{}})
	Reset()

	log := Init(Options{Level: "error", Output: &bytes.Buffer{}})
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("Init after Reset must rebuild, level = %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		" DEBUG ": zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
