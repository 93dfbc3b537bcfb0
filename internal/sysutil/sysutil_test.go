package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		" ERROR ":   zerolog.ErrorLevel,
		"warn":      zerolog.WarnLevel,
		"warning":   zerolog.WarnLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"info":      zerolog.InfoLevel,
		"":          zerolog.InfoLevel,
		"verbose":   zerolog.InfoLevel, // unknown falls back to info
		"  DeBuG  ": zerolog.DebugLevel,
	}
	for in, want := range cases {
		SetLogLevel(in)
		if got := zerolog.GlobalLevel(); got != want {
			t.Errorf("SetLogLevel(%q): global level = %v, want %v", in, got, want)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "Yes", " y ", "ON"} {
		if !IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "nope", "off", "	", "2"} {
		if IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = true, want false", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("FirstNonEmpty() = %q, want empty", got)
	}
	if got := FirstNonEmpty("", "  ", "\t"); got != "" {
		t.Errorf("FirstNonEmpty(blanks) = %q, want empty", got)
	}
	// The winning value keeps its original spacing.
	if got := FirstNonEmpty("", " v1.2 ", "dev"); got != " v1.2 " {
		t.Errorf("FirstNonEmpty = %q, want %q", got, " v1.2 ")
	}
	if got := FirstNonEmpty("dev", "ignored"); got != "dev" {
		t.Errorf("FirstNonEmpty = %q, want %q", got, "dev")
	}
}
