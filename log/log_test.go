// log/log_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"testing"
)

func TestNilLoggerDoesNotPanic(t *testing.T) {
	var l *Logger

	l.Debug("hello")
	l.Info("hello")
	l.Warn("hello")
	l.Error("hello")
	l.Debugf("hello %d", 1)
	l.Infof("hello %d", 1)
	l.Warnf("hello %d", 1)
	l.Errorf("hello %d", 1)
}

func TestNewWritesStartupRecords(t *testing.T) {
	dir := t.TempDir()
	l := New("debug", dir)
	if l.LogFile == "" {
		t.Fatal("expected non-empty LogFile")
	}
	if l.LogDir != dir {
		t.Fatalf("LogDir = %q, want %q", l.LogDir, dir)
	}
}

func TestCallstackNonEmpty(t *testing.T) {
	fr := Callstack(nil)
	if len(fr) == 0 {
		t.Fatal("expected at least one stack frame")
	}
	if fr[0].Function == "" {
		t.Fatal("expected non-empty function name in top frame")
	}
}

func TestCatchAndReportCrashRecovers(t *testing.T) {
	l := New("error", t.TempDir())

	func() {
		defer l.CatchAndReportCrash()
		panic("boom")
	}()
	// reaching here means the panic was recovered
}
