package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version == "" {
		t.Error("version must never be empty")
	}
	if info.GoVersion == "" {
		t.Error("go version must be populated")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("platform should be os/arch, got %q", info.Platform)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef0123456789",
		Date:      "2026-08-31",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}
	s := info.String()
	if !strings.Contains(s, "1.2.3") {
		t.Errorf("missing version in %q", s)
	}
	if !strings.Contains(s, "abcdef01") || strings.Contains(s, "abcdef0123") {
		t.Errorf("commit should be shortened to 8 chars in %q", s)
	}
}

func TestInfo_Short(t *testing.T) {
	if got := (Info{Version: "0.4.0"}).Short(); got != "0.4.0" {
		t.Errorf("Short() = %q, want 0.4.0", got)
	}
}
