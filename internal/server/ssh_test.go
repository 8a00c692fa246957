package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHostKeyPath(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		cfg := &SSHServerConfig{KeyPath: "/tmp/key"}
		got, err := cfg.HostKeyPath()
		if err != nil || got != "/tmp/key" {
			t.Errorf("HostKeyPath() = %q, %v, want /tmp/key", got, err)
		}
	})
	t.Run("default", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		got, err := (&SSHServerConfig{}).HostKeyPath()
		if err != nil {
			t.Fatalf("HostKeyPath() error = %v", err)
		}
		if !strings.HasSuffix(got, filepath.Join(".ssh", "tuitile_host_key")) {
			t.Errorf("HostKeyPath() = %q, want a key under .ssh", got)
		}
	})
}

func TestStartSSHServerStopsWithContext(t *testing.T) {
	cfg := &SSHServerConfig{
		Host:    "127.0.0.1",
		Port:    "0",
		KeyPath: filepath.Join(t.TempDir(), "host_key"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartSSHServer(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("StartSSHServer() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
