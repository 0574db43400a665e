package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/server/config"
)

func testConfig(addr string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = addr
	cfg.ConnLimit = 8
	return cfg
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer(testConfig("127.0.0.1:0"), nopLogger{}, &fakeUsers{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer(testConfig("127.0.0.1:99999"), nopLogger{}, &fakeUsers{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected listen error for invalid port")
	}
}
