package app

import (
	"testing"
	"time"

	"github.com/kapofest/cheerboard/internal/config"
	"github.com/kapofest/cheerboard/internal/platform/logging"
)

func TestNew_MemoryMode(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:           ":0",
		HomeSchoolToken:    "kaist",
		AwaySchoolToken:    "postech",
		BattlePollInterval: 10 * time.Second,
		BattleMaxItems:     200,
		CacheEnabled:       true,
		CacheTTL:           time.Second,
	}

	application, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			t.Fatalf("close app: %v", err)
		}
	}()

	if application.Server == nil || application.Server.Handler == nil {
		t.Fatal("expected wired http server")
	}
	if application.Poller == nil {
		t.Fatal("expected wired battle poller")
	}
}

func TestNew_EmptyAddrFails(t *testing.T) {
	if _, err := New(config.Config{}, logging.NewNop()); err == nil {
		t.Fatal("expected error for empty http addr")
	}
}
