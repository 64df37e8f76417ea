//go:build integration

// Integration tests against a running server: murals serve
//
// Run: go test -tags=integration ./pkg/muralclient/
package muralclient_test

import (
	"context"
	"os"
	"testing"

	"github.com/joeblew999/plat-murals/pkg/muralclient"
)

func liveClient() *muralclient.Client {
	u := os.Getenv("MURALS_BASE_URL")
	if u == "" {
		u = "http://localhost:8086"
	}
	return muralclient.New(u)
}

func TestLiveHealth(t *testing.T) {
	h, err := liveClient().Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" {
		t.Fatalf("status=%q, want ok", h.Status)
	}
}

func TestLiveListMurals(t *testing.T) {
	if _, err := liveClient().ListMurals(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestLiveListBuildings(t *testing.T) {
	if _, err := liveClient().ListBuildings(context.Background()); err != nil {
		t.Fatal(err)
	}
}
