package natsutil

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

type testMsg struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func runServer(t *testing.T) *natsserver.Server {
	t.Helper()
	s, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatal(err)
	}
	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(s.Shutdown)
	return s
}

func TestNatsHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*natsHeaderCarrier)(msg)

	carrier.Set("traceparent", "00-abc-def-01")
	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("expected traceparent, got %q", got)
	}
	if keys := carrier.Keys(); len(keys) != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestNatsHeaderCarrierNilHeader(t *testing.T) {
	carrier := (*natsHeaderCarrier)(&nats.Msg{})
	if got := carrier.Get("missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if keys := carrier.Keys(); keys != nil {
		t.Fatalf("expected nil keys, got %v", keys)
	}
}

func TestPublishSubscribe(t *testing.T) {
	s := runServer(t)
	nc, err := Connect(s.ClientURL(), "natsutil-test", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer nc.Close()

	ch := make(chan testMsg, 1)
	sub, err := Subscribe(nc, "test.subject", func(_ context.Context, m testMsg) { ch <- m })
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	// malformed payloads are dropped
	nc.Publish("test.subject", []byte("{broken"))
	if err := Publish(context.Background(), nc, "test.subject", testMsg{Name: "a", Value: 42}); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ch:
		if got.Name != "a" || got.Value != 42 {
			t.Fatalf("unexpected message %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}
