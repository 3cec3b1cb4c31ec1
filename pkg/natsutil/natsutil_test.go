package natsutil

import (
	"context"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startTestNATS(t *testing.T) (*natsserver.Server, *nats.Conn) {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Port: -1})
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	if !srv.ReadyForConnections(3 * time.Second) {
		t.Fatal("nats not ready")
	}
	nc, err := Connect(srv.ClientURL(), "natsutil-test", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		nc.Close()
		srv.Shutdown()
	})
	return srv, nc
}

type payload struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestNatsHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*natsHeaderCarrier)(msg)

	carrier.Set("traceparent", "00-abc-def-01")
	carrier.Set("traceparent", "00-abc-def-02")
	if got := carrier.Get("traceparent"); got != "00-abc-def-02" {
		t.Fatalf("expected overwritten traceparent, got %q", got)
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

func TestConnectBadURL(t *testing.T) {
	if _, err := Connect("nats://127.0.0.1:1", "x", nil); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestPublishSubscribe(t *testing.T) {
	_, nc := startTestNATS(t)

	ch := make(chan payload, 1)
	sub, err := Subscribe(nc, "test.pubsub", func(_ context.Context, p payload) { ch <- p })
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	// malformed first; it must be dropped
	if err := nc.Publish("test.pubsub", []byte("{bad")); err != nil {
		t.Fatal(err)
	}
	if err := Publish(context.Background(), nc, "test.pubsub", payload{Name: "a", Value: 1}); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ch:
		if got.Name != "a" || got.Value != 1 {
			t.Fatalf("unexpected: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublishMarshalError(t *testing.T) {
	_, nc := startTestNATS(t)
	if err := Publish(context.Background(), nc, "test.err", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestRequestRespond(t *testing.T) {
	_, nc := startTestNATS(t)

	sub, err := Respond(nc, "test.req", func(_ context.Context, p payload) (payload, error) {
		if p.Value < 0 {
			return payload{}, errors.New("negative")
		}
		return payload{Name: p.Name + "-resp", Value: p.Value * 2}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	resp, err := Request[payload, payload](context.Background(), nc, "test.req", payload{Name: "test", Value: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Name != "test-resp" || resp.Value != 10 {
		t.Fatalf("unexpected resp: %+v", resp)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := Request[payload, payload](ctx, nc, "test.req", payload{Value: -1}); err == nil {
		t.Fatal("handler error should leave the request unanswered")
	}
}

func TestRequestNoResponder(t *testing.T) {
	_, nc := startTestNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := Request[payload, payload](ctx, nc, "test.noreply", payload{}); err == nil {
		t.Fatal("expected error without responder")
	}
}

func TestRequestUnmarshalError(t *testing.T) {
	_, nc := startTestNATS(t)

	sub, err := nc.Subscribe("test.badjson", func(msg *nats.Msg) { _ = msg.Respond([]byte("{invalid")) })
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	if _, err := Request[payload, payload](context.Background(), nc, "test.badjson", payload{}); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
