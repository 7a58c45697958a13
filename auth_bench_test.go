package qauth

import (
	"context"
	"testing"

	"github.com/luoxianli/qauth/session"
)

func benchEngine(conn Connection, store session.Store, auth Authentication) *Engine {
	return &Engine{
		config:    defaultConfig(),
		conn:      conn,
		store:     store,
		selection: auth,
		metrics:   NewMetrics(MetricsConfig{Enabled: true}),
	}
}

func BenchmarkAuthenticatePasswordNoChallenge(b *testing.B) {
	conn := newFakeConnection()
	conn.fallback = &LoginStep{Kind: StepSuccess}
	engine := benchEngine(conn, nil, UinPassword(1, "pw"))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Authenticate(context.Background()); err != nil {
			b.Fatalf("Authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateResume(b *testing.B) {
	conn := newFakeConnection()
	conn.fallback = &LoginStep{Kind: StepSuccess}
	store := session.NewMemoryStore()
	if err := store.Save(context.Background(), []byte("token")); err != nil {
		b.Fatalf("seed save failed: %v", err)
	}
	engine := benchEngine(conn, store, UinPassword(1, "pw"))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Authenticate(context.Background()); err != nil {
			b.Fatalf("Authenticate failed: %v", err)
		}
	}
}
