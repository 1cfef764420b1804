package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"accountbook/internal/amqp"
	"accountbook/internal/config"
	"accountbook/internal/core"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Type: SQLite, SQLiteDBPath: "x.db"}, false},
		{"memory", Config{Type: Memory}, false},
		{"sqlite without path", Config{Type: SQLite}, true},
		{"unknown type", Config{Type: "sheets"}, true},
		{"amqp without queue", Config{Type: Memory, AMQPURL: "amqp://localhost", AMQPExchange: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", AMQPExchange: "e", AMQPQueue: "q"})
	if err != nil || cfg.Type != Memory {
		t.Fatalf("FromAppConfig() = %+v, %v", cfg, err)
	}
}

func TestFactory_Create(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.Create(ctx, Config{Type: SQLite, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer res.Close()
		if err := res.Ready(ctx); err != nil {
			t.Fatalf("Ready() error = %v", err)
		}
		if _, err := res.Store.CreateUser(ctx, core.User{Name: "amy", Email: "amy@example.com", Settings: core.DefaultSettings()}); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if res.Publisher != nil {
			t.Error("publisher should be nil without AMQP_URL")
		}
	})

	t.Run("unreachable broker is not fatal", func(t *testing.T) {
		f := NewFactory(nil)
		f.newPublisher = func(string, string, string) (*amqp.Client, error) {
			return nil, errors.New("dial tcp: connection refused")
		}
		res, err := f.Create(ctx, Config{Type: Memory, AMQPURL: "amqp://localhost", AMQPExchange: "e", AMQPQueue: "q"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		defer res.Close()
		if res.Publisher != nil || res.Store == nil {
			t.Errorf("result = %+v", res)
		}
	})
}
