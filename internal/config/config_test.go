package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "SESSION_BACKEND", "SESSION_TTL", "EVENTS_BACKEND", "KAFKA_BROKERS", "CONFIRM_CREATE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.DBDSN != "invdash.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionBackend != "db" || cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected session defaults: %+v", cfg)
	}
	if cfg.EventsBackend != "none" || cfg.KafkaBrokers != nil || cfg.ConfirmCreate {
		t.Fatalf("unexpected event defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://inv@localhost/inv?sslmode=disable")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EVENTS_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("CONFIRM_CREATE", "true")
	cfg := Load()

	if cfg.DBDriver != "postgres" || cfg.DBDSN != "postgres://inv@localhost/inv?sslmode=disable" {
		t.Fatalf("db: %+v", cfg)
	}
	if cfg.SessionBackend != "redis" || cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("session: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("brokers: %#v", cfg.KafkaBrokers)
	}
	if !cfg.ConfirmCreate {
		t.Fatal("CONFIRM_CREATE not applied")
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "-5m")
	t.Setenv("CONFIRM_CREATE", "maybe")
	cfg := Load()
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("bad ttl accepted: %v", cfg.SessionTTL)
	}
	if cfg.ConfirmCreate {
		t.Fatal("bad bool accepted")
	}
}
