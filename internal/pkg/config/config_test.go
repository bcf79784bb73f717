package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("port: got %q, want 5000", cfg.Port)
	}
	if cfg.JWT.TTL != 30*24*time.Hour {
		t.Errorf("jwt ttl: got %v", cfg.JWT.TTL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout: got %v", cfg.RequestTimeout)
	}
	if cfg.Login.MaxAttempts != 10 || cfg.Login.Window != 15*time.Minute {
		t.Errorf("login: got %+v", cfg.Login)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("kafka brokers should be empty by default, got %v", cfg.Kafka.Brokers)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"PORT":               "8080",
		"ENV":                "production",
		"LOGIN_MAX_ATTEMPTS": "0",
		"KAFKA_BROKERS":      "k1:9092,k2:9092",
		"REQUEST_TIMEOUT":    "2s",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.IsDevelopment() {
		t.Errorf("got port %q env %q", cfg.Port, cfg.Env)
	}
	if cfg.Login.MaxAttempts != 0 {
		t.Errorf("max attempts: got %d", cfg.Login.MaxAttempts)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers: got %v", cfg.Kafka.Brokers)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("request timeout: got %v", cfg.RequestTimeout)
	}
}

func TestLoad_RejectsNegativeAttempts(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"LOGIN_MAX_ATTEMPTS": "-1",
	}))
	if err == nil {
		t.Fatal("expected error for negative LOGIN_MAX_ATTEMPTS")
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.0/24",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nets, err := cfg.ProxyNets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nets) != 2 || nets[1].String() != "192.168.1.0/24" {
		t.Errorf("proxies: got %v", nets)
	}

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "not-a-cidr",
	}))
	if err == nil {
		t.Fatal("expected error for malformed TRUSTED_PROXIES")
	}
}
