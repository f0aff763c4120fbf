package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.TrackedTeams) != 17 {
		t.Fatalf("unexpected tracked team count: %d", len(cfg.TrackedTeams))
	}
	if cfg.TrackedTeams[0] != (match.TrackedTeam{Name: "Liverpool", ExternalID: "2"}) {
		t.Fatalf("unexpected first team: %+v", cfg.TrackedTeams[0])
	}
	if cfg.TrackedTeams[16].Name != "Celtic" {
		t.Fatalf("tracked team order must be preserved, last=%q", cfg.TrackedTeams[16].Name)
	}
	if got := cfg.CollectionDelays.Delay(match.CompetitionCup); got != 3*time.Hour+30*time.Minute {
		t.Fatalf("unexpected cup delay: %s", got)
	}
	if cfg.SourceBaseURL != "https://www.totalcorner.com" {
		t.Fatalf("unexpected SourceBaseURL: %q", cfg.SourceBaseURL)
	}
	if cfg.SourceMaxRetries != 1 {
		t.Fatalf("unexpected SourceMaxRetries: %d", cfg.SourceMaxRetries)
	}
	if cfg.StorageBackend != StorageBackendPostgres {
		t.Fatalf("unexpected StorageBackend: %q", cfg.StorageBackend)
	}
	if cfg.MirrorBackend != MirrorBackendNone {
		t.Fatalf("unexpected MirrorBackend: %q", cfg.MirrorBackend)
	}
	if cfg.SourceLocation != time.UTC {
		t.Fatalf("unexpected SourceLocation: %s", cfg.SourceLocation)
	}
}

func TestLoad_TrackedTeams(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TRACKED_TEAMS", "Real Madrid:247, Barcelona:235")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []match.TrackedTeam{
		{Name: "Real Madrid", ExternalID: "247"},
		{Name: "Barcelona", ExternalID: "235"},
	}
	if len(cfg.TrackedTeams) != len(want) {
		t.Fatalf("unexpected teams: %+v", cfg.TrackedTeams)
	}
	for i := range want {
		if cfg.TrackedTeams[i] != want[i] {
			t.Fatalf("unexpected team at %d: got=%+v want=%+v", i, cfg.TrackedTeams[i], want[i])
		}
	}
}

func TestLoad_TrackedTeamsValidation(t *testing.T) {
	for _, raw := range []string{"Liverpool", "Liverpool:abc", ":2", "Liverpool:2,Liverpool:3"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("TRACKED_TEAMS", raw)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for TRACKED_TEAMS=%q", raw)
			}
		})
	}
}

func TestLoad_CollectionDelays(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("COLLECTION_DELAYS", "default:2,europa_league:2.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.CollectionDelays.Delay("europa_league"); got != 2*time.Hour+45*time.Minute {
		t.Fatalf("unexpected europa_league delay: %s", got)
	}
	if got := cfg.CollectionDelays.Delay(match.CompetitionCup); got != 2*time.Hour {
		t.Fatalf("missing tag must fall back to default, got %s", got)
	}
}

func TestLoad_CollectionDelaysRequireDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("COLLECTION_DELAYS", "cup:3.5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when COLLECTION_DELAYS has no default entry")
	}
}

func TestLoad_SourceRetriesBounded(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SOURCE_MAX_RETRIES", "3")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SOURCE_MAX_RETRIES above one")
	}
}

func TestLoad_SourceTimezone(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SOURCE_TIMEZONE", "Europe/London")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SourceLocation.String() != "Europe/London" {
		t.Fatalf("unexpected SourceLocation: %s", cfg.SourceLocation)
	}
	if cfg.Now().Location().String() != "Europe/London" {
		t.Fatalf("Now must be expressed in the source timezone")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.BetterStackEnabled {
		t.Fatalf("expected BetterStackEnabled=true")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_QStashRequirements(t *testing.T) {
	t.Run("token required", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when QSTASH_TOKEN is missing")
		}
	})

	t.Run("internal job token required", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://scheduler.example.com")
		t.Setenv("INTERNAL_JOB_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when INTERNAL_JOB_TOKEN is missing")
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://scheduler.example.com")
		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CollectJobPath != "/v1/internal/jobs/collect-stats" {
			t.Fatalf("unexpected CollectJobPath: %q", cfg.CollectJobPath)
		}
	})
}

func TestLoad_MirrorBackend(t *testing.T) {
	t.Run("sheets requires credentials", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("MIRROR_BACKEND", MirrorBackendSheets)
		t.Setenv("GOOGLE_CREDS_PATH", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when GOOGLE_CREDS_PATH is missing")
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("MIRROR_BACKEND", "XLSX")
		t.Setenv("XLSX_PATH", "/tmp/stats.xlsx")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MirrorBackend != MirrorBackendXLSX || cfg.XLSXPath != "/tmp/stats.xlsx" {
			t.Fatalf("unexpected mirror config: %q %q", cfg.MirrorBackend, cfg.XLSXPath)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("MIRROR_BACKEND", "dropbox")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown MIRROR_BACKEND")
		}
	})
}

func TestLoad_StorageBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_BACKEND")
	}
}

func TestLoad_CacheBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("unexpected default CacheBackend: %q", cfg.CacheBackend)
	}

	t.Setenv("CACHE_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for redis backend without REDIS_URL")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected RedisURL: %q", cfg.RedisURL)
	}

	t.Setenv("CACHE_BACKEND", "memcached")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown CACHE_BACKEND")
	}
}
