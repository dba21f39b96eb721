package steady

import (
	"testing"
	"time"
)

func TestDefaultElementConfig(t *testing.T) {
	cfg := DefaultElementConfig()

	if cfg.MaxAttempts != 3 || cfg.Delay != 500*time.Millisecond || !cfg.Verbose {
		t.Fatalf("DefaultElementConfig() = %+v", cfg)
	}
}

func TestDefaultDriverConfig(t *testing.T) {
	cfg := DefaultDriverConfig()

	if cfg.MaxAttempts != 5 || cfg.Delay != 500*time.Millisecond || !cfg.Verbose {
		t.Fatalf("DefaultDriverConfig() = %+v", cfg)
	}
}

func TestQuietConfig(t *testing.T) {
	cfg := QuietConfig()

	if cfg.Verbose {
		t.Fatal("QuietConfig().Verbose = true, want false")
	}

	if cfg.MaxAttempts != DefaultElementConfig().MaxAttempts {
		t.Fatalf("QuietConfig().MaxAttempts = %d", cfg.MaxAttempts)
	}
}

func TestPresetsAreIndependentCopies(t *testing.T) {
	a := DefaultElementConfig()
	a.MaxAttempts = 99

	if DefaultElementConfig().MaxAttempts != 3 {
		t.Fatal("mutating a preset leaked into the next call")
	}
}
