package addressing

import "testing"

func TestLanguage(t *testing.T) {
	lang, err := Language("rust.docs", Suffix)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if lang != "rust" {
		t.Fatalf("unexpected language: %s", lang)
	}
}

func TestLanguageIgnoresPort(t *testing.T) {
	lang, err := Language("python.docs:8080", Suffix)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if lang != "python" {
		t.Fatalf("unexpected language: %s", lang)
	}
}

func TestLanguageLowercases(t *testing.T) {
	lang, err := Language("Rust.DOCS", Suffix)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if lang != "rust" {
		t.Fatalf("unexpected language: %s", lang)
	}
}

func TestLanguageErrors(t *testing.T) {
	if _, err := Language("", Suffix); err != ErrMissingHost {
		t.Fatalf("expected ErrMissingHost, got %v", err)
	}

	if _, err := Language("unknown", Suffix); err != ErrBadSuffix {
		t.Fatalf("expected ErrBadSuffix, got %v", err)
	}

	if _, err := Language("rust.example.com", Suffix); err != ErrBadSuffix {
		t.Fatalf("expected ErrBadSuffix for wrong suffix, got %v", err)
	}

	if _, err := Language(".docs", Suffix); err != ErrEmptyLanguage {
		t.Fatalf("expected ErrEmptyLanguage, got %v", err)
	}
}
