package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("fr-FR") {
		t.Fatalf("expected locale fr-FR")
	}
	if got := len(bundle.NamespaceMessages("en-US", CoreNamespace)); got == 0 {
		t.Fatalf("expected en-US core namespace messages")
	}
}

func TestLoadEmbeddedDefinesShellKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range bundle.Locales() {
		for _, key := range []string{"title", "hello", "header.toggleNavigation", "header.login", "header.logout"} {
			if _, ok := bundle.LocaleMessages(locale)[key]; !ok {
				t.Fatalf("locale %s is missing %q", locale, key)
			}
		}
	}
}

func TestPrinterTranslatesAndFallsBack(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}

	tests := []struct {
		name string
		tag  language.Tag
		key  string
		want string
	}{
		{name: "english", tag: language.AmericanEnglish, key: "header.login", want: "Log In"},
		{name: "french", tag: language.MustParse("fr-FR"), key: "header.login", want: "Se connecter"},
		{name: "french base language", tag: language.French, key: "hello", want: "Bonjour"},
		{name: "french falls back to base", tag: language.MustParse("fr-FR"), key: "error.auth.exchange_failed", want: "We could not complete sign-in with the identity provider."},
		{name: "unknown key renders key", tag: language.AmericanEnglish, key: "missing.key", want: "missing.key"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := bundle.Printer(tc.tag).Sprintf(tc.key); got != tc.want {
				t.Fatalf("Sprintf(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestLoadFromFSRejectsUnprefixedKeyOutsideCoreNamespace(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/header.yaml"), `locale: "en-US"
namespace: "header"
messages:
  "login": "nope"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "title": "ok"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "header.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/header.yaml"), `locale: "en-US"
namespace: "header"
messages:
  "header.key": "b"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/fr-FR/core.yaml"), `locale: "fr-FR"
namespace: "core"
messages:
  "title": "Titre"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "fr-FR"
namespace: "core"
messages:
  "title": "Titre"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), "locale: [unterminated\n")

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected yaml error")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	value, ok := bundle.Message("fr-FR", "error.auth.provider_rejected")
	if !ok {
		t.Fatal("expected base-locale fallback")
	}
	if value != "The identity provider rejected the sign-in." {
		t.Fatalf("value = %q", value)
	}
	if _, ok := bundle.Message("fr-FR", " "); ok {
		t.Fatal("blank key should not resolve")
	}
}

func TestNilBundleIsSafe(t *testing.T) {
	t.Parallel()

	var bundle *Bundle
	if bundle.HasLocale(BaseLocale) {
		t.Fatal("nil bundle should not report locales")
	}
	if got := bundle.Locales(); got != nil {
		t.Fatalf("Locales() = %v, want nil", got)
	}
	if got := bundle.Printer(language.AmericanEnglish).Sprintf("title"); got != "title" {
		t.Fatalf("Sprintf(title) = %q, want key", got)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
