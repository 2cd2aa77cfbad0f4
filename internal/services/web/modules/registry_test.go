package modules

import (
	"testing"

	"github.com/sazzer/newlanding/internal/services/web/routepath"
)

func TestDefaultModulesOrderAndIDs(t *testing.T) {
	t.Parallel()

	got := DefaultModules(Dependencies{})
	want := []string{"public", "publicauth", "api"}
	if len(got) != len(want) {
		t.Fatalf("module count = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID() != id {
			t.Fatalf("module[%d] id = %q, want %q", i, got[i].ID(), id)
		}
	}
}

func TestDefaultModulesRequireCollaborators(t *testing.T) {
	t.Parallel()

	for _, feature := range DefaultModules(Dependencies{}) {
		mount, err := feature.Mount()
		if feature.ID() == "public" {
			if err != nil {
				t.Fatalf("public Mount() error = %v", err)
			}
			if mount.Prefix != routepath.Root {
				t.Fatalf("public prefix = %q", mount.Prefix)
			}
			continue
		}
		if err == nil {
			t.Fatalf("module %q mounted without collaborators", feature.ID())
		}
	}
}
