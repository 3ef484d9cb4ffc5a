package staging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nbhansali/drivefeed/internal/staging"
)

func TestStageAndRead(t *testing.T) {
	area, err := staging.NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	staged, err := area.Stage("res1", strings.NewReader("a | b\nc | d"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	defer staged.Release()

	if staged.ResourceID() != "res1" {
		t.Errorf("ResourceID() = %q; want res1", staged.ResourceID())
	}

	if staged.Size() != int64(len("a | b\nc | d")) {
		t.Errorf("Size() = %d", staged.Size())
	}

	text, err := staged.ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}

	if text != "a | b\nc | d" {
		t.Errorf("ReadText() = %q", text)
	}
}

func TestStageCreatesArea(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "staging")

	if _, err := staging.NewArea(dir); err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("staging directory was not created: %v", err)
	}
}

func TestReleaseDeletesFile(t *testing.T) {
	area, err := staging.NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	staged, err := area.Stage("res1", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	if _, err := os.Stat(staged.Path()); err != nil {
		t.Fatalf("staged file missing before release: %v", err)
	}

	if err := staged.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Fatalf("staged file still present after release: %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	area, err := staging.NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	staged, err := area.Stage("res1", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := staged.Release(); err != nil {
			t.Fatalf("Release call %d failed: %v", i+1, err)
		}
	}
}

func TestConcurrentStagesDoNotCollide(t *testing.T) {
	area, err := staging.NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	first, err := area.Stage("same", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	defer first.Release()

	second, err := area.Stage("same", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	defer second.Release()

	if first.Path() == second.Path() {
		t.Fatal("two stages of the same resource share a path")
	}

	text, err := first.ReadText()
	if err != nil || text != "one" {
		t.Errorf("first staged content corrupted: %q, %v", text, err)
	}
}

func TestStagedNameCarriesResourceID(t *testing.T) {
	area, err := staging.NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	staged, err := area.Stage("res-42", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	defer staged.Release()

	if !strings.HasPrefix(filepath.Base(staged.Path()), "res-42-") {
		t.Errorf("staged file name %q does not carry the resource id", filepath.Base(staged.Path()))
	}
}
