package upload

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestSaveAndDetect(t *testing.T) {
	f, err := Save(bytes.NewReader(pngHeader), "avatar.png", t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	defer f.Remove()

	if f.Size != int64(len(pngHeader)) {
		t.Errorf("size = %d, want %d", f.Size, len(pngHeader))
	}

	ok, err := f.HasType(ImageTypes)
	if err != nil || !ok {
		t.Errorf("png not accepted as image: ok=%v err=%v", ok, err)
	}

	if ok, _ := f.HasType([]string{"application/pdf"}); ok {
		t.Error("png accepted as pdf")
	}
}

func TestSaveCapsAtLimitPlusOne(t *testing.T) {
	f, err := Save(strings.NewReader(strings.Repeat("a", 100)), "big.txt", t.TempDir(), 10)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	defer f.Remove()

	if f.Size != 11 {
		t.Errorf("size = %d, want 11", f.Size)
	}
}

func TestTextIsNotADocument(t *testing.T) {
	f, err := Save(strings.NewReader("just some text"), "notes.pdf", t.TempDir(), 1024)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	defer f.Remove()

	ok, err := f.HasType(DocumentTypes)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if ok {
		t.Error("plain text accepted as document")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	f, err := Save(strings.NewReader("x"), "x.txt", t.TempDir(), 10)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.Remove(); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := f.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Errorf("file still present")
	}
}
