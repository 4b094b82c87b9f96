package extract_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/extract"
)

func TestTextPlainPassthrough(t *testing.T) {
	got, err := extract.Text("notes.txt", []byte("photosynthesis\n\nconverts   light\tto energy"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "photosynthesis converts light to energy" {
		t.Fatalf("got %q", got)
	}
}

func TestTextEmpty(t *testing.T) {
	if _, err := extract.Text("notes.txt", nil); !errors.Is(err, extract.ErrEmptyText) {
		t.Fatalf("got %v, want ErrEmptyText", err)
	}
	if _, err := extract.Text("notes.txt", []byte("   \n\t ")); !errors.Is(err, extract.ErrEmptyText) {
		t.Fatalf("whitespace-only: got %v, want ErrEmptyText", err)
	}
}

func TestTextSizeCap(t *testing.T) {
	big := bytes.Repeat([]byte("a"), extract.MaxUploadBytes+1)
	if _, err := extract.Text("big.txt", big); !errors.Is(err, extract.ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}
}

func TestTextRejectsBinary(t *testing.T) {
	if _, err := extract.Text("blob.bin", []byte{0x00, 0x01, 0x02, 0xff}); err == nil {
		t.Fatal("expected error for binary payload")
	}
}

func TestTextCorruptPDF(t *testing.T) {
	// Claims to be a PDF by magic bytes but has no valid structure.
	if _, err := extract.Text("broken.pdf", []byte("%PDF-1.4 garbage")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}
