package archive

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBlobName(t *testing.T) {
	updated := time.Date(2021, 1, 1, 1, 1, 1, 0, time.UTC)

	got := BlobName(updated, "ESIF-9999", 5, uuid.Nil)
	want := "20210101010101_ESIF-9999_v5_00000000-0000-0000-0000-000000000000.xml"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBlobNameNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	updated := time.Date(2021, 1, 1, 3, 1, 1, 0, loc)

	got := BlobName(updated, "C-1", 1, uuid.Nil)
	want := "20210101010101_C-1_v1_00000000-0000-0000-0000-000000000000.xml"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
