package fs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"mealcore/internal/blob/core"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	body := "monthly report body"
	info, err := store.Put(ctx, "reports/s1/report_GPS_August_2026.pdf", strings.NewReader(body), core.PutOptions{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(body)) || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	got, rc, err := store.Get(ctx, "reports/s1/report_GPS_August_2026.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != body {
		t.Fatalf("expected body round trip, got %q", data)
	}
	if got.ContentType != "application/pdf" {
		t.Fatalf("expected content type from sidecar, got %q", got.ContentType)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Put(ctx, "reports/s1/a.pdf", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "reports/s1/a.pdf", strings.NewReader("two"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestDeleteThenPutOverwrites(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	key := "reports/s1/a.pdf"
	if _, err := store.Put(ctx, key, strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	removed, err := store.Delete(ctx, key)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	if _, err := store.Put(ctx, key, strings.NewReader("two"), core.PutOptions{}); err != nil {
		t.Fatalf("put after delete: %v", err)
	}
	again, err := store.Delete(ctx, "reports/s1/missing.pdf")
	if err != nil || again {
		t.Fatalf("deleting absent key: removed=%v err=%v", again, err)
	}
}

func TestKeySanitization(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "/absolute", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestHeadMissing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := store.Head(context.Background(), "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
