package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

func fileSub(id, name string) domain.Subscription {
	return domain.Subscription{
		ID:          id,
		Name:        name,
		StartDate:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		PeriodValue: 1,
		PeriodUnit:  domain.PeriodMonth,
		IsActive:    true,
		Recurring:   true,
	}
}

func TestFileStoreEmptyWhenFileMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	subs, err := fs.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected empty store, got %d records", len(subs))
	}
}

func TestFileStoreSaveAndList(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	if err := fs.SaveAll(ctx, []domain.Subscription{fileSub("a", "Netflix"), fileSub("b", "Spotify")}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	subs, err := fs.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(subs))
	}
}

func TestFileStoreSaveAllUpserts(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	if err := fs.SaveAll(ctx, []domain.Subscription{fileSub("a", "Netflix")}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	renamed := fileSub("a", "Netflix Premium")
	if err := fs.SaveAll(ctx, []domain.Subscription{renamed, fileSub("b", "Spotify")}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	subs, err := fs.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected upsert to keep 2 records, got %d", len(subs))
	}
	for _, sub := range subs {
		if sub.ID == "a" && sub.Name != "Netflix Premium" {
			t.Fatalf("expected record a to be updated, got name %q", sub.Name)
		}
	}
}

func TestFileStoreDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	if err := fs.SaveAll(ctx, []domain.Subscription{fileSub("a", "Netflix")}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	if err := fs.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := fs.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing record, got %v", err)
	}

	subs, err := fs.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected empty store after delete, got %d", len(subs))
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "subscriptions.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if _, err := fs.ListAll(context.Background()); err == nil {
		t.Fatal("expected error for corrupt data file")
	}
}

func TestFileStoreReadsLegacyDataFile(t *testing.T) {
	// A data file written by the original app: bare dates for start_date,
	// offset-less isoformat() for expiry_date and microsecond isoformat()
	// for the timestamps.
	legacy := `[
    {
        "id": "9be3a2c0-1111-4222-a333-abcdefabcdef",
        "name": "Netflix",
        "custom_type": "streaming",
        "notes": "",
        "start_date": "2025-01-01",
        "expiry_date": "2025-07-01T00:00:00",
        "period_value": 1,
        "period_unit": "month",
        "reminder_days": 7,
        "is_active": true,
        "amount": 29.9,
        "payment_method": "card",
        "recurring": true,
        "created_at": "2025-01-01T08:30:00.123456",
        "updated_at": "2025-06-01T08:30:00.123456"
    }
]`
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "subscriptions.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("seed legacy file: %v", err)
	}

	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	subs, err := fs.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed on legacy data file: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(subs))
	}

	got := subs[0]
	if !got.StartDate.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date %v", got.StartDate)
	}
	if !got.ExpiryDate.Equal(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry date %v", got.ExpiryDate)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be parsed")
	}

	// Rewriting the record must keep it readable.
	got.Name = "Netflix Premium"
	if err := fs.SaveAll(context.Background(), []domain.Subscription{got}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	subs, err = fs.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll after rewrite returned error: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Netflix Premium" {
		t.Fatalf("unexpected records after rewrite: %+v", subs)
	}
}

func TestFileStoreRoundTripsFields(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	sub := fileSub("a", "Netflix")
	sub.Category = "streaming"
	sub.Amount = 29.9
	sub.Notes = "family plan"

	if err := fs.SaveAll(ctx, []domain.Subscription{sub}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	subs, err := fs.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	got := subs[0]
	if got.Category != "streaming" || got.Amount != 29.9 || got.Notes != "family plan" {
		t.Fatalf("fields did not survive the round trip: %+v", got)
	}
	if !got.ExpiryDate.Equal(sub.ExpiryDate) {
		t.Fatalf("expiry date changed across round trip: %v != %v", got.ExpiryDate, sub.ExpiryDate)
	}
}
