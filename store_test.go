package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSubmission(id string, created time.Time) Submission {
	return Submission{
		ID:        id,
		FormName:  "contact",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "Hello\nthere",
		RemoteIP:  "203.0.113.5",
		UserAgent: "test-agent",
		CreatedAt: created,
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetSubmission(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	want := testSubmission("sub-1", created)
	if err := s.SaveSubmission(ctx, want); err != nil {
		t.Fatalf("SaveSubmission failed: %v", err)
	}

	got, err := s.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Name != want.Name || got.Email != want.Email || got.Message != want.Message {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.RemoteIP != want.RemoteIP || got.UserAgent != want.UserAgent {
		t.Errorf("origin = %q/%q, want %q/%q", got.RemoteIP, got.UserAgent, want.RemoteIP, want.UserAgent)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetSubmission(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveSubmissionDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	sub := testSubmission("dup", time.Now())
	if err := s.SaveSubmission(ctx, sub); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSubmission(ctx, sub); err == nil {
		t.Error("expected error saving duplicate id")
	}
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.SaveSubmission(ctx, testSubmission(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	subs, err := s.ListSubmissions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("got %d submissions, want 3", len(subs))
	}
	for i, want := range []string{"c", "b", "a"} {
		if subs[i].ID != want {
			t.Errorf("subs[%d].ID = %q, want %q", i, subs[i].ID, want)
		}
	}

	limited, err := s.ListSubmissions(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d, want 2", len(limited))
	}

	n, err := s.CountSubmissions(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountSubmissions = %d, %v; want 3", n, err)
	}
}

func TestListSubmissionsSameSecond(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveSubmission(ctx, testSubmission("older", base)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSubmission(ctx, testSubmission("newer", base.Add(500*time.Millisecond))); err != nil {
		t.Fatal(err)
	}

	subs, err := s.ListSubmissions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(subs) != 2 || subs[0].ID != "newer" || subs[1].ID != "older" {
		t.Fatalf("order = %v, want [newer older]", submissionIDs(subs))
	}
	if !subs[0].CreatedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v, want %v", subs[0].CreatedAt, base.Add(500*time.Millisecond))
	}
}

func submissionIDs(subs []Submission) []string {
	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	return ids
}

func TestPragmasOnEveryConnection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Hold every pooled connection at once so each one is checked.
	var conns []*sql.Conn
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < 4; i++ {
		c, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		conns = append(conns, c)

		var timeout int
		if err := c.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout); err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		if timeout != 5000 {
			t.Errorf("conn %d busy_timeout = %d, want 5000", i, timeout)
		}
		var mode string
		if err := c.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode); err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		if mode != "wal" {
			t.Errorf("conn %d journal_mode = %q, want wal", i, mode)
		}
	}
}

func TestConcurrentSaveSubmission(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.SaveSubmission(ctx, testSubmission(fmt.Sprintf("sub-%02d", i), base.Add(time.Duration(i)*time.Millisecond)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("SaveSubmission failed: %v", err)
		}
	}
	if n, err := s.CountSubmissions(ctx); err != nil || n != 20 {
		t.Errorf("CountSubmissions = %d, %v; want 20", n, err)
	}
}

func TestDeleteSubmission(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if err := s.SaveSubmission(ctx, testSubmission("gone", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSubmission(ctx, "gone"); err != nil {
		t.Fatalf("DeleteSubmission failed: %v", err)
	}
	if _, err := s.GetSubmission(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("submission still present: %v", err)
	}
	if err := s.DeleteSubmission(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)
	imgs := []Image{
		{Filename: "a.jpg", OriginalName: "A.png", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"},
		{Filename: "b.jpg", OriginalName: "B.png", Width: 10, Height: 10, Size: 99, UploadedAt: "2024-02-01T00:00:00Z"},
	}
	for _, img := range imgs {
		if err := s.SaveImage(img); err != nil {
			t.Fatalf("SaveImage failed: %v", err)
		}
	}

	list, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(list) != 2 || list[0].Filename != "b.jpg" {
		t.Errorf("ListImages = %+v", list)
	}

	if ok, err := s.ImageExists("a.jpg"); err != nil || !ok {
		t.Errorf("ImageExists(a.jpg) = %v, %v", ok, err)
	}
	if err := s.DeleteImage("a.jpg"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.ImageExists("a.jpg"); ok {
		t.Error("a.jpg still exists after delete")
	}
}
