package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

func pdfRecord(t *testing.T) *document.Record {
	t.Helper()
	text := document.PageHeader(1) + "\nhello\n" + document.PageHeader(2) + "\nworld"
	rec, err := document.New(NewID(), "report.pdf", format.PDF, text, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.RawBytes = []byte("%PDF-1.4 original bytes")
	return rec
}

func TestStore_SaveAndGet(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	s := New([]*document.Record{pdfRecord(t)})
	s.Append("user", "what is on page 2?")
	if err := st.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Within the creating process the live instance comes back, raw bytes and
	// all.
	if got != s {
		t.Error("expected the live session instance")
	}
	v := got.View()
	if v.Documents[0].RawBytes == nil {
		t.Error("live session lost its raw bytes")
	}
	if v.Title != "report.pdf" {
		t.Errorf("title = %q", v.Title)
	}
}

func TestStore_GetUnknownID(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	if _, err := st.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ReloadDropsRawBytes(t *testing.T) {
	dir := t.TempDir()

	st, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New([]*document.Record{pdfRecord(t)})
	if err := st.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A second store over the same directory simulates a restart.
	st2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	got, err := st2.Get(s.ID)
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	doc := got.View().Documents[0]
	if doc.RawBytes != nil {
		t.Error("raw bytes survived the snapshot; they must not")
	}
	if doc.Text != s.View().Documents[0].Text {
		t.Error("normalized text changed across reload")
	}
	if doc.UnitCount != 2 {
		t.Errorf("unit count = %d, want 2", doc.UnitCount)
	}
}

func TestStore_ConcurrentAppendAndRead(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	s := New([]*document.Record{pdfRecord(t)})
	if err := st.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The store hands every caller the same instance; writers, readers and
	// snapshot persistence must all tolerate running at once.
	const writes = 100
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			s.Append("user", "question")
			s.Append("assistant", "answer")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			got, err := st.Get(s.ID)
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			v := got.View()
			_ = len(v.Messages)
			got.LatestAnswer()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes/10; i++ {
			if err := st.Save(s); err != nil {
				t.Errorf("save: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if got := len(s.View().Messages); got != 2*writes {
		t.Errorf("got %d messages, want %d", got, 2*writes)
	}
}

func TestStore_ListOrdersByUpdate(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	a := New([]*document.Record{pdfRecord(t)})
	if err := st.Save(a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	b := New([]*document.Record{pdfRecord(t)})
	b.UpdatedAt = a.UpdatedAt.Add(time.Second)
	if err := st.Save(b); err != nil {
		t.Fatalf("save b: %v", err)
	}

	summaries, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].ID != b.ID {
		t.Errorf("most recently updated session should list first")
	}
	if summaries[0].DocumentCount != 1 {
		t.Errorf("document count = %d, want 1", summaries[0].DocumentCount)
	}
}

func TestStore_Delete(t *testing.T) {
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	s := New([]*document.Record{pdfRecord(t)})
	if err := st.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Delete(s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := st.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}
