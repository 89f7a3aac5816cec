package brock

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"lukechampine.com/frand"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/hex"
	"varly.lol/kind"
	"varly.lol/lol"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/tag"
	"varly.lol/tags"
	"varly.lol/timestamp"
	"varly.lol/units"
)

func newTestBackend(t *testing.T) (r *T) {
	path := filepath.Join(os.TempDir(), hex.Enc(frand.Bytes(8)))
	c, cancel := context.Cancel(context.Bg())
	var wg sync.WaitGroup
	r = New(BackendParams{
		Ctx:            c,
		WG:             &wg,
		BlockCacheSize: 16 * units.Mb,
		LogLevel:       lol.Error,
		MaxLimit:       DefaultMaxLimit,
	})
	var err error
	if err = r.Init(path); chk.E(err) {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cancel()
		chk.E(r.Close())
		chk.E(os.RemoveAll(path))
	})
	return
}

func genRecord(k uint16, ts int64) (rec *record.T) {
	return record.NewFrom(
		timestamp.FromUnix(ts),
		kind.New(k),
		tags.New(tag.New("source", hex.Enc(frand.Bytes(8)))),
		frand.Bytes(frand.Intn(256)+1),
	)
}

func TestSaveFetch(t *testing.T) {
	r := newTestBackend(t)
	c := context.Bg()
	base := timestamp.Now().I64()
	var recs []*record.T
	for i := range 100 {
		rec := genRecord(uint16(i%3), base+int64(i))
		if err := r.SaveRecord(c, rec); chk.E(err) {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}
	for _, rec := range recs {
		got, err := r.FetchById(c, rec.Id)
		if chk.E(err) {
			t.Fatal(err)
		}
		if !got.Equal(rec) {
			t.Fatalf("fetched record %0x does not match saved", rec.Id)
		}
	}
	// the sequence hands out serials from zero, in save order
	got, err := r.FetchBySerial(c, 0)
	if chk.E(err) {
		t.Fatal(err)
	}
	if !got.Equal(recs[0]) {
		t.Fatalf("serial 0 is %0x expected %0x", got.Id, recs[0].Id)
	}
	if _, err = r.FetchBySerial(c, 1<<40); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound got %v", err)
	}
	// a duplicate must be refused
	if err = r.SaveRecord(c, recs[0]); !errors.Is(err, store.ErrDupRecord) {
		t.Fatalf("expected store.ErrDupRecord got %v", err)
	}
}

func TestDeleteTombstone(t *testing.T) {
	r := newTestBackend(t)
	c := context.Bg()
	rec := genRecord(1, timestamp.Now().I64())
	if err := r.SaveRecord(c, rec); chk.E(err) {
		t.Fatal(err)
	}
	if err := r.DeleteRecord(c, rec.Id); chk.E(err) {
		t.Fatal(err)
	}
	if _, err := r.FetchById(c, rec.Id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound got %v", err)
	}
	// the tombstone keeps the id out permanently
	if err := r.SaveRecord(c, rec); !errors.Is(err, store.ErrDupRecord) {
		t.Fatalf("expected store.ErrDupRecord got %v", err)
	}
	// without a tombstone the record can come back
	rec2 := genRecord(2, timestamp.Now().I64())
	if err := r.SaveRecord(c, rec2); chk.E(err) {
		t.Fatal(err)
	}
	if err := r.DeleteRecord(c, rec2.Id, true); chk.E(err) {
		t.Fatal(err)
	}
	if err := r.SaveRecord(c, rec2); chk.E(err) {
		t.Fatal(err)
	}
}

func TestQueryRecords(t *testing.T) {
	r := newTestBackend(t)
	c := context.Bg()
	base := int64(1700000000)
	// 90 records, kinds 0, 1, 2 interleaved, one minute apart
	for i := range 90 {
		rec := genRecord(uint16(i%3), base+int64(i)*60)
		if err := r.SaveRecord(c, rec); chk.E(err) {
			t.Fatal(err)
		}
	}
	// everything, newest first
	recs, err := r.QueryRecords(c, nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	if len(recs) != 90 {
		t.Fatalf("got %d records expected 90", len(recs))
	}
	for i := range len(recs) - 1 {
		if recs[i].CreatedAt.I64() < recs[i+1].CreatedAt.I64() {
			t.Fatal("records are not in reverse chronological order")
		}
	}
	// a single kind
	recs, err = r.QueryRecords(c, &store.Range{Kinds: []*kind.T{kind.New(1)}})
	if chk.E(err) {
		t.Fatal(err)
	}
	if len(recs) != 30 {
		t.Fatalf("got %d records of kind 1 expected 30", len(recs))
	}
	for _, rec := range recs {
		if rec.Kind.ToU16() != 1 {
			t.Fatalf("got kind %d expected 1", rec.Kind.ToU16())
		}
	}
	// a time window, inclusive on both ends
	since := timestamp.FromUnix(base + 10*60)
	until := timestamp.FromUnix(base + 19*60)
	recs, err = r.QueryRecords(c, &store.Range{Since: since, Until: until})
	if chk.E(err) {
		t.Fatal(err)
	}
	if len(recs) != 10 {
		t.Fatalf("got %d records in window expected 10", len(recs))
	}
	for _, rec := range recs {
		ca := rec.CreatedAt.I64()
		if ca < since.I64() || ca > until.I64() {
			t.Fatalf("record at %d is outside [%d,%d]", ca, since.I64(),
				until.I64())
		}
	}
	// limit returns the newest
	recs, err = r.QueryRecords(c, &store.Range{Limit: 5})
	if chk.E(err) {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("got %d records expected 5", len(recs))
	}
	if recs[0].CreatedAt.I64() != base+89*60 {
		t.Fatalf("limited query did not return the newest first")
	}
	// kinds and window combined
	recs, err = r.QueryRecords(c, &store.Range{
		Since: since,
		Until: until,
		Kinds: []*kind.T{kind.New(0), kind.New(2)},
	})
	if chk.E(err) {
		t.Fatal(err)
	}
	for _, rec := range recs {
		if rec.Kind.ToU16() == 1 {
			t.Fatal("kind 1 should have been excluded")
		}
	}
}

func TestCountRecords(t *testing.T) {
	r := newTestBackend(t)
	c := context.Bg()
	base := int64(1700000000)
	for i := range 50 {
		rec := genRecord(uint16(i%2), base+int64(i))
		if err := r.SaveRecord(c, rec); chk.E(err) {
			t.Fatal(err)
		}
	}
	count, _, err := r.CountRecords(c, nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	if count != 50 {
		t.Fatalf("got count %d expected 50", count)
	}
	count, _, err = r.CountRecords(c, &store.Range{
		Kinds: []*kind.T{kind.New(0)},
	})
	if chk.E(err) {
		t.Fatal(err)
	}
	if count != 25 {
		t.Fatalf("got count %d expected 25", count)
	}
	count, _, err = r.CountRecords(c, &store.Range{
		Since: timestamp.FromUnix(base + 40),
	})
	if chk.E(err) {
		t.Fatal(err)
	}
	if count != 10 {
		t.Fatalf("got count %d expected 10", count)
	}
}

func TestExportImport(t *testing.T) {
	r1 := newTestBackend(t)
	r2 := newTestBackend(t)
	c := context.Bg()
	base := timestamp.Now().I64()
	var recs []*record.T
	for i := range 64 {
		rec := genRecord(uint16(i%4), base+int64(i))
		if err := r1.SaveRecord(c, rec); chk.E(err) {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}
	var buf bytes.Buffer
	r1.Export(c, &buf)
	r2.Import(&buf)
	count, _, err := r2.CountRecords(c, nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	if count != 64 {
		t.Fatalf("imported %d records expected 64", count)
	}
	for _, rec := range recs {
		got, err := r2.FetchById(c, rec.Id)
		if chk.E(err) {
			t.Fatal(err)
		}
		if !got.Equal(rec) {
			t.Fatalf("imported record %0x does not match exported", rec.Id)
		}
	}
}

func TestNuke(t *testing.T) {
	r := newTestBackend(t)
	c := context.Bg()
	for i := range 10 {
		if err := r.SaveRecord(c, genRecord(0, timestamp.Now().I64()+int64(i))); chk.E(err) {
			t.Fatal(err)
		}
	}
	if err := r.Nuke(); chk.E(err) {
		t.Fatal(err)
	}
	count, _, err := r.CountRecords(c, nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("got count %d after nuke expected 0", count)
	}
	// the log keeps working after a nuke
	rec := genRecord(0, timestamp.Now().I64())
	if err = r.SaveRecord(c, rec); chk.E(err) {
		t.Fatal(err)
	}
	if _, err = r.FetchById(c, rec.Id); chk.E(err) {
		t.Fatal(err)
	}
}
