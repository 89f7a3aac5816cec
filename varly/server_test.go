package varly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"varly.lol/brock"
	"varly.lol/context"
	"varly.lol/kind"
	"varly.lol/record"
	"varly.lol/timestamp"
	"varly.lol/varint"
	"varly.lol/ws"
)

func newTestServer(t *testing.T) (s *Server) {
	t.Helper()
	var wg sync.WaitGroup
	ctx, cancel := context.Cancel(context.Bg())
	sto := brock.New(brock.BackendParams{Ctx: ctx, WG: &wg, MaxLimit: 64})
	var err error
	s, err = NewServer(ServerParams{
		Ctx:       ctx,
		Cancel:    cancel,
		Storage:   sto,
		DataDir:   t.TempDir(),
		MaxLimit:  64,
		AdminUser: "admin",
		AdminPass: "letmein",
	})
	require.NoError(t, err)
	started := make(chan bool)
	go func() {
		if err := s.Start("127.0.0.1", 0, started); err != nil {
			t.Errorf("server terminated: %v", err)
		}
	}()
	<-started
	t.Cleanup(s.Shutdown)
	return
}

type recordResponse struct {
	Serial uint64    `json:"serial"`
	Record *record.J `json:"record"`
}

func postJSON(t *testing.T, url string, rec *record.T) (serial uint64) {
	t.Helper()
	body, err := json.Marshal(rec.ToRecordJ())
	require.NoError(t, err)
	resp, err := http.Post(url+"/append", "application/json",
		bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Serial uint64 `json:"serial"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Serial
}

func TestHTTPAppendFetch(t *testing.T) {
	s := newTestServer(t)
	base := "http://" + s.Addr
	rec := record.NewFrom(timestamp.Now(), kind.Data, nil, []byte("hello web"))
	serial := postJSON(t, base, rec)

	resp, err := http.Get(fmt.Sprintf("%s/record/%d", base, serial))
	require.NoError(t, err)
	var bySerial recordResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bySerial))
	resp.Body.Close()
	require.Equal(t, rec.IdString(), bySerial.Record.Id)
	require.Equal(t, rec.ContentString(), bySerial.Record.Content)

	resp, err = http.Get(base + "/id/" + rec.IdString())
	require.NoError(t, err)
	var byId recordResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&byId))
	resp.Body.Close()
	require.Equal(t, serial, byId.Serial)
	require.Equal(t, rec.IdString(), byId.Record.Id)

	resp, err = http.Get(fmt.Sprintf("%s/range?kind=%d", base, rec.KindU16()))
	require.NoError(t, err)
	var ranged []recordResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ranged))
	resp.Body.Close()
	require.Len(t, ranged, 1)
	require.Equal(t, rec.IdString(), ranged[0].Record.Id)

	resp, err = http.Get(base + "/count")
	require.NoError(t, err)
	var counted struct {
		Count  int  `json:"count"`
		Approx bool `json:"approx"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&counted))
	resp.Body.Close()
	require.Equal(t, 1, counted.Count)
	require.False(t, counted.Approx)

	resp, err = http.Get(base + "/id/" + record.NewFrom(nil, nil, nil,
		[]byte("never stored")).IdString())
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPAppendBinaryAndDuplicate(t *testing.T) {
	s := newTestServer(t)
	base := "http://" + s.Addr
	rec := record.NewFrom(timestamp.Now(), kind.Data, nil, []byte("binary body"))
	bin, err := rec.MarshalBinary(nil)
	require.NoError(t, err)
	resp, err := http.Post(base+"/append", "application/octet-stream",
		bytes.NewReader(bin))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the same record again is refused as a duplicate
	resp, err = http.Post(base+"/append", "application/octet-stream",
		bytes.NewReader(bin))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// a record with a corrupted id is refused outright
	broken := record.NewFrom(timestamp.Now(), kind.Data, nil, []byte("broken"))
	broken.Id[0]++
	bin, err = broken.MarshalBinary(nil)
	require.NoError(t, err)
	resp, err = http.Post(base+"/append", "application/octet-stream",
		bytes.NewReader(bin))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPExport(t *testing.T) {
	s := newTestServer(t)
	base := "http://" + s.Addr
	ids := make(map[string]bool)
	for i := range 3 {
		rec := record.NewFrom(timestamp.FromUnix(int64(1000+i)), kind.Data,
			nil, fmt.Appendf(nil, "export %d", i))
		postJSON(t, base, rec)
		ids[rec.IdString()] = true
	}

	req, err := http.NewRequest(http.MethodGet, base+"/export", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, base+"/export", nil)
	require.NoError(t, err)
	req.SetBasicAuth("admin", "letmein")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stream, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// the stream is varint length prefixed binary records
	var count int
	for len(stream) > 0 {
		l, n, err := varint.Decode(stream)
		require.NoError(t, err)
		stream = stream[n:]
		require.LessOrEqual(t, l, uint64(len(stream)))
		rec := &record.T{}
		_, err = rec.UnmarshalBinary(stream[:l])
		require.NoError(t, err)
		require.True(t, ids[rec.IdString()])
		stream = stream[l:]
		count++
	}
	require.Equal(t, len(ids), count)
}

func TestSocketRoundTrip(t *testing.T) {
	s := newTestServer(t)
	c, cancel := context.Timeout(context.Bg(), 10*time.Second)
	defer cancel()
	cl, err := ws.Connect(c, s.Addr)
	require.NoError(t, err)
	defer cl.Close()

	sub, err := cl.Subscribe(c, nil, kind.Data)
	require.NoError(t, err)
	select {
	case <-sub.EndOfStored:
	case <-time.After(5 * time.Second):
		t.Fatal("no end of stored marker for an empty log")
	}

	rec := record.NewFrom(timestamp.Now(), kind.Data, nil, []byte("live one"))
	require.NoError(t, cl.Append(c, rec))

	select {
	case got := <-sub.Records:
		require.True(t, got.Equal(rec))
	case <-time.After(5 * time.Second):
		t.Fatal("no live delivery")
	}

	// a fresh subscribe replays it from storage
	recs, err := cl.QuerySync(c, nil, kind.Data)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.True(t, recs[0].Equal(rec))
}

func TestSocketAppendDuplicate(t *testing.T) {
	s := newTestServer(t)
	c, cancel := context.Timeout(context.Bg(), 10*time.Second)
	defer cancel()
	cl, err := ws.Connect(c, s.Addr)
	require.NoError(t, err)
	defer cl.Close()

	rec := record.NewFrom(timestamp.Now(), kind.Data, nil, []byte("only once"))
	require.NoError(t, cl.Append(c, rec))
	err = cl.Append(c, rec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}
