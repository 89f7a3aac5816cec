package brock

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"varly.lol/chk"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/units"
	"varly.lol/varint"
)

// maxFrameLen caps a frame of the import stream so a corrupt length prefix
// cannot make Import attempt an enormous allocation.
const maxFrameLen = 512 * units.Mb

// Import reads a stream of varint length prefixed binary records, in the
// format Export writes, and saves them into the log. A record that fails to
// decode, fails its id check, or is already stored is skipped, a frame that
// cannot be read ends the import.
func (r *T) Import(rr io.Reader) {
	br := bufio.NewReaderSize(rr, units.Mb)
	var err error
	var count, skipped int
	var buf []byte
	for {
		var l uint64
		if l, _, err = varint.Read(br); err != nil {
			// a clean end of stream lands exactly on a frame boundary
			if !errors.Is(err, io.EOF) {
				chk.E(err)
			}
			break
		}
		if l > maxFrameLen {
			log.E.F("import: frame of %d bytes exceeds %d byte maximum",
				l, maxFrameLen)
			break
		}
		if uint64(cap(buf)) < l {
			buf = make([]byte, l)
		}
		buf = buf[:l]
		if _, err = io.ReadFull(br, buf); chk.E(err) {
			break
		}
		rec := &record.T{}
		if _, err = rec.UnmarshalBinary(buf); err != nil {
			log.D.F("import: skipping undecodable record: %v", err)
			skipped++
			continue
		}
		if !rec.CheckId() {
			log.D.F("import: skipping record with invalid id %0x", rec.Id)
			skipped++
			continue
		}
		// SaveRecord serializes into its own buffer, so buf can be reused
		// for the next frame
		if err = r.SaveRecord(r.Ctx, rec); err != nil {
			skipped++
			continue
		}
		count++
		if count%1000 == 0 {
			chk.T(r.DB.Sync())
			chk.T(r.DB.RunValueLogGC(0.5))
		}
	}
	log.I.F("imported %d records into %s, %d skipped", count, r.dataDir,
		skipped)
}
