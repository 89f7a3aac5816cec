// Package store defines the persistence interface a record log offers the
// server, split into the small single purpose interfaces the parts of the
// service actually depend on.
package store

import (
	"errors"
	"io"

	"varly.lol/context"
	"varly.lol/kind"
	"varly.lol/record"
	"varly.lol/timestamp"
)

// ErrDupRecord is returned by SaveRecord when the id is already in the log,
// or buried by a tombstone.
var ErrDupRecord = errors.New("duplicate: record already in the log")

// ErrNotFound is returned by the fetch operations when no record matches.
var ErrNotFound = errors.New("record not found")

// Range selects records by time window and kind. Nil or zero fields leave
// their dimension unconstrained.
type Range struct {
	// Since and Until bound CreatedAt inclusively.
	Since *timestamp.T
	Until *timestamp.T
	// Kinds restricts the selection to records of the listed kinds, all
	// kinds if empty.
	Kinds []*kind.T
	// Limit caps how many records return, newest first. Zero means no cap.
	Limit uint
}

// Matches reports whether a record falls inside the range.
func (q *Range) Matches(rec *record.T) bool {
	if q == nil {
		return true
	}
	if rec == nil {
		return false
	}
	ca := rec.CreatedAt.I64()
	if q.Since != nil && ca < q.Since.I64() {
		return false
	}
	if q.Until != nil && ca > q.Until.I64() {
		return false
	}
	if len(q.Kinds) > 0 {
		var found bool
		for _, k := range q.Kinds {
			if rec.Kind.Equal(k) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// I is the persistence layer for records handled by a varly server.
type I interface {
	Initializer
	Pather
	// Closer must be called after you're done using the store, to free up
	// resources and so on.
	io.Closer
	Nukener
	Querent
	Counter
	Deleter
	Saver
	Fetcher
	Importer
	Exporter
	Syncer
}

type Initializer interface {
	// Init is called at the very beginning by Server.Start, allowing the
	// storage to open its internal resources at the given path.
	Init(path string) (err error)
}

type Pather interface {
	// Path returns the directory of the database.
	Path() (s string)
}

type Nukener interface {
	// Nuke deletes everything in the database.
	Nuke() (err error)
}

type Querent interface {
	// QueryRecords returns the records matching the range in reverse
	// chronological order.
	QueryRecords(c context.T, q *Range) (recs record.Ts, err error)
}

type Counter interface {
	// CountRecords performs the same work as QueryRecords but instead of
	// delivering the records that were found it just returns the count.
	// approx is true when the count came off an index without filtering and
	// may overshoot.
	CountRecords(c context.T, q *Range) (count int, approx bool, err error)
}

type Deleter interface {
	// DeleteRecord removes a record by id. Unless noTombstone is set it also
	// writes a tombstone so the same id is refused if appended again.
	DeleteRecord(c context.T, id []byte, noTombstone ...bool) (err error)
}

type Saver interface {
	// SaveRecord appends a record to the log, returning ErrDupRecord if its
	// id is already present or tombstoned.
	SaveRecord(c context.T, rec *record.T) (err error)
}

type Fetcher interface {
	// FetchBySerial returns the record at a log position.
	FetchBySerial(c context.T, serial uint64) (rec *record.T, err error)
	// FetchById returns the record with the given id.
	FetchById(c context.T, id []byte) (rec *record.T, err error)
}

type Importer interface {
	// Import reads a stream of varint length prefixed binary records and
	// saves them into the log.
	Import(r io.Reader)
}

type Exporter interface {
	// Export writes the whole log to w as a stream of varint length prefixed
	// binary records.
	Export(c context.T, w io.Writer)
}

type Syncer interface {
	// Sync flushes the store's buffers to disk.
	Sync() (err error)
}
