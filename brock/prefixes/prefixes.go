// Package prefixes enumerates the key tables of the brock record log, and
// documents the layout of each kind of key.
package prefixes

import (
	"varly.lol/brock/keys/createdat"
	"varly.lol/brock/keys/idhash"
	"varly.lol/brock/keys/index"
	"varly.lol/brock/keys/kinder"
	"varly.lol/brock/keys/serial"
	"varly.lol/record"
)

const (
	// Version is the key that stores the version number, the value is a 16
	// bit integer (2 bytes).
	//
	//   [ 255 ]
	Version index.P = 255
)

const (
	// Record is the prefix of the record store, the serial being the
	// monotonic counter that minted when the record was first saved.
	//
	//   [ 0 ][ 8 bytes serial ]
	Record index.P = iota

	// CreatedAt is the time index.
	//
	//   [ 1 ][ 8 bytes timestamp ][ 8 bytes serial ]
	CreatedAt

	// Id is the id lookup index, carrying the first 8 bytes of the record
	// id.
	//
	//   [ 2 ][ 8 bytes id prefix ][ 8 bytes serial ]
	Id

	// Kind is the kind by time index.
	//
	//   [ 3 ][ 2 bytes kind ][ 8 bytes timestamp ][ 8 bytes serial ]
	Kind

	// Tombstone marks the id of a deleted record so a copy offered later is
	// refused. The timestamp is when the delete happened, so the oldest
	// tombstones can be found and pruned.
	//
	//   [ 4 ][ 32 bytes record id ][ 8 bytes timestamp ]
	Tombstone
)

// AllPrefixes is used by the Nuke operation to drop all tables.
var AllPrefixes = [][]byte{
	{Record.B()},
	{CreatedAt.B()},
	{Id.B()},
	{Kind.B()},
	{Tombstone.B()},
}

// KeySizes are the byte size of keys of each type of key prefix.
var KeySizes = []int{
	// Record
	1 + serial.Len,
	// CreatedAt
	1 + createdat.Len + serial.Len,
	// Id
	1 + idhash.Len + serial.Len,
	// Kind
	1 + kinder.Len + createdat.Len + serial.Len,
	// Tombstone
	1 + record.IdLen + createdat.Len,
}
