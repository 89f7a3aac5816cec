// Package brock is a badger DB based append only record log with id, time
// and kind indexes, and an optional garbage collector that prunes the oldest
// records when the database grows past a configured size.
package brock

import (
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/lol"
	"varly.lol/store"
)

// DefaultMaxLimit is the largest number of records a query returns when the
// caller does not set a tighter bound.
const DefaultMaxLimit = 512

// T is a badger backed record log.
type T struct {
	Ctx            context.T
	WG             *sync.WaitGroup
	dataDir        string
	BlockCacheSize int
	InitLogLevel   int
	Logger         *logger
	// DB is the badger database.
	*badger.DB
	// seq is the monotonic collision free counter that assigns each record
	// its position in the log.
	seq *badger.Sequence
	// MaxLimit is the largest number of records a single query will return.
	MaxLimit int
	// DBSizeLimit is the number of bytes the database may grow to before the
	// garbage collector starts pruning, zero disables the garbage collector.
	DBSizeLimit int
	// DBLowWater and DBHighWater are percentages of DBSizeLimit. When the
	// database exceeds the high water mark the garbage collector prunes the
	// oldest records until it is under the low water mark.
	DBLowWater  int
	DBHighWater int
	// GCFrequency is the frequency of checks of the database size.
	GCFrequency time.Duration
}

var _ store.I = (*T)(nil)

// BackendParams is the configuration for creating a new brock.T.
type BackendParams struct {
	Ctx            context.T
	WG             *sync.WaitGroup
	BlockCacheSize int
	LogLevel       int
	MaxLimit       int
	DBSizeLimit    int
	DBLowWater     int
	DBHighWater    int
	GCFrequency    time.Duration
}

// New configures a new brock.T. Call Init to open the database.
func New(p BackendParams) *T {
	if p.MaxLimit == 0 {
		p.MaxLimit = DefaultMaxLimit
	}
	return &T{
		Ctx:            p.Ctx,
		WG:             p.WG,
		BlockCacheSize: p.BlockCacheSize,
		InitLogLevel:   p.LogLevel,
		MaxLimit:       p.MaxLimit,
		DBSizeLimit:    p.DBSizeLimit,
		DBLowWater:     p.DBLowWater,
		DBHighWater:    p.DBHighWater,
		GCFrequency:    p.GCFrequency,
	}
}

// SetLogLevel atomically adjusts the badger logger's print level.
func (r *T) SetLogLevel(level string) {
	log.I.F("setting db log level %s", level)
	r.Logger.SetLogLevel(lol.GetLogLevel(level))
}

// Path returns the directory where the database files are stored.
func (r *T) Path() string { return r.dataDir }

// SerialKey returns a key used for storing records, and the raw serial bytes
// that can be copied into index keys.
func (r *T) SerialKey() (idx []byte, ser *serial.T) {
	var err error
	var s []byte
	if s, err = r.SerialBytes(); chk.E(err) {
		panic(err)
	}
	ser = serial.New(s)
	return prefixes.Record.Key(ser), ser
}

// Serial returns the next monotonic conflict free unique serial on the
// database.
func (r *T) Serial() (ser uint64, err error) {
	if ser, err = r.seq.Next(); chk.E(err) {
	}
	log.T.F("serial %x", ser)
	return
}

// SerialBytes returns a new serial value, in the big endian form that
// provides the correct ordering of index keys.
func (r *T) SerialBytes() (ser []byte, err error) {
	var serU64 uint64
	if serU64, err = r.Serial(); chk.E(err) {
		panic(err)
	}
	ser = serial.Make(serU64)
	return
}
