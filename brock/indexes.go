package brock

import (
	"varly.lol/brock/keys/createdat"
	"varly.lol/brock/keys/idhash"
	"varly.lol/brock/keys/kinder"
	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/record"
)

// GetIndexKeysForRecord generates the keys for indexing a record by id, time
// and kind by time. ser should be the serial returned by SerialKey.
func GetIndexKeysForRecord(rec *record.T, ser *serial.T) (keyz [][]byte) {
	keyz = make([][]byte, 0, 3)
	ID := idhash.New(rec.Id)
	CA := createdat.New(rec.CreatedAt)
	K := kinder.New(rec.Kind.ToU16())
	// ~ by id
	keyz = append(keyz, prefixes.Id.Key(ID, ser))
	// ~ by date
	keyz = append(keyz, prefixes.CreatedAt.Key(CA, ser))
	// ~ by kind and date
	keyz = append(keyz, prefixes.Kind.Key(K, CA, ser))
	return
}
