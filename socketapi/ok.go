package socketapi

import (
	"varly.lol/envelopes/okenvelope"
	"varly.lol/normalize"
)

// Ok refuses an append, sending ok=false with a machine readable reason
// prefix on the message.
func (a *A) Ok(prefix normalize.Reason, id []byte, format string,
	params ...any) (err error) {
	return okenvelope.NewFrom(id, false, prefix.F(format, params...)).
		Write(a.Listener)
}

func (a *A) Duplicate(id []byte, format string, params ...any) (err error) {
	return a.Ok(normalize.Duplicate, id, format, params...)
}

func (a *A) Invalid(id []byte, format string, params ...any) (err error) {
	return a.Ok(normalize.Invalid, id, format, params...)
}

func (a *A) Error(id []byte, format string, params ...any) (err error) {
	return a.Ok(normalize.Error, id, format, params...)
}

// Accepted confirms an append, sending ok=true with no reason.
func (a *A) Accepted(id []byte) (err error) {
	return okenvelope.NewFrom(id, true).Write(a.Listener)
}
