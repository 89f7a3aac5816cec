package envelopes_test

import (
	"testing"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/envelopes/closeenvelope"
	"varly.lol/envelopes/eoseenvelope"
	"varly.lol/envelopes/noticeenvelope"
	"varly.lol/envelopes/okenvelope"
	"varly.lol/envelopes/recordenvelope"
	"varly.lol/envelopes/subenvelope"
	"varly.lol/record"
)

func TestIdentifyEmpty(t *testing.T) {
	if _, _, err := envelopes.Identify(nil); err == nil {
		t.Fatal("expected error identifying an empty message")
	}
}

func TestIdentifyLabels(t *testing.T) {
	var err error
	for _, env := range []codec.Envelope{
		okenvelope.NewFrom(make([]byte, record.IdLen), true),
		subenvelope.NewFrom(nil),
		recordenvelope.NewFrom(1, record.NewFrom(nil, nil, nil, nil)),
		eoseenvelope.New(),
		closeenvelope.New(),
		noticeenvelope.New(),
	} {
		var b []byte
		if b, err = env.MarshalBinary(nil); chk.E(err) {
			t.Fatal(err)
		}
		var l byte
		if l, _, err = envelopes.Identify(b); chk.E(err) {
			t.Fatal(err)
		}
		if l != env.Label() {
			t.Fatalf("invalid sentinel %d, expect %d", l, env.Label())
		}
	}
}

func TestEmptyPayloadEnvelopes(t *testing.T) {
	var err error
	var b []byte
	if b, err = eoseenvelope.New().MarshalBinary(nil); chk.E(err) {
		t.Fatal(err)
	}
	if len(b) != 1 || b[0] != eoseenvelope.L {
		t.Fatalf("eose should marshal to its label alone, got %0x", b)
	}
	if b, err = closeenvelope.New().MarshalBinary(nil); chk.E(err) {
		t.Fatal(err)
	}
	if len(b) != 1 || b[0] != closeenvelope.L {
		t.Fatalf("close should marshal to its label alone, got %0x", b)
	}
}
