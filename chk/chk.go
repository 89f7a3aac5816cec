// Package chk gives the lol.Logger check functions their short names, so call
// sites can gate on errors with chk.E(err) style expressions.
package chk

import (
	"varly.lol/lol"
)

var F, E, W, I, D, T lol.Chk

func init() {
	F, E, W, I, D, T = lol.Main.Check.F, lol.Main.Check.E, lol.Main.Check.W, lol.Main.Check.I,
		lol.Main.Check.D, lol.Main.Check.T
}
