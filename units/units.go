// Package units is a convenient set of names designating data sizes in bytes,
// in both common ISO names (base 10) and the base 2 sizes that cache and
// message limits are usually set with.
package units

const (
	Kilobyte = 1000
	Kb       = Kilobyte
	Megabyte = Kilobyte * Kilobyte
	Mb       = Megabyte
	Gigabyte = Megabyte * Kilobyte
	Gb       = Gigabyte

	Kibibyte = 1024
	Kib      = Kibibyte
	Mebibyte = Kibibyte * Kibibyte
	Mib      = Mebibyte
	Gibibyte = Mebibyte * Kibibyte
	Gib      = Gibibyte
)
