// Package profile reads and writes game settings profiles without losing a
// byte.
//
// A profile is a text file of "Key value" lines written by the game, for
// example:
//
//	GstRender.Dx12Enabled 1
//	GstRender.FrameRateLimit 240.000000
//	GstAudio.Volume_Master 0.800000
//
// [Parse] turns the bytes into a [Document]: an ordered list of records,
// each either a setting or an opaque line kept verbatim. [Serialize] walks
// the records back out. The two are exact inverses:
//
//	Serialize(Parse(b)) == b
//
// and after [Index.Set] only the changed values differ from the input. Line
// terminators (LF or CRLF), separators, indentation, trailing blanks and
// numeric formatting such as "240.000000" are all preserved.
//
// # Structural errors
//
// Parse never fails on a line it does not understand. It does fail, with a
// [*ParseError] marked errors.ErrParse, when the file as a whole looks
// damaged: empty, NUL padded, cut off mid-line, missing a configured header,
// with no settings, or with the same key twice.
//
// # Typed access
//
// [Index] maps keys to records. [Setting] values carry a [Kind] inferred
// from the raw text; the typed accessors are for display and comparison and
// never reformat the stored value.
package profile
