// Package jsval encodes guest values into the engine's NaN-boxed 64-bit word.
//
// Callers work with the Value sum type (Double, Int32, Boolean, Null,
// Undefined, StringRef, ObjectRef). Encode and Decode are the only functions
// that know the bit layout:
//
//	Double        raw IEEE-754 bits
//	others        (TagMaxDouble|type) << TagShift | payload
//
// A word is a double when its top 17 bits are at most TagMaxDouble. Tags
// above that value live in the NaN space no arithmetic produces, so tagged
// words never collide with a double. Doubles whose bits happen to fall into
// that band are canonicalized to the quiet NaN on encode.
//
// Canonical words (WordVoid, WordNull, WordZero, WordOne, WordFalse,
// WordTrue) are computed from the same tag scheme:
//
//	v, _ := jsval.Decode(jsval.WordTrue) // jsval.Boolean(true)
//	w, _ := jsval.Encode(jsval.Int32(1)) // jsval.WordOne
//
// Handles are limited to 47 bits. That matches 64-bit platforms with a 47-bit
// user address space; wider handles fail to encode rather than being
// truncated.
package jsval
