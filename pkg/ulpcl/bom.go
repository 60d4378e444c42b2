package ulpcl

import "bytes"

// bomKind identifies which byte-order-mark, if any, prefixes a chunk of input.
type bomKind uint8

const (
	bomNone bomKind = iota
	bomUTF8
	bomUTF16LE
	bomUTF16BE
	bomUTF32LE
	bomUTF32BE
)

type bomSignature struct {
	kind  bomKind
	bytes []byte
}

// knownBOMs must be tried in this order: UTF-32 LE precedes UTF-16 LE because both begin with
// the two bytes 0xFF 0xFE, and the longer match must win.
var knownBOMs = []bomSignature{
	{bomUTF8, []byte{0xEF, 0xBB, 0xBF}},
	{bomUTF32LE, []byte{0xFF, 0xFE, 0x00, 0x00}},
	{bomUTF32BE, []byte{0x00, 0x00, 0xFE, 0xFF}},
	{bomUTF16LE, []byte{0xFF, 0xFE}},
	{bomUTF16BE, []byte{0xFE, 0xFF}},
}

// detectBOM inspects the leading bytes of the first non-empty chunk and reports the matching
// signature, or bomNone if none of the known prefixes match.
func detectBOM(chunk []byte) bomSignature {
	for _, sig := range knownBOMs {
		if bytes.HasPrefix(chunk, sig.bytes) {
			return sig
		}
	}
	return bomSignature{}
}
