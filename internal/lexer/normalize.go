package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 byte-order mark and applies Unicode NFC
// normalization to src. It is applied once, at the boundary before a
// buffer is handed to New, so that byte-identical token streams result
// from source files that differ only in encoding form (e.g. identifiers
// written in NFC vs NFD).
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}

// normalizeIdent applies the same NFC normalization to an identifier
// lexeme read mid-stream, since string/char literal content containing
// identifiers of its own (interpolation, in later α revisions) bypasses
// the whole-buffer pass.
func normalizeIdent(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
