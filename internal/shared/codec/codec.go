// Copyright (c) 2025 Justin Cranford

// Package codec provides the Base64, Base64URL, and UTF-8 codecs the crypto
// core uses at every wire boundary. All three are thin wrappers over the
// standard library; no third-party codec is justified here (DESIGN.md).
package codec

import "encoding/base64"

// Base64Encode / Base64Decode use standard padded Base64, for the
// iv/data JSON fields in the encrypted payload record.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Base64URLEncode / Base64URLDecode use unpadded URL-safe Base64, for
// encrypted log names and search tokens.
func Base64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func Base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// UTF8Encode / UTF8Decode are the identity codec over Go's native UTF-8
// string/byte representation, named for symmetry with the Base64 pair.
func UTF8Encode(s string) []byte {
	return []byte(s)
}

func UTF8Decode(b []byte) string {
	return string(b)
}
