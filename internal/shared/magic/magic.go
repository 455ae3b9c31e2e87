// Copyright (c) 2025 Justin Cranford

// Package magic centralizes named constants used across the crypto core so
// that sizes, iteration counts, and HKDF labels are defined once and never
// duplicated as bare literals at call sites.
package magic

const (
	// SHA256, SHA384, SHA512 name the hash functions accepted by HKDF/HMAC.
	SHA256 = "SHA256"
	SHA384 = "SHA384"
	SHA512 = "SHA512"

	// HashOutputSizeSHA256 etc are the digest sizes, in bytes, of the named hash.
	HashOutputSizeSHA256 = 32
	HashOutputSizeSHA384 = 48
	HashOutputSizeSHA512 = 64

	// HKDFMaxMultiplier is the maximum number of hash-lengths HKDF may expand
	// to, per RFC 5869 §2.3 (255 * HashLen).
	HKDFMaxMultiplier = 255

	// MasterSecretSize, MasterKEKSize, OpKEKSize, SubkeySize are all 32 bytes:
	// every key in the hierarchy is sized for AES-256 / HMAC-SHA256.
	MasterSecretSize = 32
	MasterKEKSize    = 32
	OpKEKSize        = 32
	SubkeySize       = 32

	// AESGCMKeySize, AESGCMNonceSize, AESGCMTagSize describe the AEAD.
	AESGCMKeySize   = 32
	AESGCMNonceSize = 12
	AESGCMTagSize   = 16

	// AlgorithmAES256GCM is the literal algorithm tag embedded in every
	// encrypted log payload record.
	AlgorithmAES256GCM = "aes-256-gcm"

	// PBKDF2Iterations is the fixed iteration count for recovery-phrase
	// bootstrap.
	PBKDF2Iterations = 100_000

	// KeyIDRandomBytes is the size of a freshly minted API key id before hex
	// encoding (16 bytes -> 32 hex chars).
	KeyIDRandomBytes = 16

	// ProofNonceSize is the size of the zero-knowledge proof challenge nonce.
	ProofNonceSize = 16

	// HKDF purpose labels, each paired with a fixed salt prefix below.
	HKDFInfoMasterKEK = "master-key-encryption-key"
	HKDFInfoOpKEK     = "operational-key-encryption-key"
	HKDFInfoLogs      = "logs"
	HKDFInfoLogNames  = "log-names"
	HKDFInfoSearch    = "search"

	// HKDF salt labels / prefixes. OpKEK salts append the version id.
	HKDFSaltMasterSecretPrefix = "NeuralLog-" // + tenantId + "-MasterSecret", used as the PBKDF2 salt
	HKDFSaltMasterKEK          = "NeuralLog-MasterKEK"
	HKDFSaltOpKEKPrefix        = "NeuralLog-OpKEK-" // + version id
	HKDFSaltLogKey             = "NeuralLog-LogKey"
	HKDFSaltLogNameKey         = "NeuralLog-LogNameKey"
	HKDFSaltSearchKey          = "NeuralLog-SearchKey"

	// MnemonicSaltPrefix / MnemonicMasterSecretInfo are used by initWithMnemonic's
	// second HKDF stage (seed -> Master Secret).
	MnemonicSaltPrefix       = "neurallog:" // + tenantId
	MnemonicMasterSecretInfo = "master-secret"

	// APIKeyHMACInfoPrefix / APIKeyVerificationLabel label the two HMAC uses
	// in ApiKeyAuth.
	APIKeyHMACInfoPrefix     = "api_key:" // + tenantId + ":" + keyId
	APIKeyVerificationLabel  = "verification"
	APIKeyEncryptedKEKPrefix = "kek:" // + tenantId, used by initWithApiKey

	// LogNameIVInfoPrefix labels the deterministic-IV derivation for
	// NameCipher.
	LogNameIVInfoPrefix = "iv:" // + plaintext name

	// ShamirMaxShares is the largest n supported by the byte-wise GF(256)
	// scheme (x-coordinates are distinct nonzero bytes, so n <= 255).
	ShamirMaxShares = 255

	// GF256AESReductionPolynomial is x^8 + x^4 + x^3 + x + 1, the
	// Rijndael/AES irreducible polynomial used to reduce GF(256) products.
	GF256AESReductionPolynomial = 0x11B
)
