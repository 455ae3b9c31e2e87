// Copyright (c) 2025 Justin Cranford

package shamir

import (
	"fmt"

	cryptoutilCryptoAead "neurallog/internal/crypto/aead"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Share is one point (x, y) on the degree-(threshold-1) polynomial whose
// constant term is the shared secret; y has one byte per secret byte.
type Share struct {
	X byte
	Y []byte
}

// Split divides secret into n shares such that any threshold of them
// reconstruct it, and fewer reveal nothing (information-theoretic security
// of Shamir's scheme). x-coordinates are the distinct nonzero bytes 1..n.
func Split(secret []byte, n, threshold int) ([]Share, error) {
	if len(secret) == 0 {
		return nil, cryptoutilSharedApperr.ErrCantBeEmpty
	}

	if threshold < 1 || threshold > n {
		return nil, fmt.Errorf("%w: threshold must be in [1, n]", cryptoutilSharedApperr.ErrInvalidShareLength)
	}

	if n < 1 || n > cryptoutilSharedMagic.ShamirMaxShares {
		return nil, fmt.Errorf("%w: n must be in [1, %d]", cryptoutilSharedApperr.ErrInvalidShareLength, cryptoutilSharedMagic.ShamirMaxShares)
	}

	// coefficients[b] holds the threshold-1 random coefficients (plus the
	// secret byte as the constant term) for the polynomial over secret
	// byte index b.
	coefficients := make([][]byte, len(secret))

	for b, secretByte := range secret {
		randCoeffs, err := cryptoutilCryptoAead.RandomBytes(threshold - 1)
		if err != nil {
			return nil, err
		}

		poly := make([]byte, threshold)
		poly[0] = secretByte
		copy(poly[1:], randCoeffs)
		coefficients[b] = poly
	}

	shares := make([]Share, n)

	for i := range n {
		x := byte(i + 1) // x-coordinates are the nonzero bytes 1..n

		y := make([]byte, len(secret))
		for b := range secret {
			y[b] = evalPoly(coefficients[b], x)
		}

		shares[i] = Share{X: x, Y: y}
	}

	return shares, nil
}

// evalPoly evaluates the polynomial with coefficients (low degree first)
// at point x using Horner's method in GF(256).
func evalPoly(coefficients []byte, x byte) byte {
	var result byte

	for i := len(coefficients) - 1; i >= 0; i-- {
		result = gf256Add(gf256Mul(result, x), coefficients[i])
	}

	return result
}

// Reconstruct recovers the secret of the given length from shares via
// Lagrange interpolation at x=0. threshold is the k originally passed to
// Split; Reconstruct refuses to run Lagrange interpolation on fewer shares
// than that, since the result would be a value statistically independent of
// the real secret rather than a meaningful partial answer.
func Reconstruct(shares []Share, threshold, secretLength int) ([]byte, error) {
	if len(shares) < threshold {
		return nil, cryptoutilSharedApperr.ErrInsufficientShares
	}

	// Only the first threshold shares enter the interpolation; any extra
	// shares are ignored.
	if threshold > 0 {
		shares = shares[:threshold]
	}

	seen := make(map[byte]struct{}, len(shares))

	for _, s := range shares {
		if _, dup := seen[s.X]; dup {
			return nil, cryptoutilSharedApperr.ErrDuplicateShareX
		}

		seen[s.X] = struct{}{}

		if len(s.Y) != secretLength {
			return nil, cryptoutilSharedApperr.ErrInvalidShareLength
		}
	}

	secret := make([]byte, secretLength)

	for b := 0; b < secretLength; b++ {
		secret[b] = lagrangeInterpolateAtZero(shares, b)
	}

	return secret, nil
}

// lagrangeInterpolateAtZero evaluates the Lagrange interpolation polynomial
// through (share.X, share.Y[byteIndex]) for every share, at x=0.
func lagrangeInterpolateAtZero(shares []Share, byteIndex int) byte {
	var result byte

	for i, si := range shares {
		term := si.Y[byteIndex]

		for j, sj := range shares {
			if i == j {
				continue
			}
			// basis_i(0) = prod_{j != i} (0 - x_j) / (x_i - x_j)
			// in GF(256), subtraction == addition == XOR.
			numerator := sj.X
			denominator := gf256Add(si.X, sj.X)
			term = gf256Mul(term, gf256Div(numerator, denominator))
		}

		result = gf256Add(result, term)
	}

	return result
}
