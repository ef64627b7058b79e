package auth

import (
	"errors"

	apperrors "github.com/chainsafe/waitlist-api/pkg/app/errors"
)

var (
	// ErrMissingProof is returned when address, signature or message is absent.
	ErrMissingProof = errors.New("wallet address, signature and message are required")
	// ErrSignatureMismatch is returned when the recovered signer does not
	// match the claimed address.
	ErrSignatureMismatch = errors.New("signature does not match wallet address")
	// ErrNotAdmin is returned when a valid signature belongs to a
	// non-administrator address.
	ErrNotAdmin = errors.New("wallet address is not authorized for admin access")
)

// AdminVerifier checks EIP-191 signature proofs against a single statically
// configured administrator address. Every privileged call repeats the full
// proof; no session token is issued.
//
// The message is caller-supplied plaintext, so there is no replay protection
// beyond the transport. The interface leaves room to insert a server-issued
// challenge later without changing the Verify contract shape.
type AdminVerifier interface {
	Verify(claimedAddress, signature, message string) (string, error)
}

type adminVerifier struct {
	adminAddress string
}

// NewAdminVerifier creates an AdminVerifier for the given administrator
// address. The address is normalized once at construction.
func NewAdminVerifier(adminAddress string) AdminVerifier {
	return &adminVerifier{adminAddress: NormalizeAddress(adminAddress)}
}

// Verify checks that (message, signature) recovers to claimedAddress and that
// the recovered address is the configured administrator. On success it
// returns the normalized admin address for downstream authorization context.
func (v *adminVerifier) Verify(claimedAddress, signature, message string) (string, error) {
	if claimedAddress == "" || signature == "" || message == "" {
		return "", apperrors.UnAuthorizedError(ErrMissingProof, "wallet address, signature and message are required")
	}

	recovered, err := VerifyEIP191Signature(message, signature)
	if err != nil {
		return "", apperrors.UnAuthorizedError(err, "invalid signature")
	}

	recoveredAddr := NormalizeAddress(recovered.Hex())
	if recoveredAddr != NormalizeAddress(claimedAddress) {
		return "", apperrors.UnAuthorizedError(ErrSignatureMismatch, "signature does not match wallet address")
	}

	if recoveredAddr != v.adminAddress {
		return "", apperrors.ForbiddenError(ErrNotAdmin, "wallet address is not authorized for admin access")
	}

	return recoveredAddr, nil
}
