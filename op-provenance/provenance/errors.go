package provenance

import "errors"

var (
	// ErrMalformedInput covers decode failures: bad compression, short buffers, schema violations.
	ErrMalformedInput = errors.New("malformed input")
	// ErrAuthentication covers signatures that do not recover, or recover to the wrong signer.
	ErrAuthentication = errors.New("authentication failed")
	// ErrVerification covers broken trust chains: hash mismatches, unfinalized or blacklisted games.
	ErrVerification = errors.New("verification failed")
	// ErrReorgProtection covers linking chains that are too short or not hash-linked.
	ErrReorgProtection = errors.New("reorg protection failed")
	// ErrUnsupportedChain is returned for chain ids, or chain and mode combinations, outside the supported set.
	ErrUnsupportedChain = errors.New("unsupported chain")
)

// Kind classifies err into a short label, for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrVerification):
		return "verification"
	case errors.Is(err, ErrReorgProtection):
		return "reorg_protection"
	case errors.Is(err, ErrUnsupportedChain):
		return "unsupported_chain"
	default:
		return "other"
	}
}
