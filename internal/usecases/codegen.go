package usecases

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"charter-ops.backend/pkg/crypto"
)

const (
	codePrefix      = "CT"
	codeSuffixChars = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ" // no 0/O/1/I
	codeSuffixLen   = 4
)

// IdentifierGenerator mints contract codes and access tokens. Codes are
// short, human-readable and time-ordered; access tokens are opaque bearer
// credentials. Neither is guaranteed collision-free by construction, so the
// issuing path checks both against the store and retries.
type IdentifierGenerator struct{}

func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{}
}

// NewCode returns a contract code like CT-MBX3K2Q-7FWW: a base36 millisecond
// timestamp for human traceability plus a short random suffix
func (g *IdentifierGenerator) NewCode(now time.Time) (string, error) {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, codeSuffixLen)
	max := big.NewInt(int64(len(codeSuffixChars)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = codeSuffixChars[n.Int64()]
	}
	return codePrefix + "-" + stamp + "-" + string(suffix), nil
}

// NewAccessToken returns a fresh bearer token for unauthenticated signer access
func (g *IdentifierGenerator) NewAccessToken() (string, error) {
	return crypto.GenerateAccessToken()
}
