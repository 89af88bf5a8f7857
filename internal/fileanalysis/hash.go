package fileanalysis

import (
	"crypto/md5"  //nolint:gosec // G501: digest identification, not authentication.
	"crypto/sha1" //nolint:gosec // G505: digest identification, not authentication.
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/sha3"
)

// Hash maintains an incremental digest over the bytes actually delivered for
// a file. Gaps are not incorporated and do not invalidate the digest: a file
// with gaps still gets a digest of the bytes seen, and consumers decide
// whether a degraded file's digest is worth anything to them.
type Hash struct {
	rec  *Record
	slot int
	algo string
	h    hash.Hash // nil when the algorithm handle failed to initialize
	fed  bool      // a strictly-positive-length chunk was delivered
}

// NewHash creates a digest analyzer writing into the given record slot. An
// unrecognized algorithm leaves the digest handle invalid: bytes are refused
// and Finalize writes nothing.
func NewHash(algo string, rec *Record, slot int) *Hash {
	return &Hash{
		rec:  rec,
		slot: slot,
		algo: algo,
		h:    newDigest(algo),
	}
}

func newDigest(algo string) hash.Hash {
	switch algo {
	case string(KindMD5):
		return md5.New() //nolint:gosec
	case string(KindSHA1):
		return sha1.New() //nolint:gosec
	case string(KindSHA256):
		return sha256.New()
	case string(KindSHA3):
		return sha3.New256()
	case string(KindXXH3):
		return xxh3.New()
	case string(KindBLAKE3):
		return blake3.New()
	default:
		return nil
	}
}

// DeliverStream feeds a chunk into the running digest. A zero-length chunk
// is fed but does not count as having observed content.
func (h *Hash) DeliverStream(data []byte) bool {
	if h.h == nil {
		return false
	}
	if !h.fed {
		h.fed = len(data) > 0
	}
	h.h.Write(data)
	return true
}

// Undelivered ignores the gap: nothing is mixed into the digest state.
func (h *Hash) Undelivered(offset, length uint64) bool {
	return false
}

// EndOfFile finalizes the digest. Digests never continue past end of file.
func (h *Hash) EndOfFile() bool {
	h.Finalize()
	return false
}

// Finalize writes the hex digest into the record, unless the handle is
// invalid or no bytes were ever fed.
func (h *Hash) Finalize() {
	if h.h == nil || !h.fed {
		return
	}
	h.rec.Assign(h.slot, hex.EncodeToString(h.h.Sum(nil)))
}
