package uow

import (
	"encoding/binary"
	"encoding/hex"

	"stayledger/internal/domain/ledgerevent"

	"golang.org/x/crypto/sha3"
)

// TxID is the Keccak-256 digest of the block height and its events, hex
// encoded with a 0x prefix like an EVM transaction hash.
func TxID(height int64, events []ledgerevent.Event) string {
	h := sha3.NewLegacyKeccak256()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(height)) // #nosec G115 -- heights are positive
	_, _ = h.Write(buf[:])

	for _, e := range events {
		_, _ = h.Write([]byte(e.Name))
		_, _ = h.Write([]byte{0x00})
		for _, k := range e.Args.Keys() {
			_, _ = h.Write([]byte(k))
			_, _ = h.Write([]byte{'='})
			_, _ = h.Write([]byte(e.Args[k]))
			_, _ = h.Write([]byte{0x00})
		}
		_, _ = h.Write([]byte{0x01})
	}
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
