package ledgerevent

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/text/unicode/norm"
)

// identityDomain separates event identities from any other digest computed
// over the same bytes. Bump the version suffix if the encoding ever changes.
const identityDomain = "stayledger/event/v1"

var identityEncMode cbor.EncMode

func init() {
	var err error
	identityEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("ledgerevent: CBOR encoder initialization failed: " + err.Error())
	}
}

type identityTuple struct {
	TxID string            `cbor:"1,keyasint"`
	Name string            `cbor:"2,keyasint"`
	Args map[string]string `cbor:"3,keyasint"`
}

// Identity returns the stable identity of an event: a BLAKE3 digest over the
// deterministic CBOR encoding of (txId, name, args). Strings are NFC
// normalized and the transaction id is case-folded, so two deliveries of the
// same ledger event hash identically regardless of RPC formatting. Position is
// not part of the identity.
func Identity(e Event) (string, error) {
	if e.TxID == "" {
		return "", fmt.Errorf("identity: %w: empty tx id", ErrMalformedArgs)
	}
	tuple := identityTuple{
		TxID: strings.ToLower(norm.NFC.String(e.TxID)),
		Name: norm.NFC.String(string(e.Name)),
		Args: make(map[string]string, len(e.Args)),
	}
	for k, v := range e.Args {
		tuple.Args[norm.NFC.String(k)] = norm.NFC.String(v)
	}

	data, err := identityEncMode.Marshal(tuple)
	if err != nil {
		return "", fmt.Errorf("identity: encode: %w", err)
	}

	h := blake3.New()
	_, _ = h.Write([]byte(identityDomain))
	_, _ = h.Write([]byte{0x00})
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
