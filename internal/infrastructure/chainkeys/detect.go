package chainkeys

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/wallet"
)

const suiPrivKeyPrefix = suiPrivKeyHRP + "1"

type keyFormat struct {
	chain      domain.Chain
	mnemonic   bool
	normalized string
}

// detectFormat recognizes raw key material. The checks run from the most to
// the least distinctive format.
func detectFormat(raw string) keyFormat {
	s := strings.TrimSpace(raw)

	switch {
	case isJWK(s):
		return keyFormat{chain: domain.ChainArweave, normalized: s}
	case isByteArrayKey(s):
		return keyFormat{chain: domain.ChainSolana, normalized: s}
	case strings.HasPrefix(strings.ToLower(s), suiPrivKeyPrefix):
		return keyFormat{chain: domain.ChainSui, normalized: strings.ToLower(s)}
	case isHexKey(s):
		return keyFormat{chain: domain.ChainEthereum, normalized: strings.ToLower(strings.TrimPrefix(s, "0x"))}
	case isWIF(s):
		return keyFormat{chain: domain.ChainBitcoin, normalized: s}
	case len(base58.Decode(s)) == 64:
		return keyFormat{chain: domain.ChainSolana, normalized: s}
	case wallet.IsMnemonic(s):
		return keyFormat{mnemonic: true, normalized: wallet.NormalizeMnemonic(s)}
	default:
		return keyFormat{chain: domain.ChainUnknown}
	}
}

func isJWK(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	jwk := map[string]interface{}{}
	if err := json.Unmarshal([]byte(s), &jwk); err != nil {
		return false
	}
	kty, _ := jwk["kty"].(string)
	n, _ := jwk["n"].(string)
	return kty == "RSA" && n != ""
}

func isByteArrayKey(s string) bool {
	if !strings.HasPrefix(s, "[") {
		return false
	}
	buf, err := parseByteArray(s)
	return err == nil && len(buf) == 64
}

func isHexKey(s string) bool {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func isWIF(s string) bool {
	_, err := btcutil.DecodeWIF(s)
	return err == nil
}

// parseByteArray decodes a JSON array of integers in the byte range.
func parseByteArray(s string) ([]byte, error) {
	ints := make([]int, 0)
	if err := json.Unmarshal([]byte(s), &ints); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(ints))
	for _, i := range ints {
		if i < 0 || i > 255 {
			return nil, ErrInvalidPrivateKey
		}
		buf = append(buf, byte(i))
	}
	return buf, nil
}
