package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/sha256-simd"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

/***************************************
 * Fingerprint
 ***************************************/

type Fingerprint [sha256.Size]byte

func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}
func (x Fingerprint) ShortString() string {
	return hex.EncodeToString(x[:8])
}
func (x Fingerprint) Valid() bool {
	for _, it := range x {
		if it != 0 {
			return true
		}
	}
	return false
}
func (x *Fingerprint) Set(str string) (err error) {
	var data []byte
	if data, err = hex.DecodeString(str); err == nil {
		if len(data) == sha256.Size {
			copy(x[:], data)
			return nil
		}
		err = fmt.Errorf("fingerprint: unexpected string length '%s'", str)
	}
	return err
}
func (x Fingerprint) MarshalText() ([]byte, error) {
	buf := [sha256.Size * 2]byte{}
	hex.Encode(buf[:], x[:])
	return buf[:], nil
}
func (x *Fingerprint) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}

/***************************************
 * Digest helpers
 ***************************************/

func BytesFingerprint(in []byte) Fingerprint {
	return sha256.Sum256(in)
}

func ReaderFingerprint(rd io.Reader) (result Fingerprint, err error) {
	digester := sha256.New()
	if _, err = io.Copy(digester, rd); err != nil {
		return
	}
	copy(result[:], digester.Sum(nil))
	return
}

func FileFingerprint(src Filename) (result Fingerprint, err error) {
	err = UFS.OpenFile(src, func(rd *os.File) (err error) {
		result, err = ReaderFingerprint(rd)
		return
	})
	return
}

// JsonFingerprint digests the canonical json encoding of x, map keys sorted.
func JsonFingerprint(x interface{}) (Fingerprint, error) {
	digester := sha256.New()
	if err := base.JsonSerialize(x, digester); err != nil {
		return Fingerprint{}, err
	}
	var result Fingerprint
	copy(result[:], digester.Sum(nil))
	return result, nil
}
