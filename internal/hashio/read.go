package hashio

import (
	"crypto/md5" //nolint
	"crypto/sha1"
	"errors"
	"fmt"
	"hash"
	"io/fs"
)

type HashFunc func([]byte) ([]byte, error)

var ErrHashFuncNotFound = errors.New("hash func not found")

// ReadFile takes the virtual file system interface fs.FS and fully reads the contents of the file,
// then applies a HashFunc to it
func ReadFile(fsys fs.FS, fileName string, hashFunc HashFunc) ([]byte, error) {
	if hashFunc == nil {
		return nil, ErrHashFuncNotFound
	}

	input, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileName, err)
	}

	output, err := hashFunc(input)
	if err != nil {
		return nil, fmt.Errorf("call HashFunc: %w", err)
	}

	return output, nil
}

func HashSumFunc(hasher func() hash.Hash) HashFunc {
	return func(in []byte) ([]byte, error) {
		h := hasher()
		if _, err := h.Write(in); err != nil {
			return nil, fmt.Errorf("%T(hashfile.Hash) write: %w", h, err)
		}

		return h.Sum(nil), nil
	}
}

func MD5HashFunc() HashFunc {
	return HashSumFunc(func() hash.Hash {
		return md5.New()
	})
}

func SHA1HashFunc() HashFunc {
	return HashSumFunc(func() hash.Hash {
		return sha1.New()
	})
}
