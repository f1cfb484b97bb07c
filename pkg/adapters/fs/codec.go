package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// Key-set file layout: a flat sequence of records, each a 4-byte little-endian
// unsigned length followed by that many bytes of UTF-8. There is no header,
// count, checksum or version tag; end of file terminates the sequence.
//
// Every persisted change rewrites the whole file, so a write costs O(set size).
// That is fine for the thousands of IDs a database is expected to hold and is
// the ceiling of this format: larger sets belong in the sqlite backend.

const lengthPrefixSize = 4

// Decode parses a record sequence. A truncated trailing record (short length
// prefix or short body) is discarded, as are zero-length records.
func Decode(data []byte) map[string]struct{} {
	ids := make(map[string]struct{})
	for len(data) >= lengthPrefixSize {
		n := binary.LittleEndian.Uint32(data[:lengthPrefixSize])
		data = data[lengthPrefixSize:]
		if uint64(n) > uint64(len(data)) {
			break
		}
		if n > 0 {
			ids[string(data[:n])] = struct{}{}
		}
		data = data[n:]
	}
	return ids
}

// Encode writes ids as a record sequence in sorted order, so that equal sets
// produce identical bytes.
func Encode(w io.Writer, ids map[string]struct{}) error {
	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}
	sort.Strings(keys)

	var prefix [lengthPrefixSize]byte
	for _, id := range keys {
		if uint64(len(id)) > math.MaxUint32 {
			return fmt.Errorf("id too long to encode: %d bytes", len(id))
		}
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(id)))
		if _, err := w.Write(prefix[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, id); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile decodes the key-set file at path. A missing file is an empty set.
func ReadFile(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]struct{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key set: %w", err)
	}
	return Decode(data), nil
}

// WriteFile replaces the key-set file at path with ids using the atomic
// temp-file-and-rename protocol.
func WriteFile(path string, ids map[string]struct{}) error {
	return replaceFile(path, 0644, func(w io.Writer) error {
		return Encode(w, ids)
	})
}
