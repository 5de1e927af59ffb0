package archive

import (
	"fmt"
	"strings"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// Record is a file recovered from an archive. Path always starts with a
// single slash.
type Record struct {
	Path    string
	Content []byte
}

// Parse scans buf block by block and returns its file records in archive
// order. Directory entries produce no record.
//
// Malformed headers with an empty name are skipped one block at a time, and
// a trailing partial block ends the scan, so the files before a corrupted
// tail are still recovered. A size field that is negative or exceeds the
// remaining buffer fails the parse with ErrArchiveFormat.
//
// Parse never modifies buf and the returned content does not alias it.
func Parse(buf []byte) ([]Record, error) {
	var records []Record
	err := scan(buf, func(r Record) {
		records = append(records, r)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func scan(buf []byte, yield func(Record)) error {
	var offset int64
	total := int64(len(buf))

	for offset+BlockSize <= total {
		blk := buf[offset : offset+BlockSize]

		name := readName(blk)
		if name == "" {
			if isZeroBlock(blk) {
				return nil
			}
			offset += BlockSize
			continue
		}

		size := readSize(blk)
		flag := blk[typeFlagOffset]
		offset += BlockSize

		switch flag {
		case typeDirectory:
			continue
		case typeFile, typeFileLegacy, typeContiguous:
		default:
			// Links, devices and extension headers carry no file record.
			// Only the extension types have a body to step over.
			if flag >= '1' && flag <= '6' {
				continue
			}
		}

		if size < 0 || size > total-offset {
			return fmt.Errorf("entry %q declares %d bytes at offset %d, %d remain: %w",
				name, size, offset-BlockSize, total-offset, ferrors.ErrArchiveFormat)
		}

		if flag == typeFile || flag == typeFileLegacy || flag == typeContiguous {
			content := make([]byte, size)
			copy(content, buf[offset:offset+size])
			yield(Record{Path: normalizePath(name), Content: content})
		}
		offset += paddedLen(size)
	}
	return nil
}

// normalizePath strips a leading "./" and enforces a single leading slash.
func normalizePath(name string) string {
	name = strings.TrimPrefix(name, "./")
	return "/" + strings.TrimLeft(name, "/")
}
