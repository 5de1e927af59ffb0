package archive

import (
	"bytes"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// BlockSize is the fixed size of every header and content block.
const BlockSize = 512

// Header field layout (USTAR).
const (
	nameOffset     = 0
	nameSize       = 100
	modeOffset     = 100
	modeSize       = 8
	uidOffset      = 108
	gidOffset      = 116
	idSize         = 8
	sizeOffset     = 124
	sizeSize       = 12
	mtimeOffset    = 136
	mtimeSize      = 12
	chksumOffset   = 148
	chksumSize     = 8
	typeFlagOffset = 156
	magicOffset    = 257
	versionOffset  = 263
	prefixOffset   = 345
	prefixSize     = 155
)

// Type flags.
const (
	typeFile       byte = '0'
	typeFileLegacy byte = 0
	typeContiguous byte = '7'
	typeDirectory  byte = '5'
)

const (
	ustarMagic   = "ustar\x00"
	ustarVersion = "00"

	// maxSize is the largest size an 11-digit octal field can carry.
	maxSize = 1<<33 - 1
)

var zeroBlock [BlockSize]byte

// Kind distinguishes the entry kinds the archive can represent.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one filesystem object in the archive. Directory paths end with
// a slash and carry no content.
type Entry struct {
	Path    string
	Kind    Kind
	Mode    fs.FileMode
	ModTime time.Time
	Content []byte
}

// Size returns the content length; always zero for directories.
func (e Entry) Size() int64 {
	if e.Kind == KindDirectory {
		return 0
	}
	return int64(len(e.Content))
}

// encodeHeader renders the header block for e.
func encodeHeader(e Entry) ([BlockSize]byte, error) {
	var blk [BlockSize]byte

	prefix, name, ok := splitPath(e.Path)
	if !ok {
		return blk, fmt.Errorf("%q is %d bytes: %w", e.Path, len(e.Path), ferrors.ErrPathTooLong)
	}
	if e.Size() > maxSize {
		return blk, fmt.Errorf("%q is %d bytes, limit is %d: %w", e.Path, e.Size(), int64(maxSize), ferrors.ErrUnsupportedEntry)
	}

	copy(blk[nameOffset:nameOffset+nameSize], name)
	copy(blk[prefixOffset:prefixOffset+prefixSize], prefix)

	mode := int64(e.Mode.Perm())
	if mode == 0 {
		mode = 0o644
		if e.Kind == KindDirectory {
			mode = 0o755
		}
	}
	formatOctal(blk[modeOffset:modeOffset+modeSize], mode)
	formatOctal(blk[uidOffset:uidOffset+idSize], 0)
	formatOctal(blk[gidOffset:gidOffset+idSize], 0)
	formatOctal(blk[sizeOffset:sizeOffset+sizeSize], e.Size())

	mtime := e.ModTime.Unix()
	if e.ModTime.IsZero() || mtime < 0 {
		mtime = 0
	}
	formatOctal(blk[mtimeOffset:mtimeOffset+mtimeSize], mtime)

	if e.Kind == KindDirectory {
		blk[typeFlagOffset] = typeDirectory
	} else {
		blk[typeFlagOffset] = typeFile
	}
	copy(blk[magicOffset:], ustarMagic)
	copy(blk[versionOffset:], ustarVersion)

	writeChecksum(&blk)
	return blk, nil
}

// splitPath fits p into the USTAR name and prefix fields. Paths longer than
// the name field are split at a slash so that the tail fits in 100 bytes and
// the head in 155.
func splitPath(p string) (prefix, name string, ok bool) {
	if len(p) <= nameSize {
		return "", p, true
	}
	if len(p) > prefixSize+1+nameSize {
		return "", "", false
	}
	// A trailing slash belongs to the name part.
	search := strings.TrimSuffix(p, "/")
	for i := len(search) - 1; i > 0; i-- {
		if search[i] != '/' {
			continue
		}
		if i > prefixSize {
			continue
		}
		if len(p)-i-1 > nameSize {
			return "", "", false
		}
		return p[:i], p[i+1:], true
	}
	return "", "", false
}

// formatOctal writes v as zero-padded octal digits followed by a NUL.
func formatOctal(field []byte, v int64) {
	s := strconv.FormatInt(v, 8)
	digits := len(field) - 1
	for len(s) < digits {
		s = "0" + s
	}
	copy(field, s)
	field[digits] = 0
}

// writeChecksum computes the unsigned header sum with the checksum field
// treated as spaces and stores it as six octal digits, NUL, space.
func writeChecksum(blk *[BlockSize]byte) {
	for i := chksumOffset; i < chksumOffset+chksumSize; i++ {
		blk[i] = ' '
	}
	var sum int64
	for _, b := range blk {
		sum += int64(b)
	}
	s := strconv.FormatInt(sum, 8)
	for len(s) < 6 {
		s = "0" + s
	}
	copy(blk[chksumOffset:], s)
	blk[chksumOffset+6] = 0
	blk[chksumOffset+7] = ' '
}

// readName returns the name field trimmed at the first NUL and of
// surrounding whitespace, joined with the USTAR prefix when present.
func readName(blk []byte) string {
	name := strings.TrimSpace(cString(blk[nameOffset : nameOffset+nameSize]))
	if name == "" {
		return ""
	}
	if string(blk[magicOffset:magicOffset+len(ustarMagic)]) == ustarMagic {
		if prefix := strings.TrimSpace(cString(blk[prefixOffset : prefixOffset+prefixSize])); prefix != "" {
			return prefix + "/" + name
		}
	}
	return name
}

// readSize parses the octal size field up to its first NUL. Only an
// optional minus sign and octal digits are accepted; anything else is zero.
func readSize(blk []byte) int64 {
	text := strings.TrimSpace(cString(blk[sizeOffset : sizeOffset+sizeSize]))
	if text == "" || text[0] == '+' {
		return 0
	}
	n, err := strconv.ParseInt(text, 8, 64)
	if err != nil {
		return 0
	}
	return n
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func isZeroBlock(blk []byte) bool {
	return bytes.Equal(blk, zeroBlock[:])
}

// paddedLen rounds n up to the next block boundary.
func paddedLen(n int64) int64 {
	return (n + BlockSize - 1) / BlockSize * BlockSize
}
