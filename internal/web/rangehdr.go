package web

import (
	"errors"
	"math"
	"net/textproto"
	"strconv"
	"strings"
)

// ByteRange is the inclusive interval [Start, End] of a resource.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes in the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a resource of size bytes.
func (r ByteRange) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10) + "/" + strconv.FormatInt(size, 10)
}

// fullRange covers a whole resource of size bytes. For size 0 it is empty.
func fullRange(size int64) ByteRange {
	return ByteRange{Start: 0, End: size - 1}
}

// ParseRange parses a single-range header "bytes=<start>-[<end>]" against a
// resource of size bytes.
//
// A missing end means "to the last byte", and an end past the last byte is
// clamped to it. Suffix ranges ("bytes=-500") and multiple ranges are
// reported as *MalformedRangeError. A start at or beyond size, or after
// end, is *UnsatisfiableRangeError.
func ParseRange(header string, size int64) (ByteRange, error) {
	const prefix = "bytes="
	h := textproto.TrimString(header)
	if !strings.HasPrefix(h, prefix) {
		return ByteRange{}, &MalformedRangeError{Header: header, Reason: "unit must be bytes"}
	}

	startStr, endStr, ok := strings.Cut(h[len(prefix):], "-")
	if !ok {
		return ByteRange{}, &MalformedRangeError{Header: header, Reason: "missing '-'"}
	}
	startStr = textproto.TrimString(startStr)
	endStr = textproto.TrimString(endStr)

	if startStr == "" {
		return ByteRange{}, &MalformedRangeError{Header: header, Reason: "missing start"}
	}
	start, ok := parseOffset(startStr)
	if !ok {
		return ByteRange{}, &MalformedRangeError{Header: header, Reason: "start is not a non-negative integer"}
	}

	end := size - 1
	if endStr != "" {
		end, ok = parseOffset(endStr)
		if !ok {
			return ByteRange{}, &MalformedRangeError{Header: header, Reason: "end is not a non-negative integer"}
		}
	}

	if start >= size || start > end {
		return ByteRange{}, &UnsatisfiableRangeError{Header: header, Size: size}
	}
	if end >= size {
		end = size - 1
	}
	return ByteRange{Start: start, End: end}, nil
}

// parseOffset accepts only plain decimal digits, unlike strconv which also
// takes a sign. Values too large for int64 saturate at math.MaxInt64.
func parseOffset(s string) (int64, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt64, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
