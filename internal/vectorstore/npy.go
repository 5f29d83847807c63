// Package vectorstore persists per-document embedding vectors as NumPy
// .npy files under a document store's vectors directory and serves
// cosine-similarity top-k search over them.
//
// No third-party .npy codec exists among the example repos or their
// dependency graphs, and the format itself (a short fixed header plus a
// raw little-endian float buffer) is small enough that a minimal encoder
// is the right call here rather than adding an unrelated dependency just
// to read eight bytes of magic and a header dict.
package vectorstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	npyMagic   = "\x93NUMPY"
	npyVersion = "\x01\x00"
)

// encodeNpy writes a 1-D float32 array in NumPy .npy v1.0 format.
func encodeNpy(v []float32) []byte {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d,), }", len(v))

	// The full preamble (magic + version + header-length field + header)
	// must be a multiple of 64 bytes, padded with spaces and a trailing
	// newline, per the NumPy format specification.
	const preambleFixed = len(npyMagic) + len(npyVersion) + 2 // magic + version + uint16 header length
	total := preambleFixed + len(header) + 1                  // +1 for trailing newline
	pad := (64 - total%64) % 64
	header = header + strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString(npyMagic)
	buf.WriteString(npyVersion)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)

	for _, f := range v {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	return buf.Bytes()
}

// decodeNpy reads a 1-D float32 array written by encodeNpy.
func decodeNpy(data []byte) ([]float32, error) {
	if len(data) < 10 || string(data[:6]) != npyMagic {
		return nil, fmt.Errorf("vectorstore: not a .npy file")
	}
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	headerStart := 10
	headerEnd := headerStart + headerLen
	if headerEnd > len(data) {
		return nil, fmt.Errorf("vectorstore: truncated .npy header")
	}
	header := string(data[headerStart:headerEnd])

	n, err := parseShape(header)
	if err != nil {
		return nil, err
	}

	body := data[headerEnd:]
	if len(body) < n*4 {
		return nil, fmt.Errorf("vectorstore: truncated .npy body")
	}

	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(body[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// parseShape extracts the single dimension from a header dict string like
// "{'descr': '<f4', 'fortran_order': False, 'shape': (256,), }".
func parseShape(header string) (int, error) {
	const marker = "'shape': ("
	idx := strings.Index(header, marker)
	if idx == -1 {
		return 0, fmt.Errorf("vectorstore: missing shape in .npy header")
	}
	rest := header[idx+len(marker):]
	end := strings.IndexByte(rest, ',')
	if end == -1 {
		end = strings.IndexByte(rest, ')')
	}
	if end == -1 {
		return 0, fmt.Errorf("vectorstore: malformed shape in .npy header")
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil {
		return 0, fmt.Errorf("vectorstore: parse shape: %w", err)
	}
	return n, nil
}

// writeFile encodes v as .npy and writes it to path.
func writeFile(path string, v []float32) error {
	return os.WriteFile(path, encodeNpy(v), 0644)
}

// readFile reads and decodes the .npy vector at path.
func readFile(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeNpy(data)
}
