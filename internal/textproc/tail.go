package textproc

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

const tailBlock = 8 << 10

// LastLines returns the final n lines of f, reading backwards from EOF in
// blocks so large files never load fully.
func LastLines(f *os.File, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	var (
		buf      []byte
		newlines int
		off      = size
	)

	for off > 0 {
		readLen := int64(tailBlock)
		if readLen > off {
			readLen = off
		}
		off -= readLen

		block := make([]byte, readLen)
		if _, err := f.ReadAt(block, off); err != nil {
			return nil, err
		}
		buf = append(block, buf...)

		// A trailing newline terminates the last line rather than
		// starting a new one, hence the end-trim before counting.
		newlines = bytes.Count(bytes.TrimSuffix(buf, []byte{'\n'}), []byte{'\n'})
		if newlines >= n {
			break
		}
	}

	if newlines < n {
		return buf, nil
	}

	trimmed := bytes.TrimSuffix(buf, []byte{'\n'})
	idx := len(trimmed)
	for range n {
		idx = bytes.LastIndexByte(trimmed[:idx], '\n')
		if idx < 0 {
			return buf, nil
		}
	}
	return buf[idx+1:], nil
}

// LastBytes returns the final n bytes of f.
func LastBytes(f *os.File, n int64) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if n > size {
		n = size
	}

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, size-n); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// TailReader returns the final n lines of a non-seekable stream, keeping
// only a rolling window of n lines in memory.
func TailReader(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	ring := make([][]byte, 0, n)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		if len(ring) == n {
			copy(ring, ring[1:])
			ring[n-1] = line
		} else {
			ring = append(ring, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	for _, line := range ring {
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}
