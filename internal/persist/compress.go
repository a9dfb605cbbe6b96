package persist

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a profile payload is compressed. The values
// are written to disk and must not change.
type Compression uint8

// Supported compressions.
const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression name from configuration.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

var fileMagic = [4]byte{'M', 'T', 'R', 'K'}

const headerSize = len(fileMagic) + 1 + 4

// maxPayload caps the declared uncompressed size of a file.
const maxPayload = 1 << 31

var errIncompressible = errors.New("data is incompressible")

// lz4MaxSize bounds the output of an lz4 block. A block expands by at most
// 255 bytes per input byte.
func lz4MaxSize(compressed int) uint64 {
	return uint64(compressed) * 255
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("persist: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayload))
	if err != nil {
		panic("persist: zstd decoder initialization failed: " + err.Error())
	}
}

// frame wraps payload in the file header, compressing it with c. Payloads
// that do not shrink are stored uncompressed.
func frame(payload []byte, c Compression) ([]byte, error) {
	body, err := compress(payload, c)
	if errors.Is(err, errIncompressible) {
		body, c = payload, CompressionNone
	} else if err != nil {
		return nil, err
	}
	out := make([]byte, headerSize, headerSize+len(body))
	copy(out, fileMagic[:])
	out[len(fileMagic)] = byte(c)
	binary.BigEndian.PutUint32(out[len(fileMagic)+1:], uint32(len(payload)))
	return append(out, body...), nil
}

// unframe validates the header and returns the decompressed payload.
func unframe(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("file too short: %d bytes", len(data))
	}
	if [4]byte(data[:4]) != fileMagic {
		return nil, fmt.Errorf("bad magic %q", data[:4])
	}
	c := Compression(data[4])
	size := binary.BigEndian.Uint32(data[5:headerSize])
	if size > maxPayload {
		return nil, fmt.Errorf("payload size %d too large", size)
	}
	body := data[headerSize:]
	if c == CompressionLZ4 && uint64(size) > lz4MaxSize(len(body)) {
		return nil, fmt.Errorf("lz4 payload: size %d impossible for %d byte body", size, len(body))
	}
	return decompress(body, c, int(size))
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil
	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

func decompress(data []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d", len(data), size)
		}
		return data, nil
	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(data, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil
	case CompressionZstd:
		var header zstd.Header
		if err := header.Decode(data); err != nil {
			return nil, fmt.Errorf("zstd header: %w", err)
		}
		if header.HasFCS && header.FrameContentSize != uint64(size) {
			return nil, fmt.Errorf("zstd frame declares %d bytes, expected %d", header.FrameContentSize, size)
		}
		result, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}
