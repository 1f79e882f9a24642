package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/born-ml/qualia/internal/tensor"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool
}

// Read decodes a .qualia file from r.
func Read(r io.Reader, opts ReaderOptions) (*File, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, errors.Wrap(err, "failed to read fixed header")
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	f := &File{}
	if err := json.Unmarshal(headerJSON, &f.Header); err != nil {
		return nil, errors.Wrap(err, "failed to parse header JSON")
	}
	if err := ValidateHeader(&f.Header, int64(dataSize)); err != nil { //nolint:gosec // bounded by the file
		return nil, errors.WithMessage(err, "validation failed")
	}

	end := int64(FixedHeaderSize) + int64(headerSize) //nolint:gosec // headerSize <= MaxHeaderSize
	if _, err := io.CopyN(io.Discard, r, alignedOffset(end)-end); err != nil {
		return nil, errors.Wrap(err, "failed to skip padding")
	}
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(err, "failed to read tensor data")
	}
	if !opts.SkipChecksumValidation && sha256.Sum256(data) != stored {
		return nil, ErrChecksumMismatch
	}

	f.Tensors = make(map[string]*tensor.Array, len(f.Header.Tensors))
	for _, meta := range f.Header.Tensors {
		values := decode(data[meta.Offset:meta.Offset+meta.Size], meta.DType)
		a, err := tensor.FromSlice(values, meta.Shape...)
		if err != nil {
			return nil, errors.WithMessagef(err, "tensor %q", meta.Name)
		}
		f.Tensors[meta.Name] = a
	}
	return f, nil
}

// Load reads the .qualia file at path.
func Load(path string, opts ReaderOptions) (*File, error) {
	//nolint:gosec // G304: the path is chosen by the caller.
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", path)
	}
	defer func() { _ = in.Close() }()
	f, err := Read(in, opts)
	return f, errors.WithMessagef(err, "reading %q", path)
}

func decode(src []byte, dtype string) []float64 {
	elem := int(elementSize(dtype))
	values := make([]float64, len(src)/elem)
	for i := range values {
		switch dtype {
		case DTypeFloat16:
			values[i] = float64(float16.Frombits(binary.LittleEndian.Uint16(src[i*elem:])).Float32())
		default:
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*elem:]))
		}
	}
	return values
}
