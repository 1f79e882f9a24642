package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/born-ml/qualia/internal/tensor"
)

// QualiaVersion is recorded in the header of every written file.
const QualiaVersion = "0.1.0"

// File is the in-memory content of a .qualia file.
type File struct {
	Header  Header
	Tensors map[string]*tensor.Array
}

// WriteOption configures Write and Save.
type WriteOption func(*writeConfig)

type writeConfig struct {
	dtype string
}

// WithFloat16 stores every tensor as IEEE 754 half precision.
func WithFloat16() WriteOption {
	return func(c *writeConfig) { c.dtype = DTypeFloat16 }
}

// Write encodes f to w. Tensors are laid out in sorted name order, so equal
// inputs produce equal bytes apart from the creation time.
func Write(w io.Writer, f *File, opts ...WriteOption) error {
	cfg := writeConfig{dtype: DTypeFloat64}
	for _, opt := range opts {
		opt(&cfg)
	}
	elem := elementSize(cfg.dtype)

	header := f.Header
	header.FormatVersion = FormatVersion
	header.QualiaVersion = QualiaVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	names := make([]string, 0, len(f.Tensors))
	for name := range f.Tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	slices.Sort(names)

	header.Tensors = make([]TensorMeta, 0, len(names))
	var offset int64
	for _, name := range names {
		a := f.Tensors[name]
		size := int64(a.Size()) * elem
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  cfg.dtype,
			Shape:  slices.Clone([]int(a.Shape())),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	data := make([]byte, offset)
	for i, name := range names {
		encode(data[header.Tensors[i].Offset:], f.Tensors[name].Data(), cfg.dtype)
	}
	checksum := sha256.Sum256(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	for _, name := range names {
		if strings.HasPrefix(name, OptimizerPrefix) {
			flags |= FlagHasOptimizer
			break
		}
	}
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	end := int64(FixedHeaderSize + len(headerJSON))
	padding := make([]byte, alignedOffset(end)-end)

	bw := bufio.NewWriter(w)
	for _, chunk := range [][]byte{fixed, headerJSON, padding, data} {
		if _, err := bw.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to write")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush")
}

// Save writes f to path, replacing any existing file.
func Save(path string, f *File, opts ...WriteOption) (err error) {
	//nolint:gosec // G304: the path is chosen by the caller.
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "failed to close %q", path)
		}
	}()
	return Write(out, f, opts...)
}

func encode(dst []byte, values []float64, dtype string) {
	switch dtype {
	case DTypeFloat16:
		for i, v := range values {
			binary.LittleEndian.PutUint16(dst[i*2:], float16.Fromfloat32(float32(v)).Bits())
		}
	default:
		for i, v := range values {
			binary.LittleEndian.PutUint64(dst[i*8:], math.Float64bits(v))
		}
	}
}
