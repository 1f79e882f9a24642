package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "QUAL"
	FormatVersion   = 1
	HeaderAlignment = 64 // Data section starts on a 64-byte boundary.
	FixedHeaderSize = 64
	ChecksumSize    = 32
	ChecksumOffset  = 0x20
)

// Storage data types. Arrays are float64 in memory; float16 halves files
// that only need to be approximately restored.
const (
	DTypeFloat64 = "float64"
	DTypeFloat16 = "float16"
)

// Flags of the fixed header.
const (
	FlagHasOptimizer uint32 = 1 << 0 // Tensors include optimizer state.
	FlagHasMetadata  uint32 = 1 << 1 // Header carries custom metadata.
)

// Key prefixes separating model and optimizer tensors in a checkpoint.
const (
	ModelPrefix     = "model."
	OptimizerPrefix = "optim."
)

// Header is the JSON header of a .qualia file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	QualiaVersion string            `json:"qualia_version"`
	ModelType     string            `json:"model_type,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checkpoint    *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta records where training stood when a checkpoint was taken.
type CheckpointMeta struct {
	Step      int     `json:"step"`
	Epoch     int     `json:"epoch"`
	Loss      float64 `json:"loss"`
	Optimizer string  `json:"optimizer,omitempty"` // Name accepted by optim.New.
}

// TensorMeta locates a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // Bytes from the start of the data section.
	Size   int64  `json:"size"`   // Bytes.
}

func alignedOffset(pos int64) int64 {
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}

// elementSize returns the bytes per element of dtype, 0 if unknown.
func elementSize(dtype string) int64 {
	switch dtype {
	case DTypeFloat64:
		return 8
	case DTypeFloat16:
		return 2
	default:
		return 0
	}
}
