// Package serialization saves and restores qualia state dictionaries in the
// .qualia checkpoint format.
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00 magic "QUAL"
//	    0x04 version (uint32 LE)
//	    0x08 flags (uint32 LE)
//	    0x10 JSON header size (uint64 LE)
//	    0x18 data section size (uint64 LE)
//	    0x20 SHA-256 of the data section
//	  [JSON header]
//	  [padding to a 64-byte boundary]
//	  [data section: float64 little-endian, tensors back to back]
//
// A checkpoint bundles the state dictionary of a model with the state of
// its optimizer, so training can resume exactly where it stopped:
//
//	err := serialization.SaveCheckpoint("run.qualia", model, opt, serialization.CheckpointMeta{
//	    Step: step, Loss: loss, Optimizer: "radam",
//	})
//	...
//	meta, err := serialization.LoadCheckpoint("run.qualia", model, opt)
package serialization
