// Package wav assembles raw linear-PCM sample data into a playable WAV
// container. The header layout is the canonical 44-byte RIFF/WAVE preamble
// with a single fmt and data chunk, little-endian throughout.
package wav

import (
	"bytes"
	"encoding/binary"
)

// HeaderSize is the fixed size of the container preamble in bytes.
const HeaderSize = 44

// pcmFormatTag marks uncompressed linear PCM in the fmt chunk.
const pcmFormatTag = 1

// riffChunkOverhead is the part of the outer chunk size that is not sample
// data: "WAVE" plus the complete fmt chunk plus the data chunk preamble.
const riffChunkOverhead = 36

// bitsPerByte converts the byte depth to the bit depth declared in the header.
const bitsPerByte = 8

// Header is the fixed-layout WAV container preamble. The field order and
// widths match the on-disk format so the struct can be written directly with
// binary.Write.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // dataSize + 36
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for linear PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * BlockAlign
	BlockAlign    uint16 // NumChannels * bytes per sample
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // sample data length in bytes
}

// Build wraps raw sample bytes in a WAV container and returns the complete
// file contents, HeaderSize + len(samples) bytes long. The sample data must
// already be aligned to whole frames (channelCount * bytesPerSample); this is
// a caller contract and is not checked here.
func Build(samples []byte, sampleRate, channelCount, bytesPerSample int) []byte {
	blockAlign := channelCount * bytesPerSample
	byteRate := sampleRate * blockAlign
	dataSize := len(samples)

	header := Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(dataSize + riffChunkOverhead),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   pcmFormatTag,
		NumChannels:   uint16(channelCount),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(bytesPerSample * bitsPerByte),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+dataSize))

	// Writing a fixed-size struct of integer fields into a bytes.Buffer
	// cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, header)
	_, _ = buf.Write(samples)

	return buf.Bytes()
}
