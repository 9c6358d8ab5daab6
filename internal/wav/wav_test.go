// Package wav_test tests the WAV container builder.
package wav_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/ivr-service/internal/wav"
)

func TestBuild_TelephonyFormatHeader(t *testing.T) {
	t.Parallel()

	// Two frames of mono 16-bit PCM at 8 kHz, the greeting format.
	samples := []byte{0x01, 0x02, 0x03, 0x04}

	container := wav.Build(samples, 8000, 1, 2)

	require.Len(t, container, wav.HeaderSize+len(samples))

	assert.Equal(t, "RIFF", string(container[0:4]))
	assert.Equal(t, "WAVE", string(container[8:12]))
	assert.Equal(t, "fmt ", string(container[12:16]))
	assert.Equal(t, "data", string(container[36:40]))

	assert.Equal(t, uint32(len(samples)+36), binary.LittleEndian.Uint32(container[4:8]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(container[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(container[20:22]), "audio format must be linear PCM")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(container[22:24]), "channel count")
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(container[24:28]), "sample rate")
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(container[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(container[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(container[34:36]), "bits per sample")
	assert.Equal(t, uint32(len(samples)), binary.LittleEndian.Uint32(container[40:44]))
}

func TestBuild_SizeFields(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		sampleRate     int
		channelCount   int
		bytesPerSample int
		frameCount     int
	}{
		{name: "mono 8kHz 16-bit", sampleRate: 8000, channelCount: 1, bytesPerSample: 2, frameCount: 100},
		{name: "stereo 44.1kHz 16-bit", sampleRate: 44100, channelCount: 2, bytesPerSample: 2, frameCount: 441},
		{name: "mono 16kHz 8-bit", sampleRate: 16000, channelCount: 1, bytesPerSample: 1, frameCount: 3},
		{name: "empty data", sampleRate: 8000, channelCount: 1, bytesPerSample: 2, frameCount: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			blockAlign := testCase.channelCount * testCase.bytesPerSample
			dataSize := testCase.frameCount * blockAlign
			samples := make([]byte, dataSize)

			for i := range samples {
				samples[i] = byte(i)
			}

			container := wav.Build(
				samples,
				testCase.sampleRate,
				testCase.channelCount,
				testCase.bytesPerSample,
			)

			require.Len(t, container, wav.HeaderSize+dataSize)
			assert.Equal(t,
				uint32(dataSize+36),
				binary.LittleEndian.Uint32(container[4:8]),
				"outer chunk size",
			)
			assert.Equal(t,
				uint32(dataSize),
				binary.LittleEndian.Uint32(container[40:44]),
				"data chunk size",
			)
			assert.Equal(t,
				uint16(blockAlign),
				binary.LittleEndian.Uint16(container[32:34]),
				"block align",
			)
			assert.Equal(t,
				uint32(testCase.sampleRate*blockAlign),
				binary.LittleEndian.Uint32(container[28:32]),
				"byte rate",
			)
		})
	}
}

func TestBuild_RoundTripSampleBytes(t *testing.T) {
	t.Parallel()

	const frameCount = 256

	samples := make([]byte, frameCount*2)
	for i := range samples {
		samples[i] = byte(i * 7)
	}

	container := wav.Build(samples, 8000, 1, 2)

	// The payload after the fixed header is the original sample data,
	// untouched.
	require.Equal(t, samples, container[wav.HeaderSize:])
}
