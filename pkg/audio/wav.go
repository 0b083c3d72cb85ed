package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Format describes raw PCM audio data.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ParseWAV parses a WAV file and returns its format and raw PCM data.
func ParseWAV(data []byte) (*Format, []byte, error) {
	reader := bytes.NewReader(data)

	riff := make([]byte, 4)
	if _, err := reader.Read(riff); err != nil {
		return nil, nil, err
	}
	if string(riff) != "RIFF" {
		return nil, nil, fmt.Errorf("not a RIFF file")
	}

	// Skip file size
	reader.Seek(4, io.SeekCurrent)

	wave := make([]byte, 4)
	if _, err := reader.Read(wave); err != nil {
		return nil, nil, err
	}
	if string(wave) != "WAVE" {
		return nil, nil, fmt.Errorf("not a WAVE file")
	}

	format := &Format{}
	var dataStart int64
	var dataSize uint32

	for {
		chunkID := make([]byte, 4)
		if _, err := reader.Read(chunkID); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var audioFormat uint16
			binary.Read(reader, binary.LittleEndian, &audioFormat)

			var numChannels uint16
			binary.Read(reader, binary.LittleEndian, &numChannels)
			format.Channels = int(numChannels)

			var sampleRate uint32
			binary.Read(reader, binary.LittleEndian, &sampleRate)
			format.SampleRate = int(sampleRate)

			// Skip byte rate and block align
			reader.Seek(6, io.SeekCurrent)

			var bitsPerSample uint16
			binary.Read(reader, binary.LittleEndian, &bitsPerSample)
			format.BitDepth = int(bitsPerSample)

			if remaining := chunkSize - 16; remaining > 0 {
				reader.Seek(int64(remaining), io.SeekCurrent)
			}
		case "data":
			dataStart, _ = reader.Seek(0, io.SeekCurrent)
			dataSize = chunkSize
		default:
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		}
		if dataSize > 0 {
			break
		}
	}

	if dataSize == 0 {
		return nil, nil, fmt.Errorf("no data chunk found")
	}

	audioData := make([]byte, dataSize)
	reader.Seek(dataStart, io.SeekStart)
	if _, err := io.ReadFull(reader, audioData); err != nil {
		return nil, nil, fmt.Errorf("short data chunk: %w", err)
	}

	return format, audioData, nil
}
