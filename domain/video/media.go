package video

// Stream describes one elementary stream reported by a probe
type Stream struct {
	Index     int
	CodecType string // "video", "audio", "subtitle", ...
	CodecName string
	Width     int
	Height    int
}

// MediaInfo is the probed metadata of a media file. It is re-derived on
// every probe and never cached.
type MediaInfo struct {
	Path            string
	DurationSeconds float64
	Streams         []Stream
}

// VideoStreams returns the video streams of the file
func (m *MediaInfo) VideoStreams() []Stream {
	return m.streamsOfType("video")
}

// AudioStreams returns the audio streams of the file
func (m *MediaInfo) AudioStreams() []Stream {
	return m.streamsOfType("audio")
}

func (m *MediaInfo) streamsOfType(codecType string) []Stream {
	var out []Stream
	for _, s := range m.Streams {
		if s.CodecType == codecType {
			out = append(out, s)
		}
	}
	return out
}
