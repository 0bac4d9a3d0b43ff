package camera

import (
	"sort"
	"strconv"
	"strings"
)

// Channel is one image-producing viewpoint stream.
type Channel struct {
	// Index is the contiguous position within the manifest, 0..count-1.
	Index int
	// Digit is the filename digit that maps frames onto this channel.
	Digit int
	// Label is the channel name derived from the naming template.
	Label string
}

// Manifest is the ordered, immutable set of camera channels for one task. It
// is built once before any episode processing and shared read-only by all
// episodes in that task.
type Manifest struct {
	channels []Channel
}

// NewManifest builds a manifest from the observed filename digits, assigning
// contiguous indexes in ascending digit order and labels from the template.
func NewManifest(digits []int, template string) Manifest {
	unique := make([]int, 0, len(digits))
	seen := make(map[int]struct{}, len(digits))
	for _, d := range digits {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	sort.Ints(unique)

	channels := make([]Channel, 0, len(unique))
	for i, d := range unique {
		channels = append(channels, Channel{Index: i, Digit: d, Label: FormatLabel(template, d)})
	}
	return Manifest{channels: channels}
}

// SingleChannel returns the implicit single-camera manifest used when
// detection is disabled or inconclusive.
func SingleChannel(template string) Manifest {
	return NewManifest([]int{0}, template)
}

// Count returns the number of channels.
func (m Manifest) Count() int {
	return len(m.channels)
}

// Channels returns a copy of the channel list in index order.
func (m Manifest) Channels() []Channel {
	out := make([]Channel, len(m.channels))
	copy(out, m.channels)
	return out
}

// ChannelForDigit returns the channel mapped to a filename digit.
func (m Manifest) ChannelForDigit(digit int) (Channel, bool) {
	for _, ch := range m.channels {
		if ch.Digit == digit {
			return ch, true
		}
	}
	return Channel{}, false
}

// Label returns the label of the channel at the given index, or "" when the
// index is out of range.
func (m Manifest) Label(index int) string {
	if index < 0 || index >= len(m.channels) {
		return ""
	}
	return m.channels[index].Label
}

// FormatLabel applies the naming template to a camera index.
func FormatLabel(template string, index int) string {
	if !strings.Contains(template, "{index}") {
		return template + strconv.Itoa(index)
	}
	return strings.ReplaceAll(template, "{index}", strconv.Itoa(index))
}
