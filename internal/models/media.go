package models

// UploadType selects which kind of item evidence an order carries.
type UploadType string

const (
	UploadImages UploadType = "images"
	UploadVideo  UploadType = "video"
)

// MediaEvidence is the photo-set or video proof of the items attached to
// an order. Exactly one variant is active at a time: selecting a variant
// clears anything accumulated under the other, so an order is classified
// as itemized-by-photo or itemized-by-video, never both.
type MediaEvidence struct {
	UploadType UploadType `json:"uploadType,omitempty"`
	Images     []string   `json:"images,omitempty"`
	VideoURI   string     `json:"videoUri,omitempty"`
}

// SelectImages switches the evidence to the image variant. Switching away
// from video discards the recorded video; re-selecting images after a
// switch starts from an empty set.
func (m *MediaEvidence) SelectImages() {
	if m.UploadType != UploadImages {
		m.Images = nil
	}
	m.UploadType = UploadImages
	m.VideoURI = ""
}

// SelectVideo switches the evidence to the video variant and discards any
// accumulated images.
func (m *MediaEvidence) SelectVideo() {
	if m.UploadType != UploadVideo {
		m.VideoURI = ""
	}
	m.UploadType = UploadVideo
	m.Images = nil
}

// AddImage appends a captured image. No-op unless the image variant is
// selected.
func (m *MediaEvidence) AddImage(uri string) {
	if m.UploadType != UploadImages {
		return
	}
	m.Images = append(m.Images, uri)
}

// SetVideo records the captured video. No-op unless the video variant is
// selected.
func (m *MediaEvidence) SetVideo(uri string) {
	if m.UploadType != UploadVideo {
		return
	}
	m.VideoURI = uri
}

// Selected reports whether any variant has been chosen.
func (m *MediaEvidence) Selected() bool {
	return m.UploadType == UploadImages || m.UploadType == UploadVideo
}

// Empty reports whether the selected variant has no payload.
func (m *MediaEvidence) Empty() bool {
	switch m.UploadType {
	case UploadImages:
		return len(m.Images) == 0
	case UploadVideo:
		return m.VideoURI == ""
	default:
		return true
	}
}
