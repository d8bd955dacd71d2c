package host

import "github.com/goliatone/go-formhost/internal/datapath"

// TemporaryFile describes an upload held by the file storage subsystem until
// the interaction completes. The host only indexes it by component key.
type TemporaryFile struct {
	Name     string
	Path     string
	MIMEType string
	Size     int64
}

// AttachFile records file under a dotted component key. A nil file clears
// the attachment.
func (h *Host) AttachFile(key string, file *TemporaryFile) {
	if file == nil {
		h.attachments = datapath.Delete(h.attachments, key)
		return
	}
	h.attachments = datapath.Set(h.attachments, key, file)
}

// FileAttachment returns the file attached under a dotted component key.
func (h *Host) FileAttachment(key string) *TemporaryFile {
	file, _ := datapath.Get(h.attachments, key).(*TemporaryFile)
	return file
}
