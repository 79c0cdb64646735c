package domain

const MaxAttachmentSize = 5 << 20 // 5 MiB

var allowedAttachmentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Attachment is a staged file between selection and send. After a successful
// upload it is replaced by the server-issued image id on the outgoing message.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

func (a Attachment) Validate() error {
	if _, ok := allowedAttachmentTypes[a.MIME]; !ok {
		return ErrUnsupportedImageType
	}
	if len(a.Data) > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	return nil
}
