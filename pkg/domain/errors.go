package domain

import "errors"

const (
	UploadFailedMessage     = "Не удалось загрузить изображение. Попробуйте ещё раз."
	ConnectionLostMessage   = "Соединение с ассистентом потеряно. Переподключение..."
	ConnectionReadyMessage  = "Ассистент на связи."
	SessionClearedMessage   = "История очищена. Начните новый чат."
	AssistantFailureMessage = "Ассистент не смог ответить. Попробуйте ещё раз."
)

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrAttachmentTooLarge   = errors.New("attachment exceeds size limit")
	ErrNotConnected         = errors.New("transport not connected")
	ErrReportNotFound       = errors.New("report not found")
	ErrDeleteNotConfirmed   = errors.New("delete not confirmed")
)
