package model

// Виды медиа в розыгрыше
const (
	MediaNone      = "none"
	MediaPhoto     = "photo"
	MediaVideo     = "video"
	MediaAnimation = "animation"
	MediaDocument  = "document"
)

// InboundMedia медиа, извлеченное из входящего сообщения.
// Разбирается один раз на границе с Telegram и дальше используется как есть.
type InboundMedia struct {
	Kind   string // none, photo, video, animation, document
	FileID string
	Mime   string // Только для документов
}

// NoMedia возвращает пустое медиа
func NoMedia() InboundMedia {
	return InboundMedia{Kind: MediaNone}
}

// HasMedia сообщает, прикреплено ли какое-либо медиа
func (m InboundMedia) HasMedia() bool {
	return m.Kind != "" && m.Kind != MediaNone
}
