package tg

import (
	"randomluckbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DetectMedia разбирает медиа из входящего сообщения один раз на границе.
// Для фото берется самый большой размер. Анимация проверяется до документа,
// потому что Telegram дублирует GIF в поле Document.
func DetectMedia(msg *tgbotapi.Message) model.InboundMedia {
	if msg == nil {
		return model.NoMedia()
	}

	switch {
	case len(msg.Photo) > 0:
		return model.InboundMedia{
			Kind:   model.MediaPhoto,
			FileID: msg.Photo[len(msg.Photo)-1].FileID,
		}
	case msg.Video != nil:
		return model.InboundMedia{
			Kind:   model.MediaVideo,
			FileID: msg.Video.FileID,
		}
	case msg.Animation != nil:
		return model.InboundMedia{
			Kind:   model.MediaAnimation,
			FileID: msg.Animation.FileID,
		}
	case msg.Document != nil:
		return model.InboundMedia{
			Kind:   model.MediaDocument,
			FileID: msg.Document.FileID,
			Mime:   msg.Document.MimeType,
		}
	default:
		return model.NoMedia()
	}
}
