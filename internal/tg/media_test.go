package tg

import (
	"testing"

	"randomluckbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDetectMedia(t *testing.T) {
	tests := []struct {
		name       string
		msg        *tgbotapi.Message
		wantKind   string
		wantFileID string
		wantMime   string
	}{
		{
			name:     "nil message",
			msg:      nil,
			wantKind: model.MediaNone,
		},
		{
			name:     "text only",
			msg:      &tgbotapi.Message{Text: "просто текст"},
			wantKind: model.MediaNone,
		},
		{
			name: "photo takes largest size",
			msg: &tgbotapi.Message{
				Photo: []tgbotapi.PhotoSize{
					{FileID: "small", Width: 90},
					{FileID: "big", Width: 1280},
				},
			},
			wantKind:   model.MediaPhoto,
			wantFileID: "big",
		},
		{
			name:       "video",
			msg:        &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "vid"}},
			wantKind:   model.MediaVideo,
			wantFileID: "vid",
		},
		{
			name: "animation wins over its document duplicate",
			msg: &tgbotapi.Message{
				Animation: &tgbotapi.Animation{FileID: "gif"},
				Document:  &tgbotapi.Document{FileID: "gif-as-doc", MimeType: "video/mp4"},
			},
			wantKind:   model.MediaAnimation,
			wantFileID: "gif",
		},
		{
			name:       "document keeps mime type",
			msg:        &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "application/pdf"}},
			wantKind:   model.MediaDocument,
			wantFileID: "doc",
			wantMime:   "application/pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := DetectMedia(tt.msg)
			if media.Kind != tt.wantKind {
				t.Errorf("Kind = %s, ожидалось %s", media.Kind, tt.wantKind)
			}
			if media.FileID != tt.wantFileID {
				t.Errorf("FileID = %s, ожидалось %s", media.FileID, tt.wantFileID)
			}
			if media.Mime != tt.wantMime {
				t.Errorf("Mime = %s, ожидалось %s", media.Mime, tt.wantMime)
			}
		})
	}
}
