package utils

import (
	"testing"
	"time"
)

func TestParseUserTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("не удалось загрузить часовой пояс: %v", err)
	}

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		// Москва это UTC+3
		{input: "02.01.2025 15:00", want: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)},
		{input: "  02.01.2025 15:00  ", want: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)},
		{input: "2.1.2025 15:04", want: time.Date(2025, 1, 2, 12, 4, 0, 0, time.UTC)},
		{input: "02.01.2025 15:00:30", want: time.Date(2025, 1, 2, 12, 0, 30, 0, time.UTC)},
		{input: "2025-01-02 15:00", wantErr: true},
		{input: "завтра", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUserTime(tt.input, loc)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUserTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil {
			if !got.Equal(tt.want) {
				t.Errorf("ParseUserTime(%q) = %v, ожидалось %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseUserTime(%q) должен возвращать время в UTC, получено %v", tt.input, got.Location())
			}
		}
	}
}

func TestParseChannelRef(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "@my_channel", want: "my_channel"},
		{input: "t.me/my_channel", want: "my_channel"},
		{input: "https://t.me/my_channel", want: "my_channel"},
		{input: "http://t.me/my_channel/", want: "my_channel"},
		{input: "telegram.me/my_channel", want: "my_channel"},
		{input: "telegram.dog/my_channel", want: "my_channel"},
		{input: "my_channel", wantErr: true},
		{input: "@ab", wantErr: true},
		{input: "@1channel", wantErr: true},
		{input: "https://example.com/my_channel", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseChannelRef(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChannelRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseChannelRef(%q) = %q, ожидалось %q", tt.input, got, tt.want)
		}
	}
}

func TestParseChannelList(t *testing.T) {
	got, err := ParseChannelList("@channel_one, t.me/channel_two ,https://t.me/channel_three")
	if err != nil {
		t.Fatalf("ParseChannelList() error = %v", err)
	}
	want := []string{"channel_one", "channel_two", "channel_three"}
	if len(got) != len(want) {
		t.Fatalf("ParseChannelList() вернул %d каналов, ожидалось %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("каналы[%d] = %q, ожидалось %q", i, got[i], want[i])
		}
	}

	if _, err := ParseChannelList("@channel_one, не канал"); err == nil {
		t.Error("список с невалидным элементом должен отклоняться целиком")
	}
}
