package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// userTimeLayouts форматы, в которых пользователи вводят дату и время
var userTimeLayouts = []string{"02.01.2006 15:04", "2.1.2006 15:04", "02.01.2006 15:04:05"}

var channelUserNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,30}[A-Za-z0-9]$`)

// ParseUserTime разбирает введенную пользователем дату в указанном часовом поясе
// и возвращает её в UTC.
func ParseUserTime(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range userTimeLayouts {
		t, err := time.ParseInLocation(layout, text, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("не удалось распарсить дату: %s", text)
}

// ParseChannelRef извлекает username канала из @username или ссылки вида
// t.me/username, https://t.me/username, telegram.me/username.
func ParseChannelRef(text string) (string, error) {
	ref := strings.TrimSpace(text)
	if ref == "" {
		return "", fmt.Errorf("пустая ссылка на канал")
	}

	if strings.HasPrefix(ref, "@") {
		ref = ref[1:]
	} else {
		ref = strings.TrimPrefix(ref, "https://")
		ref = strings.TrimPrefix(ref, "http://")

		matched := false
		for _, host := range []string{"t.me/", "telegram.me/", "telegram.dog/"} {
			if strings.HasPrefix(ref, host) {
				ref = strings.TrimSuffix(strings.TrimPrefix(ref, host), "/")
				matched = true
				break
			}
		}
		if !matched {
			return "", fmt.Errorf("не похоже на @username или ссылку на канал: %s", text)
		}
	}

	if !channelUserNameRe.MatchString(ref) {
		return "", fmt.Errorf("недопустимый username канала: %s", text)
	}
	return ref, nil
}

// ParseChannelList разбирает список каналов, указанных через запятую.
// Если хотя бы один элемент невалиден, отклоняется весь список.
func ParseChannelList(text string) ([]string, error) {
	parts := strings.Split(text, ",")
	usernames := make([]string, 0, len(parts))
	for _, part := range parts {
		username, err := ParseChannelRef(part)
		if err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}
	return usernames, nil
}
