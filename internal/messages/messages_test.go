package messages

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	if got := Get("welcome.start"); got == "" {
		t.Error("Get(welcome.start) вернул пустую строку")
	}

	if got := Get("giveaway.create.request_prize"); got == "" {
		t.Error("Get(giveaway.create.request_prize) вернул пустую строку")
	}

	if got := Get("no.such.key"); got != "" {
		t.Errorf("Get() по несуществующему ключу должен вернуть пустую строку, получено %q", got)
	}
}

func TestGetf(t *testing.T) {
	got := Getf("giveaway.list.giveaways_list", "1. iPhone\n")
	if !strings.Contains(got, "1. iPhone") {
		t.Errorf("Getf() не подставил аргумент: %q", got)
	}

	if got := Getf("no.such.key", "x"); got != "" {
		t.Errorf("Getf() по несуществующему ключу должен вернуть пустую строку, получено %q", got)
	}
}

// Все ключи с подстановками должны содержать плейсхолдер
func TestFormattedKeysHavePlaceholders(t *testing.T) {
	keys := []string{
		"giveaway.create.invalid_extra_channels",
		"giveaway.list.giveaways_list",
		"channel.list.channels_list",
		"announce.no_participants",
		"announce.results",
		"announce.winner_line",
		"announce.creator_completed",
		"announce.creator_no_participants",
	}

	for _, key := range keys {
		tmpl := Get(key)
		if tmpl == "" {
			t.Errorf("ключ %s отсутствует в каталоге", key)
			continue
		}
		if !strings.Contains(tmpl, "%") {
			t.Errorf("ключ %s не содержит плейсхолдера: %q", key, tmpl)
		}
	}
}
