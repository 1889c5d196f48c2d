package messages

import (
	_ "embed"
	"fmt"

	"github.com/tidwall/gjson"
)

//go:embed messages.json
var catalog []byte

// Get возвращает текст сообщения по пути вида "giveaway.create.success".
// Если ключ не найден, возвращает пустую строку.
func Get(path string) string {
	result := gjson.GetBytes(catalog, path)
	if !result.Exists() {
		return ""
	}
	return result.String()
}

// Getf возвращает текст сообщения, отформатированный через fmt.Sprintf.
func Getf(path string, args ...interface{}) string {
	tmpl := Get(path)
	if tmpl == "" {
		return ""
	}
	return fmt.Sprintf(tmpl, args...)
}
