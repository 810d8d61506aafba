// Package i18n holds the static message catalogs and locale resolution.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Bundle resolves Telegram language codes against the available catalogs
// and translates message keys.
type Bundle struct {
	defaultLocale string
	locales       []string
	matcher       language.Matcher
}

// NewBundle builds a bundle with the given default locale. The default is
// also the fallback for unknown language codes and missing keys.
func NewBundle(defaultLocale string) *Bundle {
	if _, ok := catalogs[defaultLocale]; !ok {
		defaultLocale = "ru"
	}
	locales := []string{defaultLocale}
	for code := range catalogs {
		if code != defaultLocale {
			locales = append(locales, code)
		}
	}
	tags := make([]language.Tag, 0, len(locales))
	for _, code := range locales {
		tags = append(tags, language.Make(code))
	}
	return &Bundle{
		defaultLocale: defaultLocale,
		locales:       locales,
		matcher:       language.NewMatcher(tags),
	}
}

// DefaultLocale returns the bundle's fallback locale.
func (b *Bundle) DefaultLocale() string { return b.defaultLocale }

// Resolve maps a Telegram language code to an available catalog locale.
// Unknown or empty codes resolve to the default locale.
func (b *Bundle) Resolve(code string) string {
	if code == "" {
		return b.defaultLocale
	}
	tag, err := language.Parse(code)
	if err != nil {
		return b.defaultLocale
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf == language.No {
		return b.defaultLocale
	}
	return b.locales[idx]
}

// Tr translates a message key for a locale, formatting args if present.
// Falls back to the default locale, then to the key itself.
func (b *Bundle) Tr(locale, key string, args ...any) string {
	msg, ok := catalogs[locale][key]
	if !ok {
		msg, ok = catalogs[b.defaultLocale][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var catalogs = map[string]map[string]string{
	"en": {
		"registration_menu.text":           "Welcome to the UrFU teamfinder! Who will you be?",
		"registration_menu.button.student": "I'm a student",
		"registration_menu.button.mentor":  "I'm a mentor",

		"main_menu.text":                "Main menu",
		"main_menu.button.browse":       "Browse profiles",
		"main_menu.button.account_menu": "My profile",

		"account_menu.button.set_image":       "Change photo",
		"account_menu.button.set_name":        "Change name",
		"account_menu.button.set_description": "Change description",
		"account_menu.button.my_tags":         "My tags",

		"account_tag_list.text": "Pick the topics you are interested in:",

		"account_list.button.like":   "❤️ Like",
		"account_list.button.unlike": "💔 Unlike",
		"account_list.empty":         "Nothing to show yet. Check back later!",

		"dialogue.ask_name":        "Send me your new name.",
		"dialogue.ask_description": "Send me your new description.",
		"dialogue.ask_image":       "Send me your new photo.",

		"general.button.back":               "< Back",
		"general.button.home":               "Home",
		"general.button.hide":               "Hide",
		"general.query_answer.menu_expired": "This menu has expired, send /start again.",

		"notify.liked": "Someone liked your profile!",
		"notify.match": "It's a match! Say hello:",
	},
	"ru": {
		"registration_menu.text":           "Добро пожаловать в тимфайндер УрФУ! Кем ты будешь?",
		"registration_menu.button.student": "Я студент",
		"registration_menu.button.mentor":  "Я наставник",

		"main_menu.text":                "Главное меню",
		"main_menu.button.browse":       "Смотреть анкеты",
		"main_menu.button.account_menu": "Моя анкета",

		"account_menu.button.set_image":       "Изменить фото",
		"account_menu.button.set_name":        "Изменить имя",
		"account_menu.button.set_description": "Изменить описание",
		"account_menu.button.my_tags":         "Мои теги",

		"account_tag_list.text": "Выбери интересные тебе темы:",

		"account_list.button.like":   "❤️ Нравится",
		"account_list.button.unlike": "💔 Не нравится",
		"account_list.empty":         "Пока нечего показать. Загляни позже!",

		"dialogue.ask_name":        "Отправь мне новое имя.",
		"dialogue.ask_description": "Отправь мне новое описание.",
		"dialogue.ask_image":       "Отправь мне новое фото.",

		"general.button.back":               "< Назад",
		"general.button.home":               "Домой",
		"general.button.hide":               "Скрыть",
		"general.query_answer.menu_expired": "Это меню устарело, отправь /start ещё раз.",

		"notify.liked": "Кому-то понравилась твоя анкета!",
		"notify.match": "Это мэтч! Напиши:",
	},
}
