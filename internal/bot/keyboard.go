package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/i18n"
	"github.com/desmitry/urfu-teamfinder/internal/service/matching"
)

func registrationMenuKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "registration_menu.button.student"),
				dataCallback("set_account_type", string(db.RoleStudent)),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "registration_menu.button.mentor"),
				dataCallback("set_account_type", string(db.RoleMentor)),
			),
		),
	)
}

func mainMenuKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "main_menu.button.browse"),
				pageCallback("show_account_list", 0),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "main_menu.button.account_menu"),
				menuCallback("show_account_menu"),
			),
		),
	)
}

func accountMenuKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "account_menu.button.set_image"),
				menuCallback("ask_account_image"),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "account_menu.button.set_name"),
				menuCallback("ask_account_name"),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "account_menu.button.set_description"),
				menuCallback("ask_account_description"),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "account_menu.button.my_tags"),
				menuCallback("show_account_tag_list"),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "general.button.back"),
				menuCallback("show_main_menu"),
			),
		),
	)
}

// candidateListKeyboard renders the browse controls for one candidate page:
// like/unlike on top, prev/next where pages exist, back to the main menu.
func candidateListKeyboard(b *i18n.Bundle, locale string, page *matching.CandidatePage) tgbotapi.InlineKeyboardMarkup {
	likeKey := "account_list.button.like"
	if page.Liked {
		likeKey = "account_list.button.unlike"
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, likeKey),
				entryCallback("toggle_account_like", page.Candidate.Account.ID),
			),
		),
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			"<", pageCallback("show_account_list", page.Page-1),
		))
	}
	if page.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			">", pageCallback("show_account_list", page.Page+1),
		))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			b.Tr(locale, "general.button.back"),
			menuCallback("show_main_menu"),
		),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// tagListKeyboard renders one button per catalog tag, check-marked when
// selected, plus back/home controls.
func tagListKeyboard(b *i18n.Bundle, locale string, tags []db.Tag, selected map[uint]bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tags)+1)
	for _, tag := range tags {
		title := tag.Title
		if selected[tag.ID] {
			title = "✅ " + title
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				title,
				entryCallback("toggle_account_tag", tag.ID),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			b.Tr(locale, "general.button.back"),
			menuCallback("show_account_menu"),
		),
		tgbotapi.NewInlineKeyboardButtonData(
			b.Tr(locale, "general.button.home"),
			menuCallback("show_main_menu"),
		),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dialogueKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "general.button.back"),
				menuCallback("end_dialogue"),
			),
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "general.button.home"),
				menuCallback("show_main_menu"),
			),
		),
	)
}

func popupKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "general.button.hide"),
				menuCallback("close_popup"),
			),
		),
	)
}

// accountLinkKeyboard links straight to the counterpart's Telegram account.
func accountLinkKeyboard(counterpart *db.Account) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				counterpart.FullName,
				fmt.Sprintf("tg://user?id=%d", counterpart.ChatID),
			),
		),
	)
}
