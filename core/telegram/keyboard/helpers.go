// Package keyboard builds Telegram inline keyboards from plain
// button specs. Button data is sent raw so the callback payload
// arrives exactly as registered.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is a single inline button spec. Data is the callback payload
// delivered verbatim; URL buttons leave Data empty.
type Button struct {
	Text string
	Data string
	URL  string
}

// Btn is shorthand for a callback button.
func Btn(text, data string) Button {
	return Button{Text: text, Data: data}
}

// Inline assembles rows of Button specs into a ReplyMarkup.
func Inline(rows ...[]Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	keyboard := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		line := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			line = append(line, tele.InlineButton{
				Text: b.Text,
				Data: b.Data,
				URL:  b.URL,
			})
		}
		keyboard = append(keyboard, line)
	}
	markup.InlineKeyboard = keyboard
	return markup
}
