package shop

import (
	"fmt"
	"strings"

	"github.com/Pavel2232/ShopBot/internal/callback"
	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/pagination"
)

func catalogKeyboard(products []model.Product, w model.Window, userID int64) *Keyboard {
	kb := &Keyboard{}
	start, end := pagination.Slice(w, len(products))
	for _, p := range products[start:end] {
		kb.Inline = append(kb.Inline, []Button{{Text: p.Title, Data: callback.MustEncode(callback.Product{ID: p.ID})}})
	}
	kb.Inline = append(kb.Inline, []Button{{Text: buttonMyCart, Data: callback.MustEncode(callback.ViewCart{UserID: userID})}})

	page := func(d pagination.Direction) string {
		return callback.MustEncode(callback.Page{Start: w.Start, End: w.End, Current: w.CurrentPage, Last: w.LastPage, Direction: d})
	}
	kb.Inline = append(kb.Inline, []Button{
		{Text: buttonBack, Data: page(pagination.Backward)},
		{Text: fmt.Sprintf("%d/%d", w.CurrentPage, w.LastPage), Data: callback.MustEncode(callback.Noop{})},
		{Text: buttonNext, Data: page(pagination.Forward)},
	})
	return kb
}

func productKeyboard(productID int, userID int64) *Keyboard {
	return &Keyboard{Inline: [][]Button{
		{
			{Text: buttonAddToCart, Data: callback.MustEncode(callback.AddToCart{ProductID: productID})},
			{Text: buttonBack, Data: callback.MustEncode(callback.Back{})},
		},
		{{Text: buttonMyCart, Data: callback.MustEncode(callback.ViewCart{UserID: userID})}},
	}}
}

func afterAddKeyboard(userID int64) *Keyboard {
	return &Keyboard{Inline: [][]Button{
		{{Text: buttonMyCart, Data: callback.MustEncode(callback.ViewCart{UserID: userID})}},
		{{Text: buttonBack, Data: callback.MustEncode(callback.Back{})}},
	}}
}

func cartKeyboard(summary *model.CartSummary) *Keyboard {
	kb := &Keyboard{}
	for _, line := range summary.Lines {
		kb.Inline = append(kb.Inline, []Button{{
			Text: fmt.Sprintf(buttonRemove, line.Title),
			Data: callback.MustEncode(callback.RemoveLine{LineID: line.LineItemID}),
		}})
	}
	var last []Button
	if !summary.IsEmpty() {
		last = append(last, Button{Text: buttonPay, Data: callback.MustEncode(callback.Pay{})})
	}
	last = append(last, Button{Text: buttonMenu, Data: callback.MustEncode(callback.Back{})})
	kb.Inline = append(kb.Inline, last)
	return kb
}

func confirmKeyboard() *Keyboard {
	return &Keyboard{Reply: [][]string{{answerYes, answerFix}}}
}

func productCaption(p *model.Product) string {
	return fmt.Sprintf("%s - %dруб.\n%s", p.Title, p.Price, p.Description)
}

func cartText(summary *model.CartSummary) string {
	if summary.IsEmpty() {
		return textCartEmpty
	}
	var b strings.Builder
	b.WriteString(textCartHeader)
	b.WriteString("\n\n")
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "%s\nКоличество: %d * %d = %d\n\n", line.Title, line.Quantity, line.UnitPrice, line.LineTotal)
	}
	fmt.Fprintf(&b, "Итог: %d", summary.Total)
	return b.String()
}
