// Package callback encodes button payloads into the opaque strings carried by inline buttons.
//
// Every payload is "<prefix>" or "<prefix>:<field>[:<field>...]". Prefixes are fixed, distinct,
// and never contain the separator, so decoding only needs an exact match on the first segment.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Pavel2232/ShopBot/internal/pagination"
)

// MaxLen is the transport limit on callback data.
const MaxLen = 64

const sep = ":"

var (
	ErrMalformed = errors.New("malformed callback payload")
	ErrTooLong   = errors.New("callback payload exceeds size limit")
)

type Kind string

const (
	KindProduct    Kind = "prd"
	KindBack       Kind = "back"
	KindAddToCart  Kind = "add"
	KindRemoveLine Kind = "rm"
	KindViewCart   Kind = "cart"
	KindPay        Kind = "pay"
	KindPage       Kind = "pg"
	KindNoop       Kind = "noop"
)

// Payload is one variant of the button union.
type Payload interface {
	Kind() Kind
	fields() []string
}

type Product struct{ ID int }

type Back struct{}

type AddToCart struct{ ProductID int }

type RemoveLine struct{ LineID int }

type ViewCart struct{ UserID int64 }

type Pay struct{}

// Page carries the window the keyboard was rendered with, plus the pressed direction.
type Page struct {
	Start     int
	End       int
	Current   int
	Last      int
	Direction pagination.Direction
}

// Noop marks decorative buttons such as the page counter.
type Noop struct{}

func (Product) Kind() Kind    { return KindProduct }
func (Back) Kind() Kind       { return KindBack }
func (AddToCart) Kind() Kind  { return KindAddToCart }
func (RemoveLine) Kind() Kind { return KindRemoveLine }
func (ViewCart) Kind() Kind   { return KindViewCart }
func (Pay) Kind() Kind        { return KindPay }
func (Page) Kind() Kind       { return KindPage }
func (Noop) Kind() Kind       { return KindNoop }

func (p Product) fields() []string    { return []string{strconv.Itoa(p.ID)} }
func (Back) fields() []string         { return nil }
func (p AddToCart) fields() []string  { return []string{strconv.Itoa(p.ProductID)} }
func (p RemoveLine) fields() []string { return []string{strconv.Itoa(p.LineID)} }
func (p ViewCart) fields() []string   { return []string{strconv.FormatInt(p.UserID, 10)} }
func (Pay) fields() []string          { return nil }
func (Noop) fields() []string         { return nil }

func (p Page) fields() []string {
	dir := "f"
	if p.Direction == pagination.Backward {
		dir = "b"
	}
	return []string{strconv.Itoa(p.Start), strconv.Itoa(p.End), strconv.Itoa(p.Current), strconv.Itoa(p.Last), dir}
}

// Encode renders p into its wire form.
func Encode(p Payload) (string, error) {
	parts := append([]string{string(p.Kind())}, p.fields()...)
	s := strings.Join(parts, sep)
	if len(s) > MaxLen {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLong, len(s))
	}
	return s, nil
}

// MustEncode is Encode for payloads whose size is bounded by construction.
func MustEncode(p Payload) string {
	s, err := Encode(p)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses a wire payload produced by Encode.
func Decode(s string) (Payload, error) {
	if len(s) > MaxLen {
		return nil, ErrTooLong
	}
	parts := strings.Split(s, sep)
	kind, args := Kind(parts[0]), parts[1:]

	switch kind {
	case KindBack:
		return Back{}, expectArgs(args, 0)
	case KindPay:
		return Pay{}, expectArgs(args, 0)
	case KindNoop:
		return Noop{}, expectArgs(args, 0)
	case KindProduct, KindAddToCart, KindRemoveLine:
		if err := expectArgs(args, 1); err != nil {
			return nil, err
		}
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindProduct:
			return Product{ID: id}, nil
		case KindAddToCart:
			return AddToCart{ProductID: id}, nil
		default:
			return RemoveLine{LineID: id}, nil
		}
	case KindViewCart:
		if err := expectArgs(args, 1); err != nil {
			return nil, err
		}
		uid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: user id %q", ErrMalformed, args[0])
		}
		return ViewCart{UserID: uid}, nil
	case KindPage:
		return decodePage(args)
	}
	return nil, fmt.Errorf("%w: unknown prefix %q", ErrMalformed, parts[0])
}

func decodePage(args []string) (Payload, error) {
	if err := expectArgs(args, 5); err != nil {
		return nil, err
	}
	nums := make([]int, 4)
	for i := range nums {
		n, err := strconv.Atoi(args[i])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: page field %q", ErrMalformed, args[i])
		}
		nums[i] = n
	}
	start, end, current, last := nums[0], nums[1], nums[2], nums[3]
	if start > end || current < 1 || current > last {
		return nil, fmt.Errorf("%w: window %d:%d page %d/%d", ErrMalformed, start, end, current, last)
	}
	var dir pagination.Direction
	switch args[4] {
	case "f":
		dir = pagination.Forward
	case "b":
		dir = pagination.Backward
	default:
		return nil, fmt.Errorf("%w: direction %q", ErrMalformed, args[4])
	}
	return Page{Start: start, End: end, Current: current, Last: last, Direction: dir}, nil
}

func expectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d fields, got %d", ErrMalformed, n, len(args))
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrMalformed, s)
	}
	return id, nil
}
