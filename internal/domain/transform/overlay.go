package transform

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"media-studio/internal/utils/platformerrors"
)

const (
	DefaultFont            = "Roboto"
	DefaultFontSizePx      = 50
	DefaultBackgroundColor = "#FFFFFF"

	maxOverlayTextLen = 500
	maxFontSizePx     = 500
)

// Fonts lists the font families the rendering service can draw.
var Fonts = []string{
	"AbrilFatFace",
	"Amaranth",
	"Arvo",
	"Audiowide",
	"Montserrat",
	"Open Sans",
	"Roboto",
	"Ubuntu",
}

var (
	plainTextPattern = regexp.MustCompile(`^[A-Za-z0-9 ._-]+$`)
	slotIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	hexColorPattern  = regexp.MustCompile(`^#?([0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
)

// OverlayOp is one text layer. Its identity is the slot ID, not its content.
type OverlayOp struct {
	ID              string
	Text            string
	XPx             int
	YPx             int
	BackgroundColor string
	Font            string
	FontSizePx      int
}

// EncodeOverlay returns the token for a text layer placed at an absolute
// pixel position. Whitespace-only text is drawn as a single space so the
// layer stays visible while its text is being typed.
func EncodeOverlay(op OverlayOp) (string, error) {
	if err := validateSlotID(op.ID); err != nil {
		return "", err
	}

	text := op.Text
	if strings.TrimSpace(text) == "" {
		text = " "
	}
	if len(text) > maxOverlayTextLen {
		return "", invalid("overlay text is too long", "2b9f1c1e-3e55-4c1b-9c33-4d1f6a0c8e21")
	}

	font, err := canonicalFont(op.Font)
	if err != nil {
		return "", err
	}

	size := op.FontSizePx
	if size == 0 {
		size = DefaultFontSizePx
	}
	if size < 0 || size > maxFontSizePx {
		return "", invalid("font size out of range", "6c1d22a4-8f0e-4d9b-a8a5-0f4e7d5b9c10")
	}

	color, err := normalizeColor(op.BackgroundColor)
	if err != nil {
		return "", err
	}

	parts := []string{
		"l-text",
		encodeText(text),
		"ff-" + url.PathEscape(font),
		"fs-" + strconv.Itoa(size),
		"bg-" + color,
		"lx-" + encodeCoordinate(op.XPx),
		"ly-" + encodeCoordinate(op.YPx),
		"l-end",
	}
	return strings.Join(parts, Delimiter), nil
}

// ApplyOverlay upserts the overlay's token under its slot ID.
func ApplyOverlay(s Set, op OverlayOp) (Set, error) {
	token, err := EncodeOverlay(op)
	if err != nil {
		return s, err
	}
	return s.Upsert(op.ID, token), nil
}

// RemoveOverlay drops the slot from the set.
func RemoveOverlay(s Set, id string) Set {
	if isEffectKey(id) {
		return s
	}
	return s.Remove(id)
}

func encodeText(text string) string {
	if plainTextPattern.MatchString(text) {
		return "i-" + strings.ReplaceAll(text, " ", "%20")
	}
	return "ie-" + url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(text)))
}

func encodeCoordinate(v int) string {
	if v < 0 {
		return "N" + strconv.Itoa(-v)
	}
	return strconv.Itoa(v)
}

func canonicalFont(font string) (string, error) {
	font = strings.TrimSpace(font)
	if font == "" {
		return DefaultFont, nil
	}
	for _, f := range Fonts {
		if strings.EqualFold(f, font) {
			return f, nil
		}
	}
	return "", invalid(fmt.Sprintf("unsupported font %q", font), "0e7b4f5a-1d2c-4a8e-b6f3-9c5d7e1a2b34")
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultBackgroundColor
	}
	if !hexColorPattern.MatchString(color) {
		return "", invalid(fmt.Sprintf("invalid background color %q", color), "8a4e2d1f-5b6c-4e7a-9d8b-3c2f1e0a9b87")
	}
	return strings.ToUpper(strings.TrimPrefix(color, "#")), nil
}

func validateSlotID(id string) error {
	if !slotIDPattern.MatchString(id) {
		return invalid("overlay id must be 1-64 letters, digits, '-' or '_'", "4f3e2d1c-0b9a-4887-a6b5-c4d3e2f1a0b9")
	}
	if isEffectKey(id) {
		return invalid(fmt.Sprintf("overlay id %q is reserved", id), "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d")
	}
	return nil
}

func invalid(message, code string) error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil, code)
}
