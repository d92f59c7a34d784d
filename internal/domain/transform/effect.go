package transform

import (
	"regexp"
	"strconv"
	"strings"
)

// Fixed effect keys. Overlay slot IDs may not reuse them.
const (
	KeyContrast  = "contrast"
	KeySharpness = "sharpness"
	KeyGrayscale = "grayscale"
	KeyBlur      = "blur"
	KeyCrop      = "crop"
)

var effectKeys = []string{KeyContrast, KeySharpness, KeyGrayscale, KeyBlur, KeyCrop}

var cropKeywordPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// EffectState holds the filter controls. A field at its neutral value
// (false, 0, "") contributes no token.
type EffectState struct {
	Contrast    bool
	Sharpness   int
	Grayscale   bool
	Blur        int
	CropKeyword string
}

// ContrastToken returns the contrast token, or "" when disabled.
func ContrastToken(enabled bool) string {
	if !enabled {
		return ""
	}
	return "e-contrast"
}

// SharpnessToken sharpens for positive values and softens for negative ones.
// Softening is a gaussian blur kept under the sharpness key, so it stacks with
// an explicit blur instead of replacing it.
func SharpnessToken(sharpness int) (string, error) {
	if sharpness < -100 || sharpness > 100 {
		return "", invalid("sharpness must be within [-100, 100]", "7d8e9f0a-1b2c-4d3e-8f4a-5b6c7d8e9f0a")
	}
	switch {
	case sharpness > 0:
		return "e-sharpen-" + strconv.Itoa(sharpness), nil
	case sharpness < 0:
		return "bl-" + strconv.Itoa(-sharpness), nil
	default:
		return "", nil
	}
}

// GrayscaleToken returns the grayscale token, or "" when disabled.
func GrayscaleToken(enabled bool) string {
	if !enabled {
		return ""
	}
	return "e-grayscale"
}

// BlurToken returns the blur token for a positive radius.
func BlurToken(radius int) (string, error) {
	if radius < 0 || radius > 100 {
		return "", invalid("blur must be within [0, 100]", "9f0a1b2c-3d4e-4f5a-8b6c-7d8e9f0a1b2c")
	}
	if radius == 0 {
		return "", nil
	}
	return "bl-" + strconv.Itoa(radius), nil
}

// CropToken selects the content-aware crop focus for a trimmed keyword.
func CropToken(keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", nil
	}
	if !cropKeywordPattern.MatchString(keyword) {
		return "", invalid("crop keyword must be letters, digits, '-' or '_'", "1b2c3d4e-5f6a-4b7c-9d8e-0f1a2b3c4d5e")
	}
	return "fo-" + keyword, nil
}

// EncodeEffects returns the effects subset for state as a fresh Set, in the
// fixed order contrast, sharpness, grayscale, blur, crop.
func EncodeEffects(state EffectState) (Set, error) {
	return ApplyEffects(NewSet(), state)
}

// ApplyEffects upserts every effect key of state into s. Keys already present
// keep their position; neutral fields remove their key.
func ApplyEffects(s Set, state EffectState) (Set, error) {
	tokens, err := effectTokens(state)
	if err != nil {
		return s, err
	}
	next := s
	for i, key := range effectKeys {
		next = next.Upsert(key, tokens[i])
	}
	return next, nil
}

// Build assembles a Set from overlays, in slice order, followed by effects.
func Build(overlays []OverlayOp, effects EffectState) (Set, error) {
	set := NewSet()
	for _, op := range overlays {
		var err error
		if set, err = ApplyOverlay(set, op); err != nil {
			return Set{}, err
		}
	}
	return ApplyEffects(set, effects)
}

func effectTokens(state EffectState) ([]string, error) {
	sharpness, err := SharpnessToken(state.Sharpness)
	if err != nil {
		return nil, err
	}
	blur, err := BlurToken(state.Blur)
	if err != nil {
		return nil, err
	}
	crop, err := CropToken(state.CropKeyword)
	if err != nil {
		return nil, err
	}
	return []string{
		ContrastToken(state.Contrast),
		sharpness,
		GrayscaleToken(state.Grayscale),
		blur,
		crop,
	}, nil
}

func isEffectKey(key string) bool {
	for _, k := range effectKeys {
		if k == key {
			return true
		}
	}
	return false
}
