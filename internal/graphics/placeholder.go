package graphics

// PlaceholderColor is drawn wherever a referenced texture is missing.
var PlaceholderColor = PackRGBA(0xff, 0x00, 0xff, 0xff)

const placeholderSize = 8

var placeholder = newPlaceholder()

// Placeholder returns the opaque magenta/black checker used for missing textures.
func Placeholder() Surface {
	return placeholder
}

func newPlaceholder() Surface {
	return Checker(placeholderSize, 4, PlaceholderColor, PackRGBA(0, 0, 0, 0xff))
}
