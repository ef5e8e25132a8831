package api

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// CMYK holds process ink percentages (0-100).
type CMYK struct {
	C int `json:"c" yaml:"c"`
	M int `json:"m" yaml:"m"`
	Y int `json:"y" yaml:"y"`
	K int `json:"k" yaml:"k"`
}

// String renders the ink mix in the label format used on composite pages.
func (c CMYK) String() string {
	return fmt.Sprintf("C:%d M:%d Y:%d K:%d", c.C, c.M, c.Y, c.K)
}

// RGBToCMYK converts 8-bit RGB to process ink percentages. This is only
// used for garment swatch labels and summary reporting; artwork ink values
// are converted exclusively by document-level normalization.
func RGBToCMYK(r, g, b int) CMYK {
	if r == 0 && g == 0 && b == 0 {
		return CMYK{K: 100}
	}

	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	c := 1 - rf
	m := 1 - gf
	y := 1 - bf
	k := math.Min(c, math.Min(m, y))

	if k >= 1 {
		return CMYK{K: 100}
	}
	c = (c - k) / (1 - k)
	m = (m - k) / (1 - k)
	y = (y - k) / (1 - k)

	return CMYK{
		C: int(math.Round(c * 100)),
		M: int(math.Round(m * 100)),
		Y: int(math.Round(y * 100)),
		K: int(math.Round(k * 100)),
	}
}

// HexToRGB parses #RGB or #RRGGBB into 8-bit components.
func HexToRGB(hex string) (r, g, b int, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	var rr, gg, bb int
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return rr, gg, bb, nil
}

// HexToCMYK converts a hex color to process ink percentages, defaulting to
// solid black when the value is unparseable.
func HexToCMYK(hex string) CMYK {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		return CMYK{K: 100}
	}
	return RGBToCMYK(r, g, b)
}

// ColorDistance is the Euclidean distance between two RGB colors.
func ColorDistance(r1, g1, b1, r2, g2, b2 int) float64 {
	dr := float64(r1 - r2)
	dg := float64(g1 - g2)
	db := float64(b1 - b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// GarmentColor is one entry of the read-only garment color table.
type GarmentColor struct {
	Name         string `json:"name" yaml:"name"`
	Hex          string `json:"hex" yaml:"hex"`
	CMYK         CMYK   `json:"cmyk" yaml:"cmyk"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
	Specialty    string `json:"specialty,omitempty" yaml:"specialty,omitempty"`
}

// Label is the text rendered above a garment swatch.
func (g GarmentColor) Label() string {
	return fmt.Sprintf("%s %s", g.Name, g.CMYK)
}

// GarmentColors returns the full garment color table: manufacturer palettes
// followed by the specialized categories.
func GarmentColors() []GarmentColor {
	out := make([]GarmentColor, 0, len(garmentTable))
	out = append(out, garmentTable...)
	return out
}

// GarmentByHex finds an exact garment color match, case-insensitive.
func GarmentByHex(hex string) (GarmentColor, bool) {
	want := normalizeHex(hex)
	for _, g := range garmentTable {
		if normalizeHex(g.Hex) == want {
			return g, true
		}
	}
	return GarmentColor{}, false
}

// ClosestGarment returns the table entry nearest to hex by Euclidean RGB
// distance. Falls back to white when hex is unparseable.
func ClosestGarment(hex string) GarmentColor {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		white, _ := GarmentByHex("#FFFFFF")
		return white
	}

	best := garmentTable[0]
	bestDist := math.Inf(1)
	for _, cand := range garmentTable {
		cr, cg, cb, err := HexToRGB(cand.Hex)
		if err != nil {
			continue
		}
		if d := ColorDistance(r, g, b, cr, cg, cb); d < bestDist {
			bestDist = d
			best = cand
		}
	}
	return best
}

// ResolveGarment resolves a garment color for an element, in priority
// order: element override, page default, table lookup, white fallback.
func ResolveGarment(elementHex, pageHex string) GarmentColor {
	hex := elementHex
	if hex == "" {
		hex = pageHex
	}
	if hex == "" {
		hex = "#FFFFFF"
	}
	if g, ok := GarmentByHex(hex); ok {
		return g
	}
	// Unknown hex: keep the requested ink but borrow the closest name.
	closest := ClosestGarment(hex)
	return GarmentColor{Name: closest.Name, Hex: strings.ToUpper(hex), CMYK: HexToCMYK(hex)}
}

// LoadPalette extends the garment table with entries from a YAML file.
// Duplicate hex values replace built-in entries.
func LoadPalette(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read palette %s: %w", path, err)
	}
	var extra []GarmentColor
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to parse palette %s: %w", path, err)
	}
	for _, g := range extra {
		hex := normalizeHex(g.Hex)
		garmentTable = lo.Reject(garmentTable, func(existing GarmentColor, _ int) bool {
			return normalizeHex(existing.Hex) == hex
		})
		garmentTable = append(garmentTable, g)
	}
	return nil
}

func normalizeHex(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}

var garmentTable = []GarmentColor{
	// Gildan
	{Name: "Black", Hex: "#000000", CMYK: CMYK{K: 100}, Manufacturer: "Gildan"},
	{Name: "White", Hex: "#FFFFFF", CMYK: CMYK{}, Manufacturer: "Gildan"},
	{Name: "Ash", Hex: "#B8B8B8", CMYK: CMYK{K: 28}, Manufacturer: "Gildan"},
	{Name: "Sport Grey", Hex: "#8C8C8C", CMYK: CMYK{K: 45}, Manufacturer: "Gildan"},
	{Name: "Dark Heather", Hex: "#616161", CMYK: CMYK{K: 62}, Manufacturer: "Gildan"},
	{Name: "Red", Hex: "#FF0000", CMYK: CMYK{M: 100, Y: 100}, Manufacturer: "Gildan"},
	{Name: "Cardinal Red", Hex: "#B71234", CMYK: CMYK{M: 90, Y: 71, K: 28}, Manufacturer: "Gildan"},
	{Name: "Cherry Red", Hex: "#C5282F", CMYK: CMYK{M: 84, Y: 76, K: 23}, Manufacturer: "Gildan"},
	{Name: "Orange", Hex: "#FF8C00", CMYK: CMYK{M: 45, Y: 100}, Manufacturer: "Gildan"},
	{Name: "Gold", Hex: "#FFD700", CMYK: CMYK{M: 16, Y: 100}, Manufacturer: "Gildan"},
	{Name: "Yellow Haze", Hex: "#FFFF99", CMYK: CMYK{Y: 40}, Manufacturer: "Gildan"},
	{Name: "Daisy", Hex: "#FFFF00", CMYK: CMYK{Y: 100}, Manufacturer: "Gildan"},
	{Name: "Royal Blue", Hex: "#0047AB", CMYK: CMYK{C: 100, M: 58, K: 33}, Manufacturer: "Gildan"},
	{Name: "Navy", Hex: "#000080", CMYK: CMYK{C: 100, M: 100, K: 50}, Manufacturer: "Gildan"},
	{Name: "Irish Green", Hex: "#00FF00", CMYK: CMYK{C: 100, Y: 100}, Manufacturer: "Gildan"},
	{Name: "Forest Green", Hex: "#228B22", CMYK: CMYK{C: 76, Y: 76, K: 45}, Manufacturer: "Gildan"},
	{Name: "Purple", Hex: "#800080", CMYK: CMYK{M: 100, K: 50}, Manufacturer: "Gildan"},
	{Name: "Heliconia", Hex: "#FF1493", CMYK: CMYK{M: 92, Y: 42}, Manufacturer: "Gildan"},
	{Name: "Safety Pink", Hex: "#FF69B4", CMYK: CMYK{M: 59, Y: 29}, Manufacturer: "Gildan"},
	{Name: "Safety Orange", Hex: "#FF4500", CMYK: CMYK{M: 73, Y: 100}, Manufacturer: "Gildan"},
	{Name: "Safety Green", Hex: "#32CD32", CMYK: CMYK{C: 75, Y: 75, K: 20}, Manufacturer: "Gildan"},
	{Name: "Maroon", Hex: "#800000", CMYK: CMYK{M: 100, Y: 100, K: 50}, Manufacturer: "Gildan"},
	{Name: "Brown", Hex: "#A52A2A", CMYK: CMYK{M: 74, Y: 74, K: 35}, Manufacturer: "Gildan"},
	{Name: "Tan", Hex: "#D2B48C", CMYK: CMYK{M: 14, Y: 33, K: 18}, Manufacturer: "Gildan"},
	{Name: "Light Blue", Hex: "#ADD8E6", CMYK: CMYK{C: 24, M: 6, K: 10}, Manufacturer: "Gildan"},
	{Name: "Light Pink", Hex: "#FFB6C1", CMYK: CMYK{M: 29, Y: 24}, Manufacturer: "Gildan"},
	{Name: "Natural", Hex: "#F5F5DC", CMYK: CMYK{Y: 10, K: 4}, Manufacturer: "Gildan"},

	// Fruit of the Loom
	{Name: "Heather Grey", Hex: "#D3D3D3", CMYK: CMYK{K: 17}, Manufacturer: "Fruit of the Loom"},
	{Name: "Royal Blue", Hex: "#4169E1", CMYK: CMYK{C: 74, M: 58, K: 12}, Manufacturer: "Fruit of the Loom"},
	{Name: "Kelly Green", Hex: "#4CBB17", CMYK: CMYK{C: 70, Y: 87, K: 27}, Manufacturer: "Fruit of the Loom"},
	{Name: "Orange", Hex: "#FFA500", CMYK: CMYK{M: 35, Y: 100}, Manufacturer: "Fruit of the Loom"},
	{Name: "Sky Blue", Hex: "#87CEEB", CMYK: CMYK{C: 43, M: 16, K: 8}, Manufacturer: "Fruit of the Loom"},
	{Name: "Pink", Hex: "#FFC0CB", CMYK: CMYK{M: 25, Y: 20}, Manufacturer: "Fruit of the Loom"},
	{Name: "Burgundy", Hex: "#800020", CMYK: CMYK{M: 100, Y: 75, K: 50}, Manufacturer: "Fruit of the Loom"},

	// Specialized categories
	{Name: "Hi-Viz Orange", Hex: "#FF6600", CMYK: CMYK{M: 60, Y: 100}, Category: "hi-viz"},
	{Name: "Hi-Viz Yellow", Hex: "#EEFF00", CMYK: CMYK{Y: 100}, Category: "hi-viz"},
	{Name: "Hi-Viz Green", Hex: "#66FF00", CMYK: CMYK{C: 60, Y: 100}, Category: "hi-viz"},
	{Name: "Hi-Viz Pink", Hex: "#FF2E99", CMYK: CMYK{M: 92, Y: 42}, Category: "hi-viz"},
	{Name: "Pastel Blue", Hex: "#B8E6FF", CMYK: CMYK{C: 28, M: 10}, Category: "pastels"},
	{Name: "Pastel Pink", Hex: "#FFD1DC", CMYK: CMYK{M: 18, Y: 14}, Category: "pastels"},
	{Name: "Pastel Yellow", Hex: "#FDFD96", CMYK: CMYK{Y: 40}, Category: "pastels"},
	{Name: "Pastel Green", Hex: "#90EE90", CMYK: CMYK{C: 43, Y: 43, K: 7}, Category: "pastels"},
	{Name: "Pastel Purple", Hex: "#DDA0DD", CMYK: CMYK{C: 13, M: 28, K: 13}, Category: "pastels"},
	{Name: "Metallic Gold", Hex: "#D4AF37", CMYK: CMYK{M: 16, Y: 100}, Category: "specialty", Specialty: "metallic"},
	{Name: "Metallic Silver", Hex: "#C0C0C0", CMYK: CMYK{K: 25}, Category: "specialty", Specialty: "metallic"},
	{Name: "Glow in Dark", Hex: "#F0F8FF", CMYK: CMYK{C: 6, M: 3}, Category: "specialty", Specialty: "glow"},
	{Name: "Reflective", Hex: "#E5E5E5", CMYK: CMYK{K: 10}, Category: "specialty", Specialty: "reflective"},
}
