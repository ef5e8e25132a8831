package api

import (
	"math"
	"strings"
)

// SpotColor is one entry of the fixed spot-ink reference table. RGB values
// are screen approximations used only for nearest-match lookup; the ink
// itself is identified by name on press.
type SpotColor struct {
	Name string `json:"name" yaml:"name"`
	R    uint8  `json:"r" yaml:"r"`
	G    uint8  `json:"g" yaml:"g"`
	B    uint8  `json:"b" yaml:"b"`
	CMYK CMYK   `json:"cmyk" yaml:"cmyk"`
}

// SpotColors returns the spot-ink reference table.
func SpotColors() []SpotColor {
	out := make([]SpotColor, len(spotTable))
	copy(out, spotTable)
	return out
}

// SpotByName looks up a spot ink by its exact name, case-insensitive.
func SpotByName(name string) (SpotColor, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range spotTable {
		if strings.ToUpper(s.Name) == want {
			return s, true
		}
	}
	return SpotColor{}, false
}

// MatchSpot returns the spot ink nearest to the given RGB color by
// Euclidean distance, together with that distance.
func MatchSpot(r, g, b int) (SpotColor, float64) {
	best := spotTable[0]
	bestDist := math.Inf(1)
	for _, s := range spotTable {
		if d := ColorDistance(r, g, b, int(s.R), int(s.G), int(s.B)); d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best, bestDist
}

// spotTable approximates the coated ink book entries the press supports.
var spotTable = []SpotColor{
	{Name: "PANTONE Yellow C", R: 254, G: 221, B: 0, CMYK: CMYK{Y: 100}},
	{Name: "PANTONE Orange 021 C", R: 254, G: 80, B: 0, CMYK: CMYK{M: 71, Y: 100}},
	{Name: "PANTONE Warm Red C", R: 249, G: 66, B: 58, CMYK: CMYK{M: 86, Y: 80}},
	{Name: "PANTONE Red 032 C", R: 239, G: 51, B: 64, CMYK: CMYK{M: 90, Y: 76}},
	{Name: "PANTONE Rubine Red C", R: 206, G: 0, B: 88, CMYK: CMYK{M: 100, Y: 34, K: 3}},
	{Name: "PANTONE Rhodamine Red C", R: 225, G: 0, B: 152, CMYK: CMYK{M: 95, Y: 6}},
	{Name: "PANTONE Purple C", R: 187, G: 41, B: 187, CMYK: CMYK{C: 37, M: 89}},
	{Name: "PANTONE Violet C", R: 68, G: 0, B: 153, CMYK: CMYK{C: 90, M: 99}},
	{Name: "PANTONE Blue 072 C", R: 16, G: 6, B: 159, CMYK: CMYK{C: 100, M: 91}},
	{Name: "PANTONE Reflex Blue C", R: 0, G: 20, B: 137, CMYK: CMYK{C: 100, M: 95, K: 3}},
	{Name: "PANTONE Process Blue C", R: 0, G: 133, B: 202, CMYK: CMYK{C: 100, M: 18}},
	{Name: "PANTONE Green C", R: 0, G: 171, B: 132, CMYK: CMYK{C: 95, Y: 58}},
	{Name: "PANTONE Black C", R: 45, G: 41, B: 38, CMYK: CMYK{C: 63, M: 62, Y: 59, K: 94}},
	{Name: "PANTONE 100 C", R: 246, G: 235, B: 97, CMYK: CMYK{Y: 64}},
	{Name: "PANTONE 109 C", R: 255, G: 209, B: 0, CMYK: CMYK{M: 10, Y: 100}},
	{Name: "PANTONE 123 C", R: 255, G: 199, B: 44, CMYK: CMYK{M: 19, Y: 89}},
	{Name: "PANTONE 151 C", R: 255, G: 130, B: 0, CMYK: CMYK{M: 56, Y: 100}},
	{Name: "PANTONE 165 C", R: 255, G: 99, B: 25, CMYK: CMYK{M: 70, Y: 100}},
	{Name: "PANTONE 185 C", R: 228, G: 0, B: 43, CMYK: CMYK{M: 100, Y: 84}},
	{Name: "PANTONE 186 C", R: 200, G: 16, B: 46, CMYK: CMYK{M: 100, Y: 80, K: 5}},
	{Name: "PANTONE 199 C", R: 213, G: 0, B: 50, CMYK: CMYK{M: 100, Y: 72}},
	{Name: "PANTONE 212 C", R: 240, G: 90, B: 154, CMYK: CMYK{M: 72, Y: 2}},
	{Name: "PANTONE 226 C", R: 213, G: 0, B: 103, CMYK: CMYK{M: 100, Y: 17}},
	{Name: "PANTONE 241 C", R: 175, G: 22, B: 133, CMYK: CMYK{C: 28, M: 100}},
	{Name: "PANTONE 254 C", R: 152, G: 29, B: 151, CMYK: CMYK{C: 46, M: 94}},
	{Name: "PANTONE 267 C", R: 89, G: 44, B: 130, CMYK: CMYK{C: 78, M: 97}},
	{Name: "PANTONE 286 C", R: 0, G: 51, B: 160, CMYK: CMYK{C: 100, M: 80}},
	{Name: "PANTONE 293 C", R: 0, G: 61, B: 165, CMYK: CMYK{C: 100, M: 73}},
	{Name: "PANTONE 300 C", R: 0, G: 94, B: 184, CMYK: CMYK{C: 100, M: 57}},
	{Name: "PANTONE 320 C", R: 0, G: 156, B: 166, CMYK: CMYK{C: 100, M: 11, Y: 35}},
	{Name: "PANTONE 347 C", R: 0, G: 154, B: 68, CMYK: CMYK{C: 93, Y: 100}},
	{Name: "PANTONE 354 C", R: 0, G: 177, B: 64, CMYK: CMYK{C: 89, Y: 100}},
	{Name: "PANTONE 361 C", R: 67, G: 176, B: 42, CMYK: CMYK{C: 77, Y: 100}},
	{Name: "PANTONE 368 C", R: 120, G: 190, B: 32, CMYK: CMYK{C: 65, Y: 100}},
	{Name: "PANTONE 375 C", R: 151, G: 215, B: 0, CMYK: CMYK{C: 47, Y: 94}},
	{Name: "PANTONE 423 C", R: 152, G: 152, B: 154, CMYK: CMYK{K: 44}},
	{Name: "PANTONE 430 C", R: 124, G: 135, B: 142, CMYK: CMYK{C: 33, M: 18, Y: 13, K: 40}},
	{Name: "PANTONE 485 C", R: 218, G: 41, B: 28, CMYK: CMYK{M: 95, Y: 100}},
	{Name: "PANTONE 541 C", R: 0, G: 60, B: 113, CMYK: CMYK{C: 100, M: 58, K: 21}},
	{Name: "PANTONE 7406 C", R: 241, G: 196, B: 0, CMYK: CMYK{M: 18, Y: 100}},
	{Name: "PANTONE 7545 C", R: 66, G: 85, B: 99, CMYK: CMYK{C: 76, M: 54, Y: 37, K: 28}},
	{Name: "PANTONE Cool Gray 6 C", R: 167, G: 168, B: 170, CMYK: CMYK{K: 35}},
}
