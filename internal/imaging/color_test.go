package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.RGBA.A != 255 {
		t.Errorf("RGBA.A: got %d, want 255", result.RGBA.A)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.RGBA
		wantHex string
		wantH   int
		wantS   int
		wantL   int
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, "#FF0000", 0, 100, 50},
		{"pure green", color.RGBA{0, 255, 0, 255}, "#00FF00", 120, 100, 50},
		{"pure blue", color.RGBA{0, 0, 255, 255}, "#0000FF", 240, 100, 50},
		{"white", color.RGBA{255, 255, 255, 255}, "#FFFFFF", 0, 0, 100},
		{"black", color.RGBA{0, 0, 0, 255}, "#000000", 0, 0, 0},
		{"road gray", color.RGBA{100, 100, 100, 255}, "#646464", 0, 0, 39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SampleColor(createInMemoryImage(10, 10, tt.color), 5, 5)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if result.HSL.H != tt.wantH || result.HSL.S != tt.wantS || result.HSL.L != tt.wantL {
				t.Errorf("HSL: got %+v, want (%d,%d,%d)", result.HSL, tt.wantH, tt.wantS, tt.wantL)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(img, tt.x, tt.y); err == nil {
				t.Errorf("SampleColor(%d, %d) should fail", tt.x, tt.y)
			}
		})
	}
}

func TestSampleColor_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 20, 20))
	img.SetNRGBA(10, 10, color.NRGBA{1, 2, 3, 255})

	result, err := SampleColor(img, 10, 10)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Hex != "#010203" {
		t.Errorf("Hex: got %s, want #010203", result.Hex)
	}
	if _, err := SampleColor(img, 0, 0); err == nil {
		t.Error("SampleColor(0, 0) should fail outside offset bounds")
	}
}

func TestDescribeColor_Translucent(t *testing.T) {
	result := DescribeColor(color.NRGBA{R: 200, G: 100, B: 0, A: 128})
	if result.RGB.R != 200 || result.RGB.G != 100 || result.RGBA.A != 128 {
		t.Errorf("got %+v, want unpremultiplied (200,100,0,128)", result.RGBA)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{R: 255, A: 255}, false},
		{"00ff00", color.NRGBA{G: 255, A: 255}, false},
		{" #0000FF ", color.NRGBA{B: 255, A: 255}, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
