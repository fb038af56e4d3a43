package hashing

import "testing"

// gradient builds a w x h image whose brightness rises left to right.
func gradient(w, h int) GrayImage {
	img := make(GrayImage, h)
	for y := 0; y < h; y++ {
		row := make([]uint8, w)
		for x := 0; x < w; x++ {
			row[x] = uint8(x * 255 / (w - 1))
		}
		img[y] = row
	}
	return img
}

func TestResizeNearest(t *testing.T) {
	img := gradient(100, 80)
	small := ResizeNearest(img, 9, 8)
	if small.Width() != 9 || small.Height() != 8 {
		t.Fatalf("resize dims: want=9x8 got=%dx%d", small.Width(), small.Height())
	}
	if small[0][0] != img[0][0] {
		t.Fatalf("top-left pixel should map to source origin")
	}
}

func TestResizeNearestUpscalesSmallSource(t *testing.T) {
	img := GrayImage{{10, 20}, {30, 40}}
	big := ResizeNearest(img, 9, 8)
	if big.Width() != 9 || big.Height() != 8 {
		t.Fatalf("resize dims: want=9x8 got=%dx%d", big.Width(), big.Height())
	}
	if big[0][0] != 10 || big[7][8] != 40 {
		t.Fatalf("corner pixels: want=10/40 got=%d/%d", big[0][0], big[7][8])
	}
}

func TestDHashGray(t *testing.T) {
	img := gradient(64, 64)
	h := DHashGray(img)
	if len(h) != 16 {
		t.Fatalf("dhash length: want=16 got=%d", len(h))
	}
	// Brightness strictly rises to the right, so no left>right comparison
	// fires anywhere.
	if h != "0000000000000000" {
		t.Fatalf("rising gradient dhash: want=0000000000000000 got=%s", h)
	}

	// Flip the direction and every comparison fires.
	flipped := make(GrayImage, len(img))
	for y, row := range img {
		rev := make([]uint8, len(row))
		for x := range row {
			rev[x] = row[len(row)-1-x]
		}
		flipped[y] = rev
	}
	if hf := DHashGray(flipped); hf != "ffffffffffffffff" {
		t.Fatalf("falling gradient dhash: want=ffffffffffffffff got=%s", hf)
	}
}

func TestPHashGrayDeterministic(t *testing.T) {
	img := gradient(128, 96)
	a := PHashGray(img)
	b := PHashGray(img)
	if a != b {
		t.Fatalf("phash not deterministic: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("phash length: want=16 got=%d", len(a))
	}
}

func TestPHashGrayScaleInvariance(t *testing.T) {
	// The same pattern at two sizes lands on nearly identical DCT
	// coefficients, so the hashes should be very close.
	a := PHashGray(gradient(256, 256))
	b := PHashGray(gradient(64, 64))
	if d := HammingDistanceHex(a, b); d > 4 {
		t.Fatalf("scaled copies too far apart: distance=%d", d)
	}
}

func TestPHashGrayDistinctPatterns(t *testing.T) {
	grad := gradient(64, 64)
	checker := make(GrayImage, 64)
	for y := range checker {
		row := make([]uint8, 64)
		for x := range row {
			if (x/8+y/8)%2 == 0 {
				row[x] = 255
			}
		}
		checker[y] = row
	}
	if d := HammingDistanceHex(PHashGray(grad), PHashGray(checker)); d == 0 {
		t.Fatalf("different patterns should differ in phash")
	}
}
