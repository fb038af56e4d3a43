package hashing

import (
	"fmt"
	"math"
)

// GrayImage is a row-major grayscale pixel matrix (0..255), rows of equal
// length.
type GrayImage [][]uint8

// Width returns 0 for an empty image.
func (g GrayImage) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g GrayImage) Height() int { return len(g) }

// ResizeNearest resamples to newW x newH with nearest-neighbor mapping
// src = min(size-1, dst*srcSize/dstSize). Sources smaller than the target
// grid are tolerated (pixels repeat).
func ResizeNearest(img GrayImage, newW, newH int) GrayImage {
	h := img.Height()
	w := img.Width()
	out := make(GrayImage, newH)
	for y := 0; y < newH; y++ {
		row := make([]uint8, newW)
		if w > 0 && h > 0 {
			srcY := y * h / newH
			if srcY > h-1 {
				srcY = h - 1
			}
			for x := 0; x < newW; x++ {
				srcX := x * w / newW
				if srcX > w-1 {
					srcX = w - 1
				}
				row[x] = img[srcY][srcX]
			}
		}
		out[y] = row
	}
	return out
}

// DHashGray computes the 64-bit difference hash: resample to 9x8 and set
// bit y*8+x iff pixel(x) > pixel(x+1) in that row.
func DHashGray(img GrayImage) string {
	small := ResizeNearest(img, 9, 8)
	var hash uint64
	idx := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if small[y][x] > small[y][x+1] {
				hash |= 1 << uint(idx)
			}
			idx++
		}
	}
	return fmt.Sprintf("%016x", hash)
}

// PHashGray computes the 64-bit perceptual hash: 32x32 resample, type-II
// DCT with orthonormal scaling, then one bit per low-frequency coefficient
// in the 8x8 block (DC excluded) against the block mean.
func PHashGray(img GrayImage) string {
	small := ResizeNearest(img, 32, 32)
	coeffs := dct2(small)

	vals := make([]float64, 0, 63)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x == 0 && y == 0 {
				continue
			}
			vals = append(vals, coeffs[y][x])
		}
	}
	var avg float64
	for _, v := range vals {
		avg += v
	}
	avg /= float64(len(vals))

	var hash uint64
	for i, v := range vals {
		if v > avg {
			hash |= 1 << uint(i)
		}
	}
	return fmt.Sprintf("%016x", hash)
}

// dct2 is the 2D type-II DCT with orthonormal scaling. The input is always
// 32x32 here, so the direct O(n^4) form is fine.
func dct2(img GrayImage) [][]float64 {
	n := img.Height()
	m := img.Width()
	out := make([][]float64, n)

	cosN := cosTable(n)
	cosM := cosTable(m)

	for u := 0; u < n; u++ {
		out[u] = make([]float64, m)
		for v := 0; v < m; v++ {
			var sum float64
			for x := 0; x < n; x++ {
				for y := 0; y < m; y++ {
					sum += float64(img[x][y]) * cosN[x][u] * cosM[y][v]
				}
			}
			cu := math.Sqrt(2 / float64(n))
			if u == 0 {
				cu = math.Sqrt(1 / float64(n))
			}
			cv := math.Sqrt(2 / float64(m))
			if v == 0 {
				cv = math.Sqrt(1 / float64(m))
			}
			out[u][v] = cu * cv * sum
		}
	}
	return out
}

// cosTable[x][u] = cos((2x+1) u pi / 2n)
func cosTable(n int) [][]float64 {
	t := make([][]float64, n)
	for x := 0; x < n; x++ {
		t[x] = make([]float64, n)
		for u := 0; u < n; u++ {
			t[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / (2 * float64(n)))
		}
	}
	return t
}
