/*
Copyright 2022 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package layout is the rule-based half of the Layout Detector (§4.5):
// it clusters waveform-ink blocks into regions, arranges them into rows
// and columns, and classifies the resulting panel-count shape.
package layout

import (
	"sort"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

const rowClusterThresholdPx = 80

// Region is one clustered waveform-ink area, pre-lead-assignment (§4.5).
type Region struct {
	Bounds        geom.Bounds
	BaselineY     int
	Row, Col      int
	IsRhythmStrip bool
}

// Format is the classified panel-count shape (§4.5).
type Format string

const (
	Format12Lead  Format = "12-lead"
	Format15Lead  Format = "15-lead"
	Format6x2     Format = "6x2"
	FormatStrip   Format = "single-strip"
	FormatRhythmOnly Format = "rhythm-only"
	FormatUnknown Format = "unknown"
)

// Result is the rule-based layout detector's output (§4.5).
type Result struct {
	Regions    []Region
	Rows, Cols int
	Format     Format
	Confidence float64
}

// Detect partitions img into blocks, quantizes the dominant dark color
// family, merges dense blocks into regions, and classifies the format
// (§4.5).
func Detect(img *pixel.Image) Result {
	blockSize := blockSizeFor(img.Width(), img.Height())
	waveformColor := DominantDarkColor(img)

	dense := denseBlocks(img, blockSize, waveformColor)
	regions := mergeBlocks(dense, blockSize)

	rhythm, mainRegions := splitRhythmStrips(regions, img.Width())

	rows, cols := clusterIntoGrid(mainRegions, rowClusterThresholdPx)
	assignBaselines(img, mainRegions, waveformColor)

	format, conf := classify(rows, cols, len(mainRegions))

	all := append(mainRegions, rhythm...)
	return Result{Regions: all, Rows: len(rows), Cols: maxCols(rows), Format: format, Confidence: conf}
}

func blockSizeFor(w, h int) int {
	m := w
	if h < m {
		m = h
	}
	size := m / 20
	if size > 50 {
		size = 50
	}
	if size < 1 {
		size = 1
	}
	return size
}

// DominantDarkColor quantizes dark pixels into 32-wide RGB buckets and
// returns the most populous bucket's representative color: the ink
// color the waveform is drawn in (§4.5).
func DominantDarkColor(img *pixel.Image) colorspace.RGB {
	counts := map[[3]int]int{}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.At(x, y)
			if c.Darkness() < 150 {
				continue
			}
			bucket := [3]int{int(c.R) / 32, int(c.G) / 32, int(c.B) / 32}
			counts[bucket]++
		}
	}
	best := [3]int{0, 0, 0}
	bestCount := -1
	for b, n := range counts {
		if n > bestCount {
			bestCount = n
			best = b
		}
	}
	return colorspace.RGB{R: uint8(best[0]*32 + 16), G: uint8(best[1]*32 + 16), B: uint8(best[2]*32 + 16)}
}

type block struct {
	row, col int
	bounds   geom.Bounds
	density  float64
}

func denseBlocks(img *pixel.Image, blockSize int, waveform colorspace.RGB) []block {
	var blocks []block
	for y := 0; y < img.Height(); y += blockSize {
		for x := 0; x < img.Width(); x += blockSize {
			w, h := blockSize, blockSize
			if x+w > img.Width() {
				w = img.Width() - x
			}
			if y+h > img.Height() {
				h = img.Height() - y
			}
			match := 0
			for by := y; by < y+h; by++ {
				for bx := x; bx < x+w; bx++ {
					if img.At(bx, by).ColorMatch(waveform) > 200 {
						match++
					}
				}
			}
			density := float64(match) / float64(w*h)
			if density > 0.01 {
				blocks = append(blocks, block{
					row:     y / blockSize,
					col:     x / blockSize,
					bounds:  geom.NewBounds(x, y, w, h),
					density: density,
				})
			}
		}
	}
	return blocks
}

// mergeBlocks union-find-merges 8-connected dense blocks into regions
// (§4.5).
func mergeBlocks(blocks []block, blockSize int) []Region {
	if len(blocks) == 0 {
		return nil
	}
	index := map[[2]int]int{}
	for i, b := range blocks {
		index[[2]int{b.row, b.col}] = i
	}

	parent := make([]int, len(blocks))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i, b := range blocks {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				if j, ok := index[[2]int{b.row + dr, b.col + dc}]; ok {
					union(i, j)
				}
			}
		}
	}

	groups := map[int][]block{}
	for i, b := range blocks {
		root := find(i)
		groups[root] = append(groups[root], b)
	}

	var regions []Region
	for _, g := range groups {
		regions = append(regions, Region{Bounds: boundsOf(g)})
	}
	return regions
}

func boundsOf(blocks []block) geom.Bounds {
	minX, minY := blocks[0].bounds.X, blocks[0].bounds.Y
	maxX, maxY := blocks[0].bounds.Right(), blocks[0].bounds.Bottom()
	for _, b := range blocks[1:] {
		if b.bounds.X < minX {
			minX = b.bounds.X
		}
		if b.bounds.Y < minY {
			minY = b.bounds.Y
		}
		if b.bounds.Right() > maxX {
			maxX = b.bounds.Right()
		}
		if b.bounds.Bottom() > maxY {
			maxY = b.bounds.Bottom()
		}
	}
	return geom.NewBounds(minX, minY, maxX-minX, maxY-minY)
}

// splitRhythmStrips pulls out regions wider than 70% of W and tags them
// as rhythm strips (§4.5). Only the width is tested; a region's vertical
// position in the image is not checked.
func splitRhythmStrips(regions []Region, imageWidth int) (rhythm, rest []Region) {
	for _, r := range regions {
		if float64(r.Bounds.Width) > 0.7*float64(imageWidth) {
			r.IsRhythmStrip = true
			rhythm = append(rhythm, r)
		} else {
			rest = append(rest, r)
		}
	}
	return rhythm, rest
}

// clusterIntoGrid sorts regions by (y, then x) and clusters by
// y-proximity into rows, then by x within each row into columns (§4.5).
// It mutates each region's Row/Col in place and returns the row
// clusters (for Rows/Cols accounting).
func clusterIntoGrid(regions []Region, threshold int) ([][]int, [][]int) {
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Bounds.Y != regions[j].Bounds.Y {
			return regions[i].Bounds.Y < regions[j].Bounds.Y
		}
		return regions[i].Bounds.X < regions[j].Bounds.X
	})

	var rowIdx [][]int // indices of regions per row
	for i := range regions {
		placed := false
		cy := regions[i].Bounds.Center().Y
		for ri := range rowIdx {
			repCy := regions[rowIdx[ri][0]].Bounds.Center().Y
			if absInt(cy-repCy) <= threshold {
				rowIdx[ri] = append(rowIdx[ri], i)
				placed = true
				break
			}
		}
		if !placed {
			rowIdx = append(rowIdx, []int{i})
		}
	}

	var colIdx [][]int
	for ri, idxs := range rowIdx {
		sort.Slice(idxs, func(a, b int) bool {
			return regions[idxs[a]].Bounds.X < regions[idxs[b]].Bounds.X
		})
		rowIdx[ri] = idxs
		for col, i := range idxs {
			regions[i].Row = ri
			regions[i].Col = col
		}
		colIdx = append(colIdx, idxs)
	}

	return rowIdx, colIdx
}

func assignBaselines(img *pixel.Image, regions []Region, waveform colorspace.RGB) {
	for i := range regions {
		regions[i].BaselineY = baselineForRegion(img, regions[i].Bounds, waveform)
	}
}

// baselineForRegion finds the row whose dark-pixel count is closest to
// the region's median row count (§4.5).
func baselineForRegion(img *pixel.Image, b geom.Bounds, waveform colorspace.RGB) int {
	counts := make([]int, b.Height)
	for dy := 0; dy < b.Height; dy++ {
		y := b.Y + dy
		n := 0
		for x := b.X; x < b.Right(); x++ {
			if img.At(x, y).ColorMatch(waveform) > 200 {
				n++
			}
		}
		counts[dy] = n
	}
	if len(counts) == 0 {
		return b.Center().Y
	}
	sorted := append([]int(nil), counts...)
	sort.Ints(sorted)
	median := sorted[len(sorted)/2]

	bestDy, bestDiff := 0, -1
	for dy, c := range counts {
		diff := c - median
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			bestDy = dy
		}
	}
	return b.Y + bestDy
}

func classify(rows [][]int, cols [][]int, regionCount int) (Format, float64) {
	numRows := len(rows)
	maxColCount := maxCols(rows)

	switch {
	case numRows == 3 && maxColCount == 4 && regionCount >= 12:
		return Format12Lead, 0.8
	case numRows == 3 && maxColCount == 5 && regionCount >= 15:
		return Format15Lead, 0.8
	case numRows == 6 && maxColCount == 2:
		return Format6x2, 0.8
	case numRows == 1:
		return FormatStrip, 0.8
	case regionCount >= 1 && regionCount <= 3:
		return FormatRhythmOnly, 0.8
	default:
		return FormatUnknown, 0.4
	}
}

func maxCols(rows [][]int) int {
	m := 0
	for _, r := range rows {
		if len(r) > m {
			m = len(r)
		}
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
