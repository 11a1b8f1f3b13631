package combat

import (
	"errors"
	"fmt"
	"math"
)

var ErrBadTemplate = errors.New("malformed area template")

//template cell markers
const (
	cellEmpty = iota
	cellAffected
	cellCenter
	cellAffectedCenter
)

type MatrixOperation int

const (
	MatrixCopy MatrixOperation = iota
	MatrixMirror
	MatrixFlip
	MatrixRotate90
	MatrixRotate180
	MatrixRotate270
)

//MatrixArea is a grid of affected cells with one center cell. Once built it
//is never written again.
type MatrixArea struct {
	rows, cols int
	centerRow  int
	centerCol  int
	data       []bool
}

func newMatrixArea(rows, cols int) *MatrixArea {
	return &MatrixArea{
		rows: rows,
		cols: cols,
		data: make([]bool, rows*cols),
	}
}

func (m *MatrixArea) Rows() int { return m.rows }
func (m *MatrixArea) Cols() int { return m.cols }

//Center returns the row and column of the center cell
func (m *MatrixArea) Center() (int, int) {
	return m.centerRow, m.centerCol
}

func (m *MatrixArea) Value(row, col int) bool {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return false
	}
	return m.data[row*m.cols+col]
}

func (m *MatrixArea) set(row, col int, v bool) {
	m.data[row*m.cols+col] = v
}

//Offset is a cell position relative to the center; DY grows southwards
type Offset struct {
	DX, DY int
}

//Offsets lists the affected cells relative to the center in row major order
func (m *MatrixArea) Offsets() []Offset {
	var r []Offset
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			if m.Value(row, col) {
				r = append(r, Offset{DX: col - m.centerCol, DY: row - m.centerRow})
			}
		}
	}
	return r
}

//createArea reads a row major list of cell markers
func createArea(cells []int, rows int) (*MatrixArea, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: row count %v", ErrBadTemplate, rows)
	}
	if len(cells) == 0 || len(cells)%rows != 0 {
		return nil, fmt.Errorf("%w: %v cells do not fill %v rows", ErrBadTemplate, len(cells), rows)
	}
	cols := len(cells) / rows
	m := newMatrixArea(rows, cols)
	centers := 0
	for i, v := range cells {
		row, col := i/cols, i%cols
		switch v {
		case cellEmpty:
		case cellAffected:
			m.set(row, col, true)
		case cellCenter:
			m.centerRow, m.centerCol = row, col
			centers++
		case cellAffectedCenter:
			m.set(row, col, true)
			m.centerRow, m.centerCol = row, col
			centers++
		default:
			return nil, fmt.Errorf("%w: unknown marker %v at %v", ErrBadTemplate, v, i)
		}
	}
	if centers != 1 {
		return nil, fmt.Errorf("%w: %v center cells", ErrBadTemplate, centers)
	}
	return m, nil
}

//Transform applies op to m. The output is square with side
//2*max(rows, cols) so no rotation clips.
func (m *MatrixArea) Transform(op MatrixOperation) *MatrixArea {
	size := 2 * m.rows
	if m.cols > m.rows {
		size = 2 * m.cols
	}
	out := newMatrixArea(size, size)

	switch op {
	case MatrixCopy:
		for row := 0; row < m.rows; row++ {
			for col := 0; col < m.cols; col++ {
				out.set(row, col, m.Value(row, col))
			}
		}
		out.centerRow, out.centerCol = m.centerRow, m.centerCol
	case MatrixMirror:
		for row := 0; row < m.rows; row++ {
			rc := 0
			for col := m.cols - 1; col >= 0; col-- {
				out.set(row, rc, m.Value(row, col))
				rc++
			}
		}
		//the column is reflected against the row count
		out.centerRow, out.centerCol = m.centerRow, (m.rows-1)-m.centerCol
	case MatrixFlip:
		for col := 0; col < m.cols; col++ {
			rr := 0
			for row := m.rows - 1; row >= 0; row-- {
				out.set(rr, col, m.Value(row, col))
				rr++
			}
		}
		out.centerRow, out.centerCol = (m.cols-1)-m.centerRow, m.centerCol
	default:
		var angle float64
		switch op {
		case MatrixRotate90:
			angle = 90
		case MatrixRotate180:
			angle = 180
		case MatrixRotate270:
			angle = 270
		}
		rad := math.Pi * angle / 180
		a, b := math.Cos(rad), -math.Sin(rad)
		c, d := math.Sin(rad), math.Cos(rad)

		rcRow := size/2 - 1
		rcCol := size/2 - 1
		for col := 0; col < m.cols; col++ {
			for row := 0; row < m.rows; row++ {
				if !m.Value(row, col) {
					continue
				}
				x := float64(col - m.centerCol)
				y := float64(row - m.centerRow)
				rx := int(math.Round(x*a + y*b))
				ry := int(math.Round(x*c + y*d))
				out.set(ry+rcRow, rx+rcCol, true)
			}
		}
		out.centerRow, out.centerCol = rcRow, rcCol
	}
	return out
}

//AreaCombat holds the orientation variants of one shape. It is immutable
//and may be shared by any number of combats.
type AreaCombat struct {
	areas      [8]*MatrixArea
	hasExtArea bool
}

//Template is an authored shape: row major cell markers
//(0 empty, 1 affected, 2 center, 3 affected center)
type Template struct {
	Cells []int `yaml:"Cells"`
	Rows  int   `yaml:"Rows"`
}

//BuildFromTemplate derives the four cardinal variants from a north facing
//template
func BuildFromTemplate(t Template) (*AreaCombat, error) {
	a := &AreaCombat{}
	if err := a.setupArea(t.Cells, t.Rows); err != nil {
		return nil, err
	}
	return a, nil
}

//BuildWithExt adds the four diagonal variants derived from a north west
//facing template
func BuildWithExt(t, ext Template) (*AreaCombat, error) {
	a, err := BuildFromTemplate(t)
	if err != nil {
		return nil, err
	}
	if err := a.setupExtArea(ext.Cells, ext.Rows); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AreaCombat) setupArea(cells []int, rows int) error {
	north, err := createArea(cells, rows)
	if err != nil {
		return err
	}
	a.areas[North] = north
	a.areas[South] = north.Transform(MatrixRotate180)
	a.areas[East] = north.Transform(MatrixRotate90)
	a.areas[West] = north.Transform(MatrixRotate270)
	return nil
}

func (a *AreaCombat) setupExtArea(cells []int, rows int) error {
	if len(cells) == 0 {
		return nil
	}
	nw, err := createArea(cells, rows)
	if err != nil {
		return err
	}
	a.hasExtArea = true
	a.areas[NorthWest] = nw
	a.areas[NorthEast] = nw.Transform(MatrixMirror)
	sw := nw.Transform(MatrixFlip)
	a.areas[SouthWest] = sw
	a.areas[SouthEast] = sw.Transform(MatrixMirror)
	return nil
}

//BuildRing builds a wave of the given length whose rows widen by one cell on
//each side every spread rows. The cell next to the caster is the center.
func BuildRing(length, spread int) (*AreaCombat, error) {
	if length <= 0 || spread < 0 {
		return nil, fmt.Errorf("%w: ring length %v spread %v", ErrBadTemplate, length, spread)
	}
	rows := length
	cols := 1
	if spread != 0 {
		cols = ((length-length%spread)/spread)*2 + 1
	}

	cells := make([]int, 0, rows*cols)
	colSpread := cols
	for y := 1; y <= rows; y++ {
		mincol := cols - colSpread + 1
		maxcol := cols - (cols - colSpread)
		for x := 1; x <= cols; x++ {
			switch {
			case y == rows && x == (cols-cols%2)/2+1:
				cells = append(cells, cellAffectedCenter)
			case x >= mincol && x <= maxcol:
				cells = append(cells, cellAffected)
			default:
				cells = append(cells, cellEmpty)
			}
		}
		if spread > 0 && y%spread == 0 {
			colSpread--
		}
	}
	return BuildFromTemplate(Template{Cells: cells, Rows: rows})
}

//discTemplate holds the ring index of each cell around the center
var discTemplate = [13][13]int{
	{0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 8, 8, 7, 8, 8, 0, 0, 0, 0},
	{0, 0, 0, 8, 7, 6, 6, 6, 7, 8, 0, 0, 0},
	{0, 0, 8, 7, 6, 5, 5, 5, 6, 7, 8, 0, 0},
	{0, 8, 7, 6, 5, 4, 4, 4, 5, 6, 7, 8, 0},
	{0, 8, 6, 5, 4, 3, 2, 3, 4, 5, 6, 8, 0},
	{8, 7, 6, 5, 4, 2, 1, 2, 4, 5, 6, 7, 8},
	{0, 8, 6, 5, 4, 3, 2, 3, 4, 5, 6, 8, 0},
	{0, 8, 7, 6, 5, 4, 4, 4, 5, 6, 7, 8, 0},
	{0, 0, 8, 7, 6, 5, 5, 5, 6, 7, 8, 0, 0},
	{0, 0, 0, 8, 7, 6, 6, 6, 7, 8, 0, 0, 0},
	{0, 0, 0, 0, 8, 8, 7, 8, 8, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0},
}

//BuildDisc includes every cell whose ring index is within [1, radius]
func BuildDisc(radius int) (*AreaCombat, error) {
	cells := make([]int, 0, 13*13)
	for _, row := range discTemplate {
		for _, v := range row {
			switch {
			case v == 1:
				cells = append(cells, cellAffectedCenter)
			case v > 0 && v <= radius:
				cells = append(cells, cellAffected)
			default:
				cells = append(cells, cellEmpty)
			}
		}
	}
	return BuildFromTemplate(Template{Cells: cells, Rows: 13})
}

//HasExtArea reports whether diagonal variants exist
func (a *AreaCombat) HasExtArea() bool {
	return a != nil && a.hasExtArea
}

//Variant returns the variant for dir, nil if it was never built
func (a *AreaCombat) Variant(dir Direction) *MatrixArea {
	if a == nil || dir < 0 || int(dir) >= len(a.areas) {
		return nil
	}
	return a.areas[dir]
}

//Direction picks the variant facing from center towards target
func (a *AreaCombat) Direction(center, target Position) Direction {
	dx := target.X - center.X
	dy := target.Y - center.Y

	dir := South
	switch {
	case dx < 0:
		dir = West
	case dx > 0:
		dir = East
	case dy < 0:
		dir = North
	}

	if a.HasExtArea() {
		switch {
		case dx < 0 && dy < 0:
			dir = NorthWest
		case dx > 0 && dy < 0:
			dir = NorthEast
		case dx < 0 && dy > 0:
			dir = SouthWest
		case dx > 0 && dy > 0:
			dir = SouthEast
		}
	}
	return dir
}

//ResolveAffectedTiles lays the variant facing from origin to target over the
//map with its center on target. A cell is kept only if sight reports a clear
//line from target to it. Without an area only target is returned.
func (a *AreaCombat) ResolveAffectedTiles(origin, target Position, sight func(from, to Position) bool) []Position {
	if a == nil {
		return []Position{target}
	}
	m := a.Variant(a.Direction(origin, target))
	if m == nil {
		return nil
	}

	var r []Position
	for _, o := range m.Offsets() {
		p := Position{X: target.X + o.DX, Y: target.Y + o.DY, Z: target.Z}
		if sight == nil || sight(target, p) {
			r = append(r, p)
		}
	}
	return r
}
