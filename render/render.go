// Package render draws simulation runs as PNG scenes and GIF animations.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/spatialmath"
)

const (
	// DefaultCellSize is the side of one grid cell in pixels.
	DefaultCellSize = 48
	// DefaultFrameStep is the number of poses between animation frames.
	DefaultFrameStep = 3
	// frameDelay is in hundredths of a second, about 12 frames per second.
	frameDelay = 8
)

var (
	freeColor     = hexColor("#ffffff")
	occupiedColor = hexColor("#282828")
	inflatedColor = hexColor("#aaaaaa")
	gridLineColor = hexColor("#e1e1e1")
	pathColor     = hexColor("#1f77b4")
	trajColor     = hexColor("#ff7f0e")
	estColor      = hexColor("#9467bd")
	startColor    = hexColor("#2ca02c")
	goalColor     = hexColor("#d62728")
	obstacleColor = hexColor("#e377c2")
	captionColor  = hexColor("#000000")

	captionFont *truetype.Font
)

func init() {
	var err error
	captionFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

func hexColor(s string) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// SceneInput is everything drawn for one run.
type SceneInput struct {
	Grid *gridmap.GridMap
	// Display, when set, is drawn instead of Grid. Cells occupied only in Display are shaded
	// lighter than the static obstacles of Grid.
	Display   *gridmap.GridMap
	Path      []r2.Point
	Poses     []spatialmath.Pose
	Estimated []spatialmath.Pose
	Obstacles []r2.Point
	Start     gridmap.Node
	Goal      gridmap.Node
	CellSize  int
}

// Scene encodes the full run as a PNG.
func Scene(w io.Writer, in SceneInput) error {
	if in.Grid == nil {
		return errors.New("scene has no grid")
	}
	return draw2D(in, len(in.Poses)).EncodePNG(w)
}

// Animation encodes the run as a GIF that reveals the trajectory step poses at a time. The final
// frame always shows the whole trajectory.
func Animation(w io.Writer, in SceneInput, step int) error {
	if in.Grid == nil {
		return errors.New("scene has no grid")
	}
	if len(in.Poses) == 0 {
		return errors.New("animation needs at least one pose")
	}
	if step < 1 {
		step = DefaultFrameStep
	}

	ends := make([]int, 0, len(in.Poses)/step+2)
	for i := 1; i <= len(in.Poses); i += step {
		ends = append(ends, i)
	}
	if ends[len(ends)-1] != len(in.Poses) {
		ends = append(ends, len(in.Poses))
	}

	anim := &gif.GIF{}
	for _, end := range ends {
		c := draw2D(in, end)
		c.caption(fmt.Sprintf("step %d/%d", end-1, len(in.Poses)-1))
		img := c.Image()
		frame := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, img.Bounds(), img, image.Point{})
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	return gif.EncodeAll(w, anim)
}

// SaveScene writes Scene output to path.
func SaveScene(path string, in SceneInput) error {
	return saveFile(path, func(w io.Writer) error { return Scene(w, in) })
}

// SaveAnimation writes Animation output to path.
func SaveAnimation(path string, in SceneInput, step int) error {
	return saveFile(path, func(w io.Writer) error { return Animation(w, in, step) })
}

func saveFile(path string, write func(io.Writer) error) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	if err := write(f); err != nil {
		return errors.Wrapf(err, "cannot write %q", path)
	}
	return nil
}

// canvas maps grid coordinates, y up and cell centers on integers, onto image pixels.
type canvas struct {
	*gg.Context
	cell   float64
	height int
}

func (c canvas) px(p r2.Point) (float64, float64) {
	return (p.X + 0.5) * c.cell, (float64(c.height) - 0.5 - p.Y) * c.cell
}

// draw2D renders the scene with only the first n poses of the trajectories.
func draw2D(in SceneInput, n int) canvas {
	size := in.CellSize
	if size <= 0 {
		size = DefaultCellSize
	}
	w, h := in.Grid.Width(), in.Grid.Height()
	c := canvas{Context: gg.NewContext(w*size, h*size), cell: float64(size), height: h}

	c.SetColor(freeColor)
	c.Clear()
	display := in.Display
	if display == nil {
		display = in.Grid
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			node := gridmap.Node{X: x, Y: y}
			switch {
			case in.Grid.IsOccupied(node):
				c.SetColor(occupiedColor)
			case display.IsOccupied(node):
				c.SetColor(inflatedColor)
			default:
				continue
			}
			px, py := c.px(node.Point())
			c.DrawRectangle(px-c.cell/2, py-c.cell/2, c.cell, c.cell)
			c.Fill()
		}
	}
	c.SetColor(gridLineColor)
	c.SetLineWidth(1)
	for x := 0; x <= w; x++ {
		c.DrawLine(float64(x)*c.cell, 0, float64(x)*c.cell, float64(h)*c.cell)
	}
	for y := 0; y <= h; y++ {
		c.DrawLine(0, float64(y)*c.cell, float64(w)*c.cell, float64(y)*c.cell)
	}
	c.Stroke()

	c.polyline(in.Path, pathColor, 3, false)
	for _, p := range in.Path {
		c.dot(p, pathColor, c.cell/10)
	}
	c.polyline(spatialmath.Points(prefix(in.Estimated, n)), estColor, 2, true)
	poses := prefix(in.Poses, n)
	c.polyline(spatialmath.Points(poses), trajColor, 3, false)
	if len(poses) > 0 {
		c.heading(poses[len(poses)-1])
	}

	for _, o := range in.Obstacles {
		c.dot(o, obstacleColor, c.cell/3)
	}
	c.dot(in.Start.Point(), startColor, c.cell/4)
	c.dot(in.Goal.Point(), goalColor, c.cell/4)
	return c
}

func prefix(poses []spatialmath.Pose, n int) []spatialmath.Pose {
	return poses[:min(n, len(poses))]
}

func (c canvas) polyline(points []r2.Point, col color.Color, width float64, dashed bool) {
	if len(points) < 2 {
		return
	}
	for i, p := range points {
		x, y := c.px(p)
		if i == 0 {
			c.MoveTo(x, y)
		} else {
			c.LineTo(x, y)
		}
	}
	c.SetColor(col)
	c.SetLineWidth(width)
	if dashed {
		c.SetDash(6, 4)
	}
	c.Stroke()
	c.SetDash()
}

func (c canvas) dot(p r2.Point, col color.Color, radius float64) {
	x, y := c.px(p)
	c.DrawCircle(x, y, radius)
	c.SetColor(col)
	c.Fill()
}

// caption writes text in the top left corner.
func (c canvas) caption(text string) {
	size := math.Max(8, c.cell/4)
	c.SetFontFace(truetype.NewFace(captionFont, &truetype.Options{Size: size}))
	c.SetColor(captionColor)
	c.DrawStringAnchored(text, 4, 4, 0, 1)
}

// heading marks the robot with a short line along its heading.
func (c canvas) heading(pose spatialmath.Pose) {
	tip := pose.Integrate(0.4, 0, 1)
	x0, y0 := c.px(pose.Point)
	x1, y1 := c.px(tip.Point)
	c.SetColor(trajColor)
	c.SetLineWidth(3)
	c.DrawLine(x0, y0, x1, y1)
	c.Stroke()
	c.dot(pose.Point, trajColor, c.cell/8)
}
