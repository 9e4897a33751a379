package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"remitiq/internal/domain"
)

const (
	defaultChartWidth  = 960
	defaultChartHeight = 640
	maxChartPoints     = 120
)

var (
	colBackground = color.RGBA{R: 250, G: 252, B: 255, A: 255}
	colGrid       = color.RGBA{R: 225, G: 232, B: 240, A: 255}
	colRate       = color.RGBA{R: 62, G: 106, B: 214, A: 255}
	colMidMarket  = color.RGBA{R: 104, G: 122, B: 146, A: 255}
	colSMA        = color.RGBA{R: 255, G: 149, B: 0, A: 255}
	colBand       = color.RGBA{R: 104, G: 122, B: 146, A: 255}
	colMarker     = color.RGBA{R: 18, G: 140, B: 126, A: 255}
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderRateChart draws the best-rate history as a PNG: the main panel
// shows the rate against the mid-market line with a 20-day SMA overlay,
// the aux panel shows RSI(14) with 30/70 bands.
func (r *Renderer) RenderRateChart(points []domain.RatePoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points to render chart")
	}
	if len(points) > maxChartPoints {
		points = points[len(points)-maxChartPoints:]
	}

	img := image.NewRGBA(image.Rect(0, 0, defaultChartWidth, defaultChartHeight))
	fillRect(img, img.Bounds(), colBackground)

	mainRect := image.Rect(60, 20, defaultChartWidth-20, (defaultChartHeight*72)/100)
	auxRect := image.Rect(60, mainRect.Max.Y+16, defaultChartWidth-20, defaultChartHeight-30)
	drawGrid(img, mainRect, 8, 6)
	drawGrid(img, auxRect, 8, 3)

	rates := extractRates(points)
	mids := extractMidMarkets(points)
	sma := smaSeries(rates, 20)

	minV, maxV := finiteBounds(rates)
	minM, maxM := finiteBounds(mids)
	minV = math.Min(minV, minM)
	maxV = math.Max(maxV, maxM)

	drawSeries(img, mainRect, mids, minV, maxV, colMidMarket)
	drawSeries(img, mainRect, sma, minV, maxV, colSMA)
	drawSeries(img, mainRect, rates, minV, maxV, colRate)

	markerX := mapIndexToX(len(rates)-1, len(rates), mainRect)
	drawLine(img, markerX, mainRect.Min.Y, markerX, mainRect.Max.Y, colMarker)

	drawRSIPanel(img, auxRect, rates)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRSIPanel(img *image.RGBA, rect image.Rectangle, rates []float64) {
	rsi := rsiSeries(rates, 14)
	drawHorizontalValueLine(img, rect, 30, 0, 100, colBand)
	drawHorizontalValueLine(img, rect, 70, 0, 100, colBand)
	drawSeries(img, rect, rsi, 0, 100, colRate)
}

func drawSeries(img *image.RGBA, rect image.Rectangle, series []float64, minV, maxV float64, col color.RGBA) {
	lastX, lastY := -1, -1
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			lastX, lastY = -1, -1
			continue
		}
		x := mapIndexToX(i, len(series), rect)
		y := mapValueToY(v, minV, maxV, rect)
		if lastX >= 0 {
			drawLine(img, lastX, lastY, x, y, col)
		}
		lastX, lastY = x, y
	}
}

func drawGrid(img *image.RGBA, rect image.Rectangle, verticalLines, horizontalLines int) {
	for i := 0; i <= verticalLines; i++ {
		x := rect.Min.X + (rect.Dx()*i)/max(1, verticalLines)
		drawLine(img, x, rect.Min.Y, x, rect.Max.Y, colGrid)
	}
	for i := 0; i <= horizontalLines; i++ {
		y := rect.Min.Y + (rect.Dy()*i)/max(1, horizontalLines)
		drawLine(img, rect.Min.X, y, rect.Max.X, y, colGrid)
	}
}

func drawHorizontalValueLine(img *image.RGBA, rect image.Rectangle, value, minV, maxV float64, col color.RGBA) {
	y := mapValueToY(value, minV, maxV, rect)
	drawLine(img, rect.Min.X, y, rect.Max.X, y, col)
}

func mapIndexToX(idx, total int, rect image.Rectangle) int {
	if total <= 1 {
		return rect.Min.X
	}
	return rect.Min.X + (idx*(rect.Dx()-1))/(total-1)
}

func mapValueToY(value, minV, maxV float64, rect image.Rectangle) int {
	if maxV <= minV {
		return rect.Max.Y
	}
	ratio := (value - minV) / (maxV - minV)
	ratio = math.Max(0, math.Min(1, ratio))
	return rect.Max.Y - int(ratio*float64(rect.Dy()-1))
}

func finiteBounds(values []float64) (float64, float64) {
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if math.IsInf(minV, 1) || math.IsInf(maxV, -1) {
		return 0, 1
	}
	if minV == maxV {
		return minV, maxV + 1
	}
	return minV, maxV
}

func extractRates(points []domain.RatePoint) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		out[i] = points[i].Rate
	}
	return out
}

func extractMidMarkets(points []domain.RatePoint) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		if points[i].MidMarket > 0 {
			out[i] = points[i].MidMarket
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func smaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
		if i < period-1 {
			continue
		}
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

func rsiSeries(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gainSum += d
		} else {
			lossSum -= d
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = rsiFromAvg(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain := math.Max(d, 0)
		loss := math.Max(-d, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAvg(avgGain, avgLoss)
	}
	return out
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func fillRect(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	r := rect.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
