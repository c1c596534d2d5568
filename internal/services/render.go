package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	certificateWidth  = 1600
	certificateHeight = 1131
	avatarSize        = 512
)

// certificateFonts holds the faces used on the certificate, largest first.
type certificateFonts struct {
	title   font.Face
	name    font.Face
	body    font.Face
	caption font.Face
}

// loadCertificateFonts uses the TTF at fontPath when set and the bundled Go fonts otherwise.
func loadCertificateFonts(fontPath string) (certificateFonts, error) {
	regular, bold := goregular.TTF, gobold.TTF
	if p := strings.TrimSpace(fontPath); p != "" {
		raw, err := os.ReadFile(p)
		if err != nil {
			return certificateFonts{}, fmt.Errorf("failed to read font file: %w", err)
		}
		regular, bold = raw, raw
	}
	regularFont, err := truetype.Parse(regular)
	if err != nil {
		return certificateFonts{}, fmt.Errorf("failed to parse TTF: %w", err)
	}
	boldFont, err := truetype.Parse(bold)
	if err != nil {
		return certificateFonts{}, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return certificateFonts{
		title:   face(boldFont, 84),
		name:    face(boldFont, 72),
		body:    face(regularFont, 36),
		caption: face(regularFont, 28),
	}, nil
}

type certificateText struct {
	StudentName string
	CourseTitle string
	TeacherName string
	IssuedAt    time.Time
}

func renderCertificate(fonts certificateFonts, t certificateText) ([]byte, error) {
	const (
		w = float64(certificateWidth)
		h = float64(certificateHeight)
	)
	dc := gg.NewContext(certificateWidth, certificateHeight)

	dc.SetColor(color.NRGBA{R: 0xFB, G: 0xF8, B: 0xF1, A: 0xFF})
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	accent := color.NRGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF}
	dc.SetColor(accent)
	dc.SetLineWidth(14)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetLineWidth(3)
	dc.DrawRectangle(70, 70, w-140, h-140)
	dc.Stroke()

	dc.SetFontFace(fonts.title)
	dc.DrawStringAnchored("Certificate of Completion", w/2, 260, 0.5, 0.5)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.SetFontFace(fonts.body)
	dc.DrawStringAnchored("This certifies that", w/2, 400, 0.5, 0.5)

	dc.SetColor(color.Black)
	dc.SetFontFace(fonts.name)
	dc.DrawStringAnchored(t.StudentName, w/2, 510, 0.5, 0.5)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.SetFontFace(fonts.body)
	dc.DrawStringAnchored("has successfully completed the course", w/2, 620, 0.5, 0.5)

	dc.SetColor(accent)
	dc.SetFontFace(fonts.name)
	dc.DrawStringWrapped(t.CourseTitle, w/2, 730, 0.5, 0.5, w-360, 1.2, gg.AlignCenter)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.SetFontFace(fonts.caption)
	dc.DrawStringAnchored("Issued "+t.IssuedAt.Format("2 January 2006"), 260, h-180, 0, 0.5)
	if t.TeacherName != "" {
		dc.DrawStringAnchored("Teacher: "+t.TeacherName, w-260, h-180, 1, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// processUploadedAvatar center-crops raw to a square, scales it to size and clips it to a circle.
func processUploadedAvatar(raw []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if side == 0 {
		return nil, fmt.Errorf("decode image: empty image")
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
