package page

import (
	"image"
	"image/color"
	"testing"
)

func markedImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255}) // top-left marker
	return img
}

func TestRotationJobQuarterTurn(t *testing.T) {
	job := &RotationJob{
		PageNumber: 0,
		ObserverID: 1,
		Source:     markedImage(4, 2),
		From:       Rotation0,
		To:         Rotation90,
	}
	out := job.Run()
	if out.Width() != 2 || out.Height() != 4 {
		t.Fatalf("rotated size %dx%d, want 2x4", out.Width(), out.Height())
	}
	// Clockwise: the top-left marker ends up at the top-right corner.
	r, _, _, _ := out.Image().At(1, 0).RGBA()
	if r == 0 {
		t.Fatalf("marker not found at top-right after 90 degree turn")
	}
}

func TestRotationJobHalfTurn(t *testing.T) {
	job := &RotationJob{Source: markedImage(3, 3), From: Rotation0, To: Rotation180}
	out := job.Run()
	if out.Width() != 3 || out.Height() != 3 {
		t.Fatalf("size must be preserved for 180 degrees")
	}
	r, _, _, _ := out.Image().At(2, 2).RGBA()
	if r == 0 {
		t.Fatalf("marker not found at bottom-right after 180 degree turn")
	}
}

func TestRotationJobNoop(t *testing.T) {
	job := &RotationJob{Source: markedImage(2, 2), From: Rotation90, To: Rotation90}
	out := job.Run()
	r, _, _, _ := out.Image().At(0, 0).RGBA()
	if r == 0 {
		t.Fatalf("identity rotation should keep the marker in place")
	}
}
