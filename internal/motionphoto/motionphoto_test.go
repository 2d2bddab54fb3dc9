package motionphoto

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeTestJPEG(t *testing.T, path string) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestAssembleLayout(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "in.jpg")
	vidPath := filepath.Join(dir, "in.mp4")
	outPath := filepath.Join(dir, "out.jpg")

	imgBytes := writeTestJPEG(t, imgPath)
	vidBytes := []byte("\x00\x00\x00\x18ftypmp42-fake-video-payload-MotionPhoto-test")
	if err := os.WriteFile(vidPath, vidBytes, 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	if err := Assemble(imgPath, vidPath, outPath); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	// Layout: SOI, APP1 XMP segment, rest of image, then the raw video.
	if out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatal("output does not start with SOI")
	}
	if out[2] != 0xFF || out[3] != 0xE1 {
		t.Fatal("APP1 marker not at offset 2")
	}
	segLen := int(binary.BigEndian.Uint16(out[4:6]))
	segEnd := 2 + 2 + 2 + segLen
	if !bytes.HasPrefix(out[6:], []byte("http://ns.adobe.com/xap/1.0/\x00")) {
		t.Fatal("APP1 payload missing adobe xmp header")
	}
	if !bytes.Equal(out[segEnd:segEnd+len(imgBytes)-2], imgBytes[2:]) {
		t.Fatal("image body not preserved after XMP segment")
	}
	if !bytes.Equal(out[len(out)-len(vidBytes):], vidBytes) {
		t.Fatal("video bytes not appended verbatim")
	}
	if len(out) != len(imgBytes)+4+segLen+len(vidBytes) {
		t.Fatalf("output size %d inconsistent with parts", len(out))
	}
}

func TestAssembleOffsetMatchesVideoPosition(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "in.jpg")
	vidPath := filepath.Join(dir, "in.mp4")
	outPath := filepath.Join(dir, "out.jpg")

	writeTestJPEG(t, imgPath)
	vidBytes := bytes.Repeat([]byte("v"), 1234)
	if err := os.WriteFile(vidPath, vidBytes, 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	if err := Assemble(imgPath, vidPath, outPath); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	marker := []byte("<GCamera:MicroVideoOffset>")
	i := bytes.Index(out, marker)
	if i < 0 {
		t.Fatal("MicroVideoOffset not found")
	}
	rest := string(out[i+len(marker):])
	offset, err := strconv.Atoi(rest[:strings.Index(rest, "<")])
	if err != nil {
		t.Fatalf("parse offset: %v", err)
	}
	if offset != len(out)-len(vidBytes) {
		t.Errorf("recorded offset %d, video actually starts at %d", offset, len(out)-len(vidBytes))
	}
}

func TestAssembleTranscodesPNG(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "in.png")
	vidPath := filepath.Join(dir, "in.mp4")
	outPath := filepath.Join(dir, "out.jpg")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(imgPath, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	if err := os.WriteFile(vidPath, []byte("tiny-video"), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	if err := Assemble(imgPath, vidPath, outPath); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatal("transcoded output is not a jpeg")
	}
}

func TestAssembleInvalidImageLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "in.jpg")
	vidPath := filepath.Join(dir, "in.mp4")
	outPath := filepath.Join(dir, "out.jpg")

	if err := os.WriteFile(imgPath, []byte("not an image at all"), 0644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := os.WriteFile(vidPath, []byte("video"), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	if err := Assemble(imgPath, vidPath, outPath); err == nil {
		t.Fatal("expected error for undecodable image")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("invalid output file left behind")
	}
}
