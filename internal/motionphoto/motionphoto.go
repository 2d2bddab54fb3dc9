// Package motionphoto assembles Google Motion Photo files: a JPEG with an
// APP1 XMP segment describing an MP4 appended after the image data.
package motionphoto

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"

	"xhs-downloader-go/internal/logger"
)

const (
	jpegQuality    = 95
	validateWindow = 16384
)

// Assemble embeds the video into the image and writes the combined Motion
// Photo to outputPath. The image is transcoded to JPEG first if it is not one
// already. On any failure, including a result that fails validation, no
// output file is left behind.
func Assemble(imagePath, videoPath, outputPath string) error {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	videoBytes, err := os.ReadFile(videoPath)
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}

	imageBytes, err = ensureJPEG(imageBytes)
	if err != nil {
		return fmt.Errorf("prepare image: %w", err)
	}
	if len(imageBytes) < 2 || imageBytes[0] != 0xFF || imageBytes[1] != 0xD8 {
		return fmt.Errorf("image is not a jpeg")
	}

	// The XMP records the video's byte offset, but inserting the XMP moves
	// that offset. Rebuild until the segment length stops changing; the
	// offset's digit count can shift once, so this settles within two passes.
	offset := len(imageBytes)
	segment := app1Segment(xmpDocument(len(videoBytes), offset))
	for {
		next := len(imageBytes) + len(segment)
		if next == offset {
			break
		}
		offset = next
		segment = app1Segment(xmpDocument(len(videoBytes), offset))
	}

	out := make([]byte, 0, len(imageBytes)+len(segment)+len(videoBytes))
	out = append(out, imageBytes[:2]...)
	out = append(out, segment...)
	out = append(out, imageBytes[2:]...)
	out = append(out, videoBytes...)

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := validate(outputPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("validate output: %w", err)
	}
	logger.Debug("assembled motion photo", "path", outputPath, "size", len(out))
	return nil
}

// ensureJPEG returns the bytes unchanged for a JPEG input and re-encodes any
// other decodable format (png, gif, webp) to JPEG.
func ensureJPEG(data []byte) ([]byte, error) {
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// validate checks the written file the way a gallery app would: JPEG SOI,
// the XMP markers somewhere in the first 16KB, and decodable dimensions.
func validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, validateWindow)
	n, err := f.Read(head)
	if err != nil && n < 2 {
		return fmt.Errorf("read header: %w", err)
	}
	head = head[:n]

	if len(head) < 2 || head[0] != 0xFF || head[1] != 0xD8 {
		return fmt.Errorf("missing jpeg soi marker")
	}
	if !bytes.Contains(head, []byte("xmpmeta")) || !bytes.Contains(head, []byte("MotionPhoto")) {
		return fmt.Errorf("missing motion photo xmp metadata")
	}

	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}
