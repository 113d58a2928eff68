package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder 将原始字节解码为 ImageDescriptor，失败时返回 KindInvalidImageData
type Decoder interface {
	Decode(data []byte) (ImageDescriptor, error)
}

// DecodeBase64Image 解码 base64 图片数据，支持 data:image/...;base64, 前缀
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return nil, ErrInvalidImageData(errors.New("data URL without payload"))
		}
		s = s[idx+1:]
	}
	if s == "" {
		return nil, ErrMissingInput("No image_data provided")
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err2 := enc.DecodeString(s); err2 == nil {
			return b, nil
		}
	}
	return nil, ErrInvalidImageData(err)
}

// ReadUpload 读取 multipart 上传文件
func ReadUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, ErrMissingInput("No image provided")
	}
	if fh.Filename == "" {
		return nil, ErrEmptyFilename()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, ErrInternal(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ErrInternal(fmt.Errorf("read upload: %w", err))
	}
	return data, nil
}

// describe 将任意图片转换为 RGB 等价的 NRGBA，丢弃 alpha 通道
func describe(img image.Image) ImageDescriptor {
	px := imaging.Clone(img)
	for i := 3; i < len(px.Pix); i += 4 {
		px.Pix[i] = 0xff
	}
	b := px.Bounds()
	return ImageDescriptor{Width: b.Dx(), Height: b.Dy(), Pixels: px}
}
