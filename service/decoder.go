//go:build !gocv
// +build !gocv

package service

import (
	"bytes"

	"github.com/disintegration/imaging"
)

type imagingDecoder struct{}

// NewDecoder 返回纯 Go 解码器（不依赖 OpenCV）
func NewDecoder() Decoder {
	return imagingDecoder{}
}

func (imagingDecoder) Decode(data []byte) (ImageDescriptor, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageDescriptor{}, ErrInvalidImageData(err)
	}
	return describe(img), nil
}
