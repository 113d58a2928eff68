//go:build gocv
// +build gocv

package service

import (
	"errors"

	"gocv.io/x/gocv"
)

type gocvDecoder struct{}

// NewDecoder 返回基于 OpenCV 的解码器
func NewDecoder() Decoder {
	return gocvDecoder{}
}

func (gocvDecoder) Decode(data []byte) (ImageDescriptor, error) {
	// IMReadColor 统一解码为 3 通道 BGR，灰度和带 alpha 的图片在此归一化
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return ImageDescriptor{}, ErrInvalidImageData(err)
	}
	defer mat.Close()

	if mat.Empty() {
		return ImageDescriptor{}, ErrInvalidImageData(errors.New("cannot identify image data"))
	}

	img, err := mat.ToImage()
	if err != nil {
		return ImageDescriptor{}, ErrInvalidImageData(err)
	}
	return describe(img), nil
}
