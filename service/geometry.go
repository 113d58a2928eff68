package service

import (
	"math"

	"github.com/Saideva9826/YOLO/model"
)

// ToPixelBox 将归一化中心点框转换为像素框。
// 使用 floor 截断，不裁剪到图像范围内。
func ToPixelBox(centerX, centerY, width, height float64, imageWidth, imageHeight int) model.PixelBox {
	w := float64(imageWidth)
	h := float64(imageHeight)
	return model.PixelBox{
		XMin: int(math.Floor((centerX - width/2) * w)),
		YMin: int(math.Floor((centerY - height/2) * h)),
		XMax: int(math.Floor((centerX + width/2) * w)),
		YMax: int(math.Floor((centerY + height/2) * h)),
	}
}

// ToNormalizedBox ToPixelBox 的逆变换，精度受截断影响（每边最多 1 像素）
func ToNormalizedBox(box model.PixelBox, imageWidth, imageHeight int) model.NormalizedBox {
	w := float64(imageWidth)
	h := float64(imageHeight)
	if w == 0 || h == 0 {
		return model.NormalizedBox{}
	}
	return model.NormalizedBox{
		XCenter: float64(box.XMin+box.XMax) / 2 / w,
		YCenter: float64(box.YMin+box.YMax) / 2 / h,
		Width:   float64(box.XMax-box.XMin) / w,
		Height:  float64(box.YMax-box.YMin) / h,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
