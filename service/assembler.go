package service

import "github.com/Saideva9826/YOLO/model"

// AssembleOptions 控制记录的输出形式
type AssembleOptions struct {
	// IncludeNormalized 附带 normalized_box，并将置信度保留 3 位、坐标保留 4 位小数
	IncludeNormalized bool
}

// Assemble 由原始检测结果构造检测记录
func Assemble(det RawDetection, catalog *Catalog, imageWidth, imageHeight int, opts AssembleOptions) model.DetectionRecord {
	rec := model.DetectionRecord{
		ClassName:  catalog.Lookup(det.ClassID),
		ClassID:    det.ClassID,
		Confidence: det.Confidence,
		Box2D:      ToPixelBox(det.CenterX, det.CenterY, det.Width, det.Height, imageWidth, imageHeight),
	}

	if opts.IncludeNormalized {
		rec.Confidence = roundTo(det.Confidence, 3)
		rec.NormalizedBox = &model.NormalizedBox{
			XCenter: roundTo(det.CenterX, 4),
			YCenter: roundTo(det.CenterY, 4),
			Width:   roundTo(det.Width, 4),
			Height:  roundTo(det.Height, 4),
		}
	}

	return rec
}

// AssembleAll 按输入顺序构造全部记录
func AssembleAll(dets []RawDetection, catalog *Catalog, imageWidth, imageHeight int, opts AssembleOptions) []model.DetectionRecord {
	records := make([]model.DetectionRecord, 0, len(dets))
	for _, d := range dets {
		records = append(records, Assemble(d, catalog, imageWidth, imageHeight, opts))
	}
	return records
}
