package service

import "strconv"

// cocoClasses COCO 数据集的 80 个类别
var cocoClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck",
	"boat", "traffic light", "fire hydrant", "stop sign", "parking meter", "bench",
	"bird", "cat", "dog", "horse", "sheep", "cow", "elephant", "bear", "zebra",
	"giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup",
	"fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// Catalog 只读的类别表，下标即类别ID
type Catalog struct {
	names []string
}

func NewCatalog(names []string) *Catalog {
	return &Catalog{names: append([]string(nil), names...)}
}

// COCOCatalog 所有适配器共用的类别表
func COCOCatalog() *Catalog {
	return NewCatalog(cocoClasses)
}

// Lookup 返回类别名，越界时返回 class_<id>
func (c *Catalog) Lookup(id int) string {
	if id >= 0 && id < len(c.names) {
		return c.names[id]
	}
	return "class_" + strconv.Itoa(id)
}

// Names 返回类别名副本
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Catalog) Len() int {
	return len(c.names)
}
