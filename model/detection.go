package model

// PixelBox 像素坐标边界框
type PixelBox struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// NormalizedBox 归一化的中心点边界框
type NormalizedBox struct {
	XCenter float64 `json:"x_center"`
	YCenter float64 `json:"y_center"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// DetectionRecord 单个检测对象
type DetectionRecord struct {
	ClassName     string         `json:"class_name"`
	ClassID       int            `json:"class_id"`
	Confidence    float64        `json:"confidence"`
	Box2D         PixelBox       `json:"box_2d"`
	NormalizedBox *NormalizedBox `json:"normalized_box,omitempty"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProcessingInfo 模型及部署信息
type ProcessingInfo struct {
	Model        string `json:"model"`
	Framework    string `json:"framework"`
	Deployment   string `json:"deployment,omitempty"`
	Optimization string `json:"optimization"`
}

// DetectionResponse 检测结果，DetectionCount 始终等于 len(Detections)
type DetectionResponse struct {
	Status          string            `json:"status,omitempty"`
	ImageName       string            `json:"image_name"`
	ImageDimensions ImageDimensions   `json:"image_dimensions"`
	Detections      []DetectionRecord `json:"detections"`
	DetectionCount  int               `json:"detection_count"`
	ProcessingInfo  *ProcessingInfo   `json:"processing_info,omitempty"`
}

// NewDetectionResponse 构造响应并维护 detection_count 不变量
func NewDetectionResponse(name string, width, height int, detections []DetectionRecord) *DetectionResponse {
	if detections == nil {
		detections = []DetectionRecord{}
	}
	return &DetectionResponse{
		ImageName:       name,
		ImageDimensions: ImageDimensions{Width: width, Height: height},
		Detections:      detections,
		DetectionCount:  len(detections),
	}
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// ClassesResponse 类别列表响应
type ClassesResponse struct {
	Classes      []string `json:"classes"`
	TotalClasses int      `json:"total_classes"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHealthy = "healthy"
)
