package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const noImageMessage = "No image provided. Please upload an image file or provide base64 image data."

// jsonEnvelope JSON 字段名、image_name 和 data URL 前缀的余量
const jsonEnvelope = 4 << 10

var errTooLarge = errors.New("file exceeds upload size limit")

// jsonBodyLimit base64 编码后体积为原始数据的 4/3
func jsonBodyLimit(maxSize int64) int64 {
	return (maxSize+2)/3*4 + jsonEnvelope
}

// analyzeRequest JSON 请求体，也用于 Lambda 事件
type analyzeRequest struct {
	ImageData string `json:"image_data"`
	ImageName string `json:"image_name"`
}

type AnalyzeHandler struct {
	cfg      *config.Config
	pipeline *service.Pipeline
}

func NewAnalyzeHandler(cfg *config.Config, pipeline *service.Pipeline) *AnalyzeHandler {
	return &AnalyzeHandler{
		cfg:      cfg,
		pipeline: pipeline,
	}
}

// Analyze 处理 multipart 上传或 JSON base64 图片
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	name, data, err := h.readInput(c)
	if err != nil {
		utils.Logger.Warn("invalid analyze request", zap.Error(err))
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	result, err := h.pipeline.Analyze(c.Request.Context(), name, data)
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyzeHandler) readInput(c *gin.Context) (string, []byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return h.readUpload(c)
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, jsonBodyLimit(h.cfg.Upload.MaxSize))

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, service.ErrInvalidImageData(errTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return "", nil, service.ErrMissingInput(noImageMessage)
		}
		return "", nil, service.ErrMissingInput("Invalid JSON body: " + err.Error())
	}
	if req.ImageData == "" {
		return "", nil, service.ErrMissingInput(noImageMessage)
	}

	data, err := service.DecodeBase64Image(req.ImageData)
	if err != nil {
		return "", nil, err
	}

	name := req.ImageName
	if name == "" {
		name = h.cfg.Upload.DefaultImageName
	}
	return name, data, nil
}

func (h *AnalyzeHandler) readUpload(c *gin.Context) (string, []byte, error) {
	field := h.cfg.Upload.FieldName
	file, err := c.FormFile(field)
	if err != nil {
		// 文件名为空的 part 会被解析为普通表单值
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value[field]; ok {
				return "", nil, service.ErrEmptyFilename()
			}
		}
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, service.ErrMissingInput(noImageMessage)
		}
		return "", nil, service.ErrInvalidImageData(err)
	}

	if file.Size > h.cfg.Upload.MaxSize {
		return "", nil, service.ErrInvalidImageData(errTooLarge)
	}

	data, err := service.ReadUpload(file)
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}

// Health 健康检查
func (h *AnalyzeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:  model.StatusHealthy,
		Model:   h.cfg.Detector.Model,
		Version: h.cfg.Detector.Version,
	})
}

// Classes 返回可识别的类别
func (h *AnalyzeHandler) Classes(c *gin.Context) {
	catalog := h.pipeline.Catalog()
	c.JSON(http.StatusOK, model.ClassesResponse{
		Classes:      catalog.Names(),
		TotalClasses: catalog.Len(),
	})
}
