package handler

import (
	"net/http"

	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"go.uber.org/zap"
)

const invalidImageMessage = "Failed to process image. Please ensure the image is valid."

// errorResponse 将处理错误映射为 HTTP 状态码和错误响应。
// 输入或解码错误为 400，其余为 500 且不暴露内部细节。
func errorResponse(err error) (int, model.ErrorResponse) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindMissingInput, service.KindEmptyFilename:
		return http.StatusBadRequest, model.ErrorResponse{
			Status: model.StatusError,
			Error:  err.Error(),
		}
	case service.KindInvalidImageData, service.KindInvalidAnnotationLine:
		return http.StatusBadRequest, model.ErrorResponse{
			Status:  model.StatusError,
			Error:   err.Error(),
			Message: invalidImageMessage,
		}
	case service.KindInternal:
		utils.Logger.Error("internal failure", zap.Error(err))
		return http.StatusInternalServerError, model.ErrorResponse{
			Status:  model.StatusError,
			Error:   "Internal server error",
			Message: invalidImageMessage,
		}
	default:
		utils.Logger.Error("unknown error kind", zap.Stringer("kind", kind), zap.Error(err))
		return http.StatusInternalServerError, model.ErrorResponse{
			Status: model.StatusError,
			Error:  "Internal server error",
		}
	}
}
