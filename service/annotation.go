package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// AnnotationWarning 被跳过的标注行
type AnnotationWarning struct {
	Line int
	Text string
	Err  error
}

func (w AnnotationWarning) String() string {
	return fmt.Sprintf("line %d: %v", w.Line, w.Err)
}

// ParseAnnotationLine 解析一行 YOLO 标注：
// class_id center_x center_y width height [confidence]
func ParseAnnotationLine(line string) (RawDetection, error) {
	parts := strings.Fields(line)
	if len(parts) < 5 {
		return RawDetection{}, invalidLine(line, errors.New("expected at least 5 fields"))
	}

	classID, err := strconv.Atoi(parts[0])
	if err != nil {
		return RawDetection{}, invalidLine(line, err)
	}
	if classID < 0 {
		return RawDetection{}, invalidLine(line, fmt.Errorf("negative class id %d", classID))
	}

	values := [5]float64{0, 0, 0, 0, 1.0}
	for i := 1; i < len(parts) && i <= 5; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return RawDetection{}, invalidLine(line, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return RawDetection{}, invalidLine(line, fmt.Errorf("non-finite value %q", parts[i]))
		}
		values[i-1] = v
	}

	return RawDetection{
		ClassID:    classID,
		CenterX:    values[0],
		CenterY:    values[1],
		Width:      values[2],
		Height:     values[3],
		Confidence: values[4],
	}, nil
}

func invalidLine(line string, err error) error {
	return newError(KindInvalidAnnotationLine, err, "Invalid YOLO format line: %s", strings.TrimSpace(line))
}

// MaxAnnotationLine 单行标注的最大字节数，超出部分丢弃并记为警告
const MaxAnnotationLine = 4096

// ReadAnnotations 逐行读取标注。格式错误或超长的行被跳过并作为警告返回，
// 仅读取失败时返回错误。
func ReadAnnotations(r io.Reader) ([]RawDetection, []AnnotationWarning, error) {
	var (
		dets     []RawDetection
		warnings []AnnotationWarning
	)

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read annotations: %w", err)
		}
		lineNo++

		line := strings.TrimSpace(raw)
		if tooLong {
			line = line[:min(len(line), 64)]
			warnings = append(warnings, AnnotationWarning{
				Line: lineNo,
				Text: line + "...",
				Err:  newError(KindInvalidAnnotationLine, nil, "Invalid YOLO format line: longer than %d bytes", MaxAnnotationLine),
			})
			continue
		}
		if line == "" {
			continue
		}

		det, err := ParseAnnotationLine(line)
		if err != nil {
			warnings = append(warnings, AnnotationWarning{Line: lineNo, Text: line, Err: err})
			continue
		}
		dets = append(dets, det)
	}

	return dets, warnings, nil
}

// readLine 读取一整行，最多保留 MaxAnnotationLine 字节，其余部分读出后丢弃
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxAnnotationLine {
				tooLong = true
				buf = append(buf, chunk[:MaxAnnotationLine-len(buf)]...)
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
