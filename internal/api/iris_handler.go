package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/controller"
	"github.com/taoyao-code/iris-gateway/internal/logging"
	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
	"github.com/taoyao-code/iris-gateway/internal/storage/pg"
	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

// HistorySource 指令日志查询（pg.Repository 实现）
type HistorySource interface {
	ListRecent(ctx context.Context, limit int) ([]pg.CommandLog, error)
}

// IrisHandler Iris 遥控 API
type IrisHandler struct {
	ctrl    *controller.Controller
	history HistorySource
	logger  *zap.Logger
}

// NewIrisHandler 创建处理器，history 可为 nil（未启用数据库）
func NewIrisHandler(ctrl *controller.Controller, history HistorySource, logger *zap.Logger) *IrisHandler {
	return &IrisHandler{ctrl: ctrl, history: history, logger: logging.OrNop(logger)}
}

// CatalogItem 指令或区域
type CatalogItem struct {
	Name  string `json:"name"`
	Value uint8  `json:"value"`
}

// CatalogResponse 指令目录
type CatalogResponse struct {
	Address  string        `json:"address"`
	Repeat   uint32        `json:"repeat"`
	Sink     string        `json:"sink"`
	Commands []CatalogItem `json:"commands"`
	Modes    []CatalogItem `json:"modes"`
}

// FrameRequest 构建帧请求
type FrameRequest struct {
	Address string `json:"address"`                    // 可选，默认使用网关配置的地址
	Command string `json:"command" binding:"required"` // 如 POWER
	Mode    string `json:"mode" binding:"required"`    // POOL | SPA | POOLSPA
}

// FrameResponse 帧与波形
type FrameResponse struct {
	Address    string             `json:"address"`
	Command    string             `json:"command"`
	Mode       string             `json:"mode"`
	Frame      string             `json:"frame"`
	Checksum   string             `json:"checksum"`
	Pulses     iris.PulseSequence `json:"pulses"`
	DurationUS int64              `json:"duration_us"`
}

// CommandRequest 发送指令请求
type CommandRequest struct {
	Command string  `json:"command" binding:"required"`
	Mode    string  `json:"mode" binding:"required"`
	Repeat  *uint32 `json:"repeat"` // 额外重发次数，缺省使用配置值
}

// DecodeRequest 解码请求
type DecodeRequest struct {
	Format string  `json:"format"` // pairs（默认）| raw
	Pulses []int32 `json:"pulses" binding:"required"`
}

// DecodedFrame 解码结果
type DecodedFrame struct {
	Address string `json:"address"`
	Command string `json:"command"`
	Mode    string `json:"mode"`
	Frame   string `json:"frame"`
}

// DecodeError 解码失败详情
type DecodeError struct {
	Reason string `json:"reason"`          // timing | truncated | checksum | error
	Index  *int   `json:"index,omitempty"` // 出错的时长对或原始段下标
	Frame  string `json:"frame,omitempty"` // 校验失败时已解出的帧
}

// Catalog 指令目录
// @Summary 指令目录
// @Description 列出支持的指令、区域以及当前发送配置
// @Tags Iris
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StandardResponse{data=CatalogResponse}
// @Router /api/v1/iris/catalog [get]
func (h *IrisHandler) Catalog(c *gin.Context) {
	d := h.ctrl.Describe()
	resp := CatalogResponse{Address: d.Address, Repeat: d.Repeat, Sink: d.Sink}
	for _, cmd := range iris.Commands() {
		resp.Commands = append(resp.Commands, CatalogItem{Name: cmd.String(), Value: uint8(cmd)})
	}
	for _, m := range iris.Modes() {
		resp.Modes = append(resp.Modes, CatalogItem{Name: m.String(), Value: uint8(m)})
	}
	respondOK(c, "ok", resp)
}

// BuildFrame 构建帧与波形，不发送
// @Summary 构建帧
// @Description 按地址、指令、区域生成 12 字节帧及游程累加后的波形
// @Tags Iris
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body FrameRequest true "帧参数"
// @Success 200 {object} StandardResponse{data=FrameResponse}
// @Failure 400 {object} StandardResponse "参数错误"
// @Router /api/v1/iris/frames [post]
func (h *IrisHandler) BuildFrame(c *gin.Context) {
	var req FrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error(), nil)
		return
	}
	cmd, mode, err := parseCommandMode(req.Command, req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var (
		frame iris.Frame
		seq   iris.PulseSequence
	)
	if strings.TrimSpace(req.Address) == "" {
		frame, seq = h.ctrl.Encode(cmd, mode)
	} else {
		addr, err := iris.ParseAddress(req.Address)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		frame = iris.BuildFrame(addr, cmd, mode)
		seq = iris.Modulate(frame)
	}
	respondOK(c, "ok", FrameResponse{
		Address:    iris.FormatAddress(frame.Address()),
		Command:    cmd.String(),
		Mode:       mode.String(),
		Frame:      frame.String(),
		Checksum:   fmt.Sprintf("0x%02X", frame.Checksum()),
		Pulses:     seq,
		DurationUS: seq.Duration(),
	})
}

// SendCommand 发送指令
// @Summary 发送指令
// @Description 编码并交给发送通道，重复发送 repeat+1 次
// @Tags Iris
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CommandRequest true "指令"
// @Success 200 {object} StandardResponse{data=controller.SendResult}
// @Failure 400 {object} StandardResponse "参数错误"
// @Failure 429 {object} StandardResponse "线路繁忙"
// @Failure 502 {object} StandardResponse "发送失败"
// @Router /api/v1/iris/commands [post]
func (h *IrisHandler) SendCommand(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error(), nil)
		return
	}
	cmd, mode, err := parseCommandMode(req.Command, req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	res, err := h.ctrl.Send(c.Request.Context(), cmd, mode, req.Repeat)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, transmit.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		h.logger.Warn("send command failed",
			zap.String("cmd", cmd.String()),
			zap.String("mode", mode.String()),
			zap.Error(err))
		respondError(c, status, err.Error(), nil)
		return
	}
	respondOK(c, "指令已发送", res)
}

// Decode 解码一段时长列表
// @Summary 解码
// @Description pairs 格式按 mark/space 对解调；raw 格式展开原始波形并查找所有有效帧
// @Tags Iris
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body DecodeRequest true "时长列表"
// @Success 200 {object} StandardResponse{data=[]DecodedFrame}
// @Failure 422 {object} StandardResponse{data=DecodeError} "解码失败"
// @Router /api/v1/iris/decode [post]
func (h *IrisHandler) Decode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error(), nil)
		return
	}

	var frames []iris.Frame
	switch strings.ToLower(req.Format) {
	case "", "pairs":
		d, err := iris.Demodulate(req.Pulses)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, err.Error(), describeDecodeError(err))
			return
		}
		frames = append(frames, d.Frame)
	case "raw":
		found, err := iris.DecodeCapture(req.Pulses, h.ctrl.Tolerance())
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, err.Error(), describeDecodeError(err))
			return
		}
		frames = found
	default:
		respondError(c, http.StatusBadRequest, "unknown format "+strconv.Quote(req.Format), nil)
		return
	}

	out := make([]DecodedFrame, 0, len(frames))
	for _, f := range frames {
		out = append(out, DecodedFrame{
			Address: iris.FormatAddress(f.Address()),
			Command: f.Command().String(),
			Mode:    f.Mode().String(),
			Frame:   f.String(),
		})
	}
	respondOK(c, "ok", out)
}

// History 最近的指令日志
// @Summary 指令日志
// @Description 按时间倒序返回最近的收发记录（需要启用数据库）
// @Tags Iris
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数，默认50，最大500"
// @Success 200 {object} StandardResponse{data=[]pg.CommandLog}
// @Failure 503 {object} StandardResponse "未启用数据库"
// @Router /api/v1/iris/history [get]
func (h *IrisHandler) History(c *gin.Context) {
	if h.history == nil {
		respondError(c, http.StatusServiceUnavailable, "command log disabled", nil)
		return
	}
	limit := pg.DefaultListLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = pg.ClampLimit(n)
	}
	logs, err := h.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list command log failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "查询失败", nil)
		return
	}
	if logs == nil {
		logs = []pg.CommandLog{}
	}
	respondOK(c, "ok", logs)
}

func parseCommandMode(cmdName, modeName string) (iris.Command, iris.Mode, error) {
	cmd, err := iris.ParseCommand(cmdName)
	if err != nil {
		return 0, 0, err
	}
	mode, err := iris.ParseMode(modeName)
	if err != nil {
		return 0, 0, err
	}
	return cmd, mode, nil
}

func describeDecodeError(err error) DecodeError {
	out := DecodeError{Reason: controller.DecodeResult(err)}
	var te *iris.TimingError
	var ce *iris.ChecksumError
	var capErr *iris.CaptureError
	switch {
	case errors.As(err, &te):
		out.Index = &te.Index
	case errors.As(err, &capErr):
		out.Index = &capErr.Index
	case errors.As(err, &ce):
		out.Frame = ce.Frame.String()
	}
	return out
}
