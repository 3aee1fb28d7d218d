package inspect

import (
	"errors"
	"net/http"
	"strconv"

	"feeguard-backend/internal/registry"
	"feeguard-backend/internal/repository/inspection"
	"feeguard-backend/internal/service/gascontext"
	"feeguard-backend/internal/service/inspector"
	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Handler 交易检查处理器
type Handler struct {
	inspectorSvc     inspector.Service
	contextSvc       gascontext.Service
	historyRepo      inspection.Repository
	registry         *registry.Registry
	defaultThreshold float64
}

// NewHandler 创建新的交易检查处理器
func NewHandler(inspectorSvc inspector.Service, contextSvc gascontext.Service, historyRepo inspection.Repository, reg *registry.Registry, defaultThreshold float64) *Handler {
	return &Handler{
		inspectorSvc:     inspectorSvc,
		contextSvc:       contextSvc,
		historyRepo:      historyRepo,
		registry:         reg,
		defaultThreshold: defaultThreshold,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 交易检查API组
	txGroup := router.Group("/tx")
	{
		// 对单笔交易执行手续费分类
		// GET /api/v1/tx/:hash?threshold_eth=0.01
		txGroup.GET("/:hash", h.InspectTransaction)

		// 交易gas价格相对近期行情的画像
		// GET /api/v1/tx/:hash/context
		txGroup.GET("/:hash/context", h.GasContext)
	}

	// 检查历史
	// GET /api/v1/inspections?limit=20&tx_hash=0x...
	router.GET("/inspections", h.GetInspections)

	// 链名称映射表
	// GET /api/v1/chain/list
	router.GET("/chain/list", h.GetChainLabels)
}

// InspectTransaction 对单笔交易执行完整的检查管道并返回报告
func (h *Handler) InspectTransaction(c *gin.Context) {
	hash := c.Param("hash")

	threshold := h.defaultThreshold
	if raw := c.Query("threshold_eth"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Error: &types.APIError{
					Code:    "INVALID_REQUEST",
					Message: "threshold_eth must be a non-negative number",
				},
			})
			return
		}
		threshold = parsed
	}

	report, err := h.inspectorSvc.Inspect(c.Request.Context(), hash, threshold)
	if err != nil {
		h.writeError(c, "InspectTransaction", err)
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    report,
	})
}

// GasContext 返回交易gas价格的上下文画像
func (h *Handler) GasContext(c *gin.Context) {
	hash := c.Param("hash")

	report, err := h.contextSvc.Profile(c.Request.Context(), hash)
	if err != nil {
		h.writeError(c, "GasContext", err)
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    report,
	})
}

// GetInspections 查询检查历史
func (h *Handler) GetInspections(c *gin.Context) {
	var req types.GetInspectionsRequest

	// 绑定查询参数
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Error("GetInspections BindQuery Error: ", err)
		c.JSON(http.StatusBadRequest, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "INVALID_REQUEST",
				Message: "Invalid query parameters",
				Details: err.Error(),
			},
		})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var (
		records []types.InspectionRecord
		total   int64
		err     error
	)
	if req.TxHash != nil && *req.TxHash != "" {
		records, total, err = h.historyRepo.ListByTxHash(c.Request.Context(), *req.TxHash, limit)
	} else {
		records, total, err = h.historyRepo.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		logger.Error("GetInspections Service Error: ", err)
		c.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to get inspections",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data: types.GetInspectionsResponse{
			Inspections: records,
			Total:       total,
		},
	})
}

// GetChainLabels 返回链名称映射表
func (h *Handler) GetChainLabels(c *gin.Context) {
	chains := h.registry.Labels()
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data: types.GetChainLabelsResponse{
			Chains: chains,
			Total:  len(chains),
		},
	})
}

// writeError 统一的服务层错误到HTTP响应的映射
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case types.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
	case errors.Is(err, types.ErrTxNotFound):
		c.JSON(http.StatusNotFound, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "TX_NOT_FOUND",
				Message: err.Error(),
			},
		})
	case types.IsConnectionError(err):
		logger.Error(op+" Upstream Error: ", err)
		c.JSON(http.StatusBadGateway, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "UPSTREAM_ERROR",
				Message: "RPC endpoint unreachable",
				Details: err.Error(),
			},
		})
	default:
		logger.Error(op+" Service Error: ", err)
		c.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Error: &types.APIError{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to inspect transaction",
				Details: err.Error(),
			},
		})
	}
}
