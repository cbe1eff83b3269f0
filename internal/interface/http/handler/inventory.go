package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/cafearoma/internal/application/inventory"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/interface/http/dto"
	"github.com/xiebiao/cafearoma/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/response"
)

// InventoryHandler 库存HTTP处理器
// 入库、出库、新增商品都以命令执行，撤销和历史按当前会话隔离
type InventoryHandler struct {
	commandUseCase   *appinventory.CommandUseCase
	dashboardUseCase *appinventory.DashboardUseCase
	reportUseCase    *appinventory.ReportUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(
	commandUseCase *appinventory.CommandUseCase,
	dashboardUseCase *appinventory.DashboardUseCase,
	reportUseCase *appinventory.ReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		commandUseCase:   commandUseCase,
		dashboardUseCase: dashboardUseCase,
		reportUseCase:    reportUseCase,
	}
}

// Dashboard 库存看板
// @Summary      库存看板
// @Description  全部商品、需要补货的商品和当前会话的命令历史
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appinventory.Dashboard}
// @Failure      200 {object} response.Response "40100未登录 / 40105会话已过期"
// @Router       /api/v1/inventory [get]
func (h *InventoryHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUseCase.Execute(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem 商品详情
// @Summary      商品详情
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        sku path string true "SKU"
// @Success      200 {object} response.Response{data=appinventory.ItemView}
// @Failure      200 {object} response.Response "40402商品不存在"
// @Router       /api/v1/inventory/items/{sku} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	result, err := h.dashboardUseCase.Item(c.Request.Context(), c.Param("sku"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// LowStock 需要补货的商品
// @Summary      需要补货的商品
// @Description  当前库存小于等于最低库存的商品
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData{list=[]appinventory.ItemView}}
// @Router       /api/v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.dashboardUseCase.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, items, len(items))
}

// AddStock 入库
// @Summary      入库
// @Description  增加商品库存，可撤销
// @Tags         库存命令
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.StockRequest true "入库信息"
// @Success      200 {object} response.Response{data=appinventory.CommandResult}
// @Failure      200 {object} response.Response "40900参数错误 / 40402商品不存在"
// @Router       /api/v1/inventory/stock/add [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.commandUseCase.AddStock(c.Request.Context(), appinventory.StockRequest{
		SessionID: middleware.GetSessionID(c),
		SKU:       req.SKU,
		Kg:        req.Kg,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result)
}

// ConsumeStock 出库
// @Summary      出库
// @Description  扣减商品库存，库存不足时拒绝，可撤销
// @Tags         库存命令
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.StockRequest true "出库信息"
// @Success      200 {object} response.Response{data=appinventory.CommandResult}
// @Failure      200 {object} response.Response "40001库存不足 / 40402商品不存在"
// @Router       /api/v1/inventory/stock/consume [post]
func (h *InventoryHandler) ConsumeStock(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.commandUseCase.ConsumeStock(c.Request.Context(), appinventory.StockRequest{
		SessionID: middleware.GetSessionID(c),
		SKU:       req.SKU,
		Kg:        req.Kg,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result)
}

// AddProduct 新增商品
// @Summary      新增商品
// @Description  新增库存商品，撤销时删除该商品
// @Tags         库存命令
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ProductRequest true "商品信息"
// @Success      200 {object} response.Response{data=appinventory.CommandResult}
// @Failure      200 {object} response.Response "40900参数错误 / 40004SKU已存在"
// @Router       /api/v1/inventory/products [post]
func (h *InventoryHandler) AddProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.commandUseCase.AddProduct(c.Request.Context(), appinventory.ProductRequest{
		SessionID:  middleware.GetSessionID(c),
		SKU:        req.SKU,
		Name:       req.Name,
		GrainType:  inventory.GrainType(req.GrainType),
		StockKg:    req.StockKg,
		MinStockKg: req.MinStockKg,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result)
}

// Undo 撤销最近一条命令
// @Summary      撤销
// @Description  撤销当前会话最近执行的命令；没有可撤销的命令或记录无法撤销时只返回提示
// @Tags         库存命令
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appinventory.CommandResult}
// @Router       /api/v1/inventory/undo [post]
func (h *InventoryHandler) Undo(c *gin.Context) {
	result, err := h.commandUseCase.Undo(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result)
}

// History 命令历史
// @Summary      命令历史
// @Description  当前会话的命令历史，按执行顺序，最后一条是下一次撤销的对象
// @Tags         库存命令
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData{list=[]appinventory.HistoryEntry}}
// @Router       /api/v1/inventory/history [get]
func (h *InventoryHandler) History(c *gin.Context) {
	entries, err := h.commandUseCase.History(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, entries, len(entries))
}

// ClearHistory 清空命令历史
// @Summary      清空命令历史
// @Description  清空后之前的命令不能再撤销，库存不变
// @Tags         库存命令
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/inventory/history [delete]
func (h *InventoryHandler) ClearHistory(c *gin.Context) {
	if err := h.commandUseCase.ClearHistory(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "命令历史已清空", nil)
}

// Report 下载库存报表
// @Summary      库存报表
// @Description  CSV格式，包含商品明细和汇总
// @Tags         库存
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /api/v1/inventory/report [get]
func (h *InventoryHandler) Report(c *gin.Context) {
	// 先写入缓冲区，生成失败时还能返回JSON错误
	var buf bytes.Buffer
	if err := h.reportUseCase.Generate(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.reportUseCase.Filename()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
