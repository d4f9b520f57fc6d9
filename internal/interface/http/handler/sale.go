package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsale "github.com/xiebiao/bookpos/internal/application/sale"
	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/internal/interface/http/dto"
	"github.com/xiebiao/bookpos/internal/interface/http/middleware"
	"github.com/xiebiao/bookpos/pkg/logger"
	"github.com/xiebiao/bookpos/pkg/response"
)

// SaleHandler 销售HTTP处理器
type SaleHandler struct {
	sellBookUseCase  *appsale.SellBookUseCase
	dashboardUseCase *appsale.DashboardUseCase
	sessionStore     *redis.SessionStore
}

// NewSaleHandler 创建销售处理器
func NewSaleHandler(
	sellBookUseCase *appsale.SellBookUseCase,
	dashboardUseCase *appsale.DashboardUseCase,
	sessionStore *redis.SessionStore,
) *SaleHandler {
	return &SaleHandler{
		sellBookUseCase:  sellBookUseCase,
		dashboardUseCase: dashboardUseCase,
		sessionStore:     sessionStore,
	}
}

// Dashboard 首页看板
// @Summary      首页看板
// @Tags         销售
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Router       / [get]
func (h *SaleHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"username":           middleware.GetUsername(c),
		"total_books":        result.TotalBooks,
		"low_stock_count":    result.LowStockCount,
		"today_revenue":      result.TodayRevenue,
		"today_revenue_yuan": dto.FormatPriceYuan(result.TodayRevenue),
		"latest_books":       dto.ToBookResponses(result.LatestBooks),
		"flashes":            h.popFlashes(c),
	})
}

// SellBook 卖书
// 数量缺省按1处理；库存不足时提示并保持库存不变
// @Summary      卖书
// @Tags         销售
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        id path int true "图书ID"
// @Param        quantity formData int false "数量（默认1）"
// @Success      303 "售出成功，跳转到库存页"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /sell_book/{id} [post]
func (h *SaleHandler) SellBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form dto.SellForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, "danger", "数量必须是正整数", "/inventory")
		return
	}
	quantity := form.Quantity
	if quantity == 0 {
		quantity = 1
	}

	result, err := h.sellBookUseCase.Execute(c.Request.Context(), appsale.SellBookRequest{
		BookID:   id,
		Quantity: quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, book.ErrBookNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, err)
		case errors.Is(err, book.ErrInsufficientStock):
			h.flashAndRedirect(c, "danger", "库存不足，无法售出", "/inventory")
		case errors.Is(err, book.ErrInvalidQuantity):
			h.flashAndRedirect(c, "danger", "数量必须是正整数", "/inventory")
		default:
			response.Error(c, err)
		}
		return
	}

	h.flashAndRedirect(c, "success",
		fmt.Sprintf("《%s》售出%d本，剩余库存%d", result.BookTitle, result.Sale.Quantity, result.Stock),
		"/inventory")
}

// flashAndRedirect 写入提示消息并303跳转
func (h *SaleHandler) flashAndRedirect(c *gin.Context, category, message, location string) {
	userID := middleware.MustGetUserID(c)
	if err := h.sessionStore.PushFlash(c.Request.Context(), userID, category, message); err != nil {
		logger.L.Warn("写入提示消息失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, location)
}

// popFlashes 取出当前用户待展示的提示消息
func (h *SaleHandler) popFlashes(c *gin.Context) []redis.Flash {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return nil
	}
	flashes, err := h.sessionStore.PopFlashes(c.Request.Context(), userID)
	if err != nil {
		logger.L.Warn("读取提示消息失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	return flashes
}
