package handler

import (
	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/bookpos/internal/application/sale"
	"github.com/xiebiao/bookpos/internal/interface/http/dto"
	"github.com/xiebiao/bookpos/pkg/response"
)

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	transactionsUseCase *appsale.TransactionsUseCase
	reportsUseCase      *appsale.ReportsUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(
	transactionsUseCase *appsale.TransactionsUseCase,
	reportsUseCase *appsale.ReportsUseCase,
) *ReportHandler {
	return &ReportHandler{
		transactionsUseCase: transactionsUseCase,
		reportsUseCase:      reportsUseCase,
	}
}

// Transactions 交易流水页
// @Summary      交易流水
// @Tags         报表
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Router       /transactions [get]
func (h *ReportHandler) Transactions(c *gin.Context) {
	records, err := h.transactionsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"sales": dto.ToSaleRecordResponses(records),
	})
}

// Reports 销售报表页
// @Summary      销售报表
// @Tags         报表
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Router       /reports [get]
func (h *ReportHandler) Reports(c *gin.Context) {
	result, err := h.reportsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"total_revenue":      result.TotalRevenue,
		"total_revenue_yuan": dto.FormatPriceYuan(result.TotalRevenue),
		"top_sellers":        dto.ToTopSellerResponses(result.TopSellers),
	})
}
