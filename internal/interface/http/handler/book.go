package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookpos/internal/application/book"
	"github.com/xiebiao/bookpos/internal/domain/book"
	"github.com/xiebiao/bookpos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookpos/internal/interface/http/dto"
	"github.com/xiebiao/bookpos/internal/interface/http/middleware"
	"github.com/xiebiao/bookpos/pkg/logger"
	"github.com/xiebiao/bookpos/pkg/response"
)

// BookHandler 图书HTTP处理器
// 变更类操作（新增/编辑/删除）遵循POST-Redirect-GET：
// 先写入flash提示，再303跳转到列表页
type BookHandler struct {
	addBookUseCase    *appbook.AddBookUseCase
	editBookUseCase   *appbook.EditBookUseCase
	getBookUseCase    *appbook.GetBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
	inventoryUseCase  *appbook.InventoryUseCase
	searchUseCase     *appbook.SearchUseCase
	sessionStore      *redis.SessionStore
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addBookUseCase *appbook.AddBookUseCase,
	editBookUseCase *appbook.EditBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	inventoryUseCase *appbook.InventoryUseCase,
	searchUseCase *appbook.SearchUseCase,
	sessionStore *redis.SessionStore,
) *BookHandler {
	return &BookHandler{
		addBookUseCase:    addBookUseCase,
		editBookUseCase:   editBookUseCase,
		getBookUseCase:    getBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
		inventoryUseCase:  inventoryUseCase,
		searchUseCase:     searchUseCase,
		sessionStore:      sessionStore,
	}
}

// Inventory 库存清单页
// @Summary      库存清单
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Router       /inventory [get]
func (h *BookHandler) Inventory(c *gin.Context) {
	result, err := h.inventoryUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"books":     dto.ToBookResponses(result.Books),
		"low_stock": dto.ToBookResponses(result.LowStock),
		"flashes":   h.popFlashes(c),
	})
}

// Search 搜索图书
// 关键字为空时返回空结果
// @Summary      搜索图书
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Param        q query string false "关键字（书名/作者/ISBN模糊匹配）"
// @Success      200 {object} response.Response
// @Router       /search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var form dto.SearchForm
	if err := c.ShouldBindQuery(&form); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	books, err := h.searchUseCase.Execute(c.Request.Context(), form.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"keyword": form.Keyword,
		"books":   dto.ToBookResponses(books),
	})
}

// ShowAddBook 新增图书表单页
// @Summary      新增图书页
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Router       /add_book [get]
func (h *BookHandler) ShowAddBook(c *gin.Context) {
	response.Success(c, gin.H{
		"flashes": h.popFlashes(c),
	})
}

// AddBook 提交新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Success      303 "添加成功，跳转到库存页"
// @Router       /add_book [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, "danger", "请完整填写ISBN、书名、作者和价格", "/add_book")
		return
	}
	priceFen, err := form.PriceFen()
	if err != nil {
		h.flashAndRedirect(c, "danger", "价格格式不正确", "/add_book")
		return
	}

	b, err := h.addBookUseCase.Execute(c.Request.Context(), appbook.AddBookRequest{
		ISBN:     form.ISBN,
		Title:    form.Title,
		Author:   form.Author,
		Price:    priceFen,
		Stock:    form.Stock,
		Category: form.Category,
		CoverURL: form.CoverURL,
	})
	if err != nil {
		if errors.Is(err, book.ErrISBNDuplicate) {
			h.flashAndRedirect(c, "danger", "该ISBN已存在，请勿重复添加", "/add_book")
			return
		}
		response.Error(c, err)
		return
	}

	h.flashAndRedirect(c, "success", fmt.Sprintf("图书《%s》添加成功", b.Title), "/inventory")
}

// ShowEditBook 编辑图书表单页（回显当前值）
// @Summary      编辑图书页
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /edit_book/{id} [get]
func (h *BookHandler) ShowEditBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err)
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"book":    dto.ToBookResponse(b),
		"flashes": h.popFlashes(c),
	})
}

// EditBook 提交编辑图书
// 表单值整体覆盖原记录，历史销售记录的成交价不变
// @Summary      编辑图书
// @Tags         图书
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        id path int true "图书ID"
// @Success      303 "保存成功，跳转到库存页"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /edit_book/{id} [post]
func (h *BookHandler) EditBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, "danger", "请完整填写ISBN、书名、作者和价格", fmt.Sprintf("/edit_book/%d", id))
		return
	}
	priceFen, err := form.PriceFen()
	if err != nil {
		h.flashAndRedirect(c, "danger", "价格格式不正确", fmt.Sprintf("/edit_book/%d", id))
		return
	}

	b, err := h.editBookUseCase.Execute(c.Request.Context(), appbook.EditBookRequest{
		ID:       id,
		ISBN:     form.ISBN,
		Title:    form.Title,
		Author:   form.Author,
		Price:    priceFen,
		Stock:    form.Stock,
		Category: form.Category,
		CoverURL: form.CoverURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, book.ErrBookNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, err)
		case errors.Is(err, book.ErrISBNDuplicate):
			h.flashAndRedirect(c, "danger", "该ISBN已被其他图书使用", fmt.Sprintf("/edit_book/%d", id))
		default:
			response.Error(c, err)
		}
		return
	}

	h.flashAndRedirect(c, "success", fmt.Sprintf("图书《%s》已更新", b.Title), "/inventory")
}

// DeleteBook 删除图书
// 同一事务内级联删除该书的全部销售记录
// @Summary      删除图书
// @Tags         图书
// @Security     CookieAuth
// @Param        id path int true "图书ID"
// @Success      303 "删除成功，跳转到库存页"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /delete_book/{id} [post]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.deleteBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err)
			return
		}
		response.Error(c, err)
		return
	}

	h.flashAndRedirect(c, "success", fmt.Sprintf("图书《%s》及其销售记录已删除", b.Title), "/inventory")
}

// flashAndRedirect 写入提示消息并303跳转
func (h *BookHandler) flashAndRedirect(c *gin.Context, category, message, location string) {
	userID := middleware.MustGetUserID(c)
	if err := h.sessionStore.PushFlash(c.Request.Context(), userID, category, message); err != nil {
		logger.L.Warn("写入提示消息失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, location)
}

// popFlashes 取出当前用户待展示的提示消息
func (h *BookHandler) popFlashes(c *gin.Context) []redis.Flash {
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

// parseID 解析路径中的图书ID，非法时直接返回404
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, book.ErrBookNotFound)
		return 0, false
	}
	return uint(id), true
}
