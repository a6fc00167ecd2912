package server

import (
	"fmt"
	"net/http"
	"strings"

	obslogger "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) PlaceOrder(c *gin.Context) {
	var req orderdomain.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set(obslogger.ResourceIDKey, resp.ID)
	respond(c, http.StatusCreated, "Pedido criado com sucesso", gin.H{"pedido": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.orderSvc.GetOrder(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"pedido": resp})
}

func (s *Server) GetOrderReceipt(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	pdf, err := s.orderSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="recibo-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Page   string `form:"page"`
		Limit  string `form:"limit"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	page, limit, err := parsePage(query.Page, query.Limit)
	if err != nil {
		AbortWithError(c, invalidPageError())
		return
	}

	resp, err := s.orderSvc.ListOrders(c.Request.Context(), orderdomain.ListOrdersRequest{
		Status: strings.TrimSpace(query.Status),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"pedidos":    resp.Orders,
		"pagination": resp.Pagination,
	})
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req orderdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.orderSvc.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "Status do pedido atualizado com sucesso", gin.H{"pedido": resp})
}
