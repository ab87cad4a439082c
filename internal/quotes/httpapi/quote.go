package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"
	"tickstream.com/internal/quotes/service"
	"tickstream.com/pkg/common"
)

type Quote struct {
	svc *service.QuoteService
}

func NewQuote(svc *service.QuoteService) *Quote {
	return &Quote{svc: svc}
}

// GetQuote GET /api/quote/:symbol
// 未知标的 → 404（单标的才有 not-found 语义）
func (h *Quote) GetQuote(c *gin.Context) {
	q, err := h.svc.GetQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		common.FailFromErr(c, err)
		return
	}
	common.Success(c, q)
}

// GetQuotes GET /api/quotes?symbols=AAPL,BOGUS,MSFT
// 逐项降级：未知标的回零值报价，整批永远 200
func (h *Quote) GetQuotes(c *gin.Context) {
	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				symbols = append(symbols, p)
			}
		}
	}
	qs, _ := h.svc.GetQuotes(c.Request.Context(), symbols)
	common.Success(c, qs)
}
