package handler

import (
	"net/http"

	"market-data-backend/internal/api/dto"
	"market-data-backend/internal/api/usecase"

	"github.com/gin-gonic/gin"
)

type HandlerItf interface {
	GetHistorical(*gin.Context)
	GetLatestPrice(*gin.Context)
	GetLatestTrade(*gin.Context)
}

type Handler struct {
	uc     usecase.UsecaseItf
	symbol string
}

func NewHandler(uc usecase.UsecaseItf, symbol string) *Handler {
	return &Handler{uc: uc, symbol: symbol}
}

func (hd *Handler) GetHistorical(ctx *gin.Context) {
	var req dto.GetHistoricalReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	// A structurally valid but unservable range (start >= end, etc.)
	// yields an empty array, mirroring the upstream service contract.
	candles := hd.uc.GetHistorical(ctx.Request.Context(),
		req.Symbol, req.StartTime, req.EndTime, req.Limit)

	ctx.JSON(http.StatusOK, dto.Res{
		Success: true,
		Data:    candles,
	})
}

func (hd *Handler) GetLatestPrice(ctx *gin.Context) {
	price, err := hd.uc.GetLatestPrice(ctx.Request.Context())
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, dto.Res{
		Success: true,
		Data:    dto.GetPriceRes{Symbol: hd.symbol, Price: price},
	})
}

func (hd *Handler) GetLatestTrade(ctx *gin.Context) {
	trade, err := hd.uc.GetLatestTrade(ctx.Request.Context())
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, dto.Res{
		Success: true,
		Data: dto.GetTradeRes{
			Symbol:    trade.Symbol,
			Price:     trade.Price,
			Quantity:  trade.Quantity,
			Timestamp: trade.Timestamp,
		},
	})
}
