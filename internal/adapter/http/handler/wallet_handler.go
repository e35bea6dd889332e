package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet-related endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	wallet, err := h.walletSvc.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromWallet(wallet))
}

// Operation handles POST /api/v1/wallets/:wallet_id/operation.
func (h *WalletHandler) Operation(c *gin.Context) {
	walletID := c.Param("wallet_id")

	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	var wallet *domain.Wallet
	switch domain.Operation(req.OperationType) {
	case domain.OperationDeposit:
		wallet, err = h.walletSvc.Deposit(c.Request.Context(), walletID, amount)
	case domain.OperationWithdraw:
		wallet, err = h.walletSvc.Withdraw(c.Request.Context(), walletID, amount)
	default:
		response.Error(c, apperror.Validation("operation_type must be DEPOSIT or WITHDRAW"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromWallet(wallet))
}

// GetWallet handles GET /api/v1/wallets/:wallet_id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletSvc.Get(c.Request.Context(), c.Param("wallet_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromWallet(wallet))
}
