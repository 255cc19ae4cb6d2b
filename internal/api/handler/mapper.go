package handler

import (
	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

// --- Request → Service input ---

func toCreateClientInput(req createClientRequest) ports.CreateClientInput {
	return ports.CreateClientInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         domain.ClientStatus(req.Status),
		SensitiveNotes: req.SensitiveNotes,
	}
}

func toClientPatch(req updateClientRequest) domain.ClientPatch {
	patch := domain.ClientPatch{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		SensitiveNotes: req.SensitiveNotes,
	}
	if req.Status != nil {
		s := domain.ClientStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}

func toCreateTransactionInput(req createTransactionRequest) ports.CreateTransactionInput {
	input := ports.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Description: req.Description,
	}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	return input
}

func toTransactionPatch(req updateTransactionRequest) domain.TransactionPatch {
	patch := domain.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}
	return patch
}
