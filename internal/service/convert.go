package service

import (
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Company:   u.Company,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toAPIAgents(agents []*models.AIAgent) []api.Agent {
	out := make([]api.Agent, 0, len(agents))
	for _, a := range agents {
		out = append(out, api.Agent{ID: a.ID, Role: a.Role, Status: string(a.Status)})
	}
	return out
}

func toAPIProject(p *models.Project, agents []*models.AIAgent) *api.Project {
	return &api.Project{
		ID:          p.ID,
		Code:        p.Code,
		UserID:      p.UserID,
		Service:     p.Service,
		Package:     p.Package,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
		Agents:      toAPIAgents(agents),
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:            p.ID,
		Amount:        api.NewAmount(p.Amount),
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		Distribution: api.Distribution{
			AIUpgrade:    api.NewAmount(p.AIUpgrade),
			ReserveFund:  api.NewAmount(p.ReserveFund),
			OwnerRevenue: api.NewAmount(p.OwnerRevenue),
		},
		DistributedAt: p.DistributedAt,
	}
}
