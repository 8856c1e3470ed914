package application

import (
	"context"
	"fmt"

	"github.com/smt-platform/production-service/internal/domain"
)

// roleStates maps each production role to the order states it acts on. The
// mapping is the work-queue definition: an order shows up for a role exactly
// while it sits in one of that role's states.
var roleStates = map[string][]domain.ManufacturingState{
	domain.RoleBlockManager:         {domain.StateMaterialRequisitionSubmitted},
	domain.RoleProductManager:       {domain.StateMaterialRequisitionSubmitted},
	domain.RoleSawingManager:        {domain.StateMaterialRequisitioned, domain.StateTrimmed},
	domain.RoleTrimmingQE:           {domain.StateTrimmingDataSubmitted},
	domain.RoleSawingQE:             {domain.StateSawingDataSubmitted},
	domain.RoleFillingManager:       {domain.StateSawed},
	domain.RoleFillingQE:            {domain.StateFillingDataSubmitted},
	domain.RolePolishingQE:          {domain.StateFilled},
	domain.RoleSlabPolishingManager: {domain.StatePolishingQEFinished},
}

// MyWorkOrders lists the orders currently actionable by the given role.
//
// The filling roles get an extra pass: an order that has optimistically
// advanced to Filled still belongs on their queue while any of its slabs lags
// behind in Sawed (manager) or FillingDataSubmitted (inspector).
func (s *ProductionService) MyWorkOrders(ctx context.Context, query MyWorkOrdersQuery) ([]*WorkOrderDTO, error) {
	states, ok := roleStates[query.Role]
	if !ok {
		return []*WorkOrderDTO{}, nil
	}

	orders, err := s.orders.FindByStates(ctx, states)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	var laggingState domain.ManufacturingState
	switch query.Role {
	case domain.RoleFillingManager:
		laggingState = domain.StateSawed
	case domain.RoleFillingQE:
		laggingState = domain.StateFillingDataSubmitted
	}
	if laggingState != "" {
		filled, err := s.orders.FindByStates(ctx, []domain.ManufacturingState{domain.StateFilled})
		if err != nil {
			return nil, fmt.Errorf("failed to list filled work orders: %w", err)
		}
		for _, wo := range filled {
			if hasSlabInState(wo, laggingState) {
				orders = append(orders, wo)
			}
		}
	}

	dtos := make([]*WorkOrderDTO, 0, len(orders))
	for _, wo := range orders {
		dtos = append(dtos, ToWorkOrderDTO(wo))
	}
	return dtos, nil
}

func hasSlabInState(wo *domain.WorkOrder, state domain.ManufacturingState) bool {
	if wo.Block == nil {
		return false
	}
	for _, sb := range wo.Block.Bundles {
		if sb.Status != domain.MaterialStatusManufacturing {
			continue
		}
		for _, s := range sb.Slabs {
			if s.Status == domain.MaterialStatusManufacturing && s.ManufacturingState == state {
				return true
			}
		}
	}
	return false
}
