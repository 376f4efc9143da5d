package services

import (
	"fmt"
	"math"

	"github.com/dcastellanos/obrax-api/internal/models"
)

// percentTolerance absorbs float drift when stage percentages are summed.
const percentTolerance = 0.01

// ScheduleService maps payment stages to money terms. It is stateless; the
// contract's frozen total value is the only input besides the stages and
// payments themselves.
type ScheduleService struct{}

// NewScheduleService creates a new schedule service
func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// ValidateStages checks a prospective stage set: at least one stage, every
// percentage in (0, 100], and the sum exactly 100 within tolerance.
func (s *ScheduleService) ValidateStages(stages []models.PaymentStage) error {
	if len(stages) == 0 {
		return fmt.Errorf("%w: el contrato requiere al menos una etapa de pago", ErrValidation)
	}

	var sum float64
	for _, stage := range stages {
		if stage.Name == "" {
			return fmt.Errorf("%w: toda etapa requiere un nombre", ErrValidation)
		}
		if stage.Percentage <= 0 || stage.Percentage > 100 {
			return fmt.Errorf("%w: el porcentaje de la etapa %q debe estar entre 0 y 100", ErrValidation, stage.Name)
		}
		sum += stage.Percentage
	}

	if math.Abs(sum-100) > percentTolerance {
		return fmt.Errorf("%w: los porcentajes deben sumar 100, suman %.2f", ErrValidation, sum)
	}

	return nil
}

// Projections computes the expected/received/remaining view of every stage.
// Extra payments (nil stage id) never count toward any stage.
func (s *ScheduleService) Projections(contract *models.Contract, stages []models.PaymentStage, payments []models.ReceivedPayment) []models.StageProjection {
	receivedByStage := make(map[uint]float64, len(stages))
	for _, p := range payments {
		if p.StageID == nil {
			continue
		}
		receivedByStage[*p.StageID] += p.Amount
	}

	projections := make([]models.StageProjection, 0, len(stages))
	for _, stage := range stages {
		expected := stage.ExpectedAmount(contract.TotalValue)
		received := receivedByStage[stage.ID]
		remaining := expected - received
		if remaining < 0 {
			remaining = 0
		}
		projections = append(projections, models.StageProjection{
			StageID:    stage.ID,
			Name:       stage.Name,
			Percentage: stage.Percentage,
			Expected:   expected,
			Received:   received,
			Remaining:  remaining,
			FullyPaid:  remaining == 0 && expected > 0,
		})
	}
	return projections
}

// DefaultStages is the single-stage schedule applied when a conversion
// supplies none.
func (s *ScheduleService) DefaultStages() []models.PaymentStage {
	return []models.PaymentStage{
		{Name: "Pago único", Percentage: 100, Position: 1},
	}
}
