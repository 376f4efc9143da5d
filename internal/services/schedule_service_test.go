package services

import (
	"testing"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateStages(t *testing.T) {
	service := NewScheduleService()

	cases := []struct {
		name    string
		stages  []models.PaymentStage
		wantErr bool
	}{
		{"empty set", nil, true},
		{"single full stage", []models.PaymentStage{{Name: "Pago único", Percentage: 100}}, false},
		{"three stages summing 100", []models.PaymentStage{
			{Name: "Anticipo", Percentage: 50},
			{Name: "Avance", Percentage: 30},
			{Name: "Entrega", Percentage: 20},
		}, false},
		{"sum below 100", []models.PaymentStage{
			{Name: "Anticipo", Percentage: 50},
			{Name: "Entrega", Percentage: 30},
		}, true},
		{"sum above 100", []models.PaymentStage{
			{Name: "Anticipo", Percentage: 60},
			{Name: "Entrega", Percentage: 50},
		}, true},
		{"nameless stage", []models.PaymentStage{{Name: "", Percentage: 100}}, true},
		{"zero percentage", []models.PaymentStage{
			{Name: "Anticipo", Percentage: 0},
			{Name: "Entrega", Percentage: 100},
		}, true},
		{"float drift within tolerance", []models.PaymentStage{
			{Name: "A", Percentage: 33.33},
			{Name: "B", Percentage: 33.33},
			{Name: "C", Percentage: 33.34},
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateStages(tc.stages)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjections_StageFullyPaidAtExpectedAmount(t *testing.T) {
	service := NewScheduleService()
	contract := &models.Contract{ID: 1, TotalValue: 1000000}
	stages := []models.PaymentStage{
		{ID: 1, ContractID: 1, Name: "Anticipo", Percentage: 50, Position: 1},
		{ID: 2, ContractID: 1, Name: "Avance", Percentage: 30, Position: 2},
		{ID: 3, ContractID: 1, Name: "Entrega", Percentage: 20, Position: 3},
	}
	stageID := uint(1)
	payments := []models.ReceivedPayment{
		{ContractID: 1, StageID: &stageID, Amount: 500000},
	}

	projections := service.Projections(contract, stages, payments)
	assert.Len(t, projections, 3)

	assert.Equal(t, 500000.0, projections[0].Expected)
	assert.Equal(t, 500000.0, projections[0].Received)
	assert.Equal(t, 0.0, projections[0].Remaining)
	assert.True(t, projections[0].FullyPaid)

	assert.Equal(t, 300000.0, projections[1].Expected)
	assert.Equal(t, 0.0, projections[1].Received)
	assert.Equal(t, 300000.0, projections[1].Remaining)
	assert.False(t, projections[1].FullyPaid)

	assert.Equal(t, 200000.0, projections[2].Expected)
}

func TestProjections_ExtraPaymentsIgnored(t *testing.T) {
	service := NewScheduleService()
	contract := &models.Contract{ID: 1, TotalValue: 100000}
	stages := []models.PaymentStage{
		{ID: 1, ContractID: 1, Name: "Pago único", Percentage: 100, Position: 1},
	}
	payments := []models.ReceivedPayment{
		{ContractID: 1, StageID: nil, Amount: 99999, IsExtra: true},
	}

	projections := service.Projections(contract, stages, payments)
	assert.Len(t, projections, 1)
	assert.Equal(t, 0.0, projections[0].Received)
	assert.Equal(t, 100000.0, projections[0].Remaining)
	assert.False(t, projections[0].FullyPaid)
}

func TestProjections_OverpaidStageClampsRemaining(t *testing.T) {
	service := NewScheduleService()
	contract := &models.Contract{ID: 1, TotalValue: 100000}
	stages := []models.PaymentStage{
		{ID: 1, ContractID: 1, Name: "Pago único", Percentage: 100, Position: 1},
	}
	stageID := uint(1)
	payments := []models.ReceivedPayment{
		{ContractID: 1, StageID: &stageID, Amount: 120000},
	}

	projections := service.Projections(contract, stages, payments)
	assert.Equal(t, 120000.0, projections[0].Received)
	assert.Equal(t, 0.0, projections[0].Remaining)
	assert.True(t, projections[0].FullyPaid)
}

func TestDefaultStages(t *testing.T) {
	service := NewScheduleService()
	stages := service.DefaultStages()

	assert.Len(t, stages, 1)
	assert.Equal(t, "Pago único", stages[0].Name)
	assert.Equal(t, 100.0, stages[0].Percentage)
	assert.NoError(t, service.ValidateStages(stages))
}
