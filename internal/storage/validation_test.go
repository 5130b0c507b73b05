package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateExpense(t *testing.T) {
	validDate := time.Now()
	food := model.Category{ID: 1, Name: "Food"}
	tests := []struct {
		expense *model.Expense
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:    "valid expense",
			expense: &model.Expense{Date: validDate, Amount: decimal.NewFromInt(5), Category: food},
			wantErr: false,
		},
		{
			name:    "zero amount is storable",
			expense: &model.Expense{Date: validDate, Category: food},
			wantErr: false,
		},
		{
			name:    "nil expense",
			expense: nil,
			wantErr: true,
			errMsg:  "expense",
		},
		{
			name:    "missing date",
			expense: &model.Expense{Amount: decimal.NewFromInt(5), Category: food},
			wantErr: true,
			errMsg:  "missing date",
		},
		{
			name:    "missing category",
			expense: &model.Expense{Date: validDate, Amount: decimal.NewFromInt(5)},
			wantErr: true,
			errMsg:  "missing category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateExpense(tt.expense)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateExpense() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateExpense() error should contain %s, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestValidateBudget(t *testing.T) {
	food := model.Category{ID: 1, Name: "Food"}
	tests := []struct {
		budget  *model.Budget
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:    "valid budget",
			budget:  &model.Budget{Category: food, MonthlyLimit: decimal.NewFromInt(100), Month: time.Now()},
			wantErr: false,
		},
		{
			name:    "nil budget",
			budget:  nil,
			wantErr: true,
			errMsg:  "budget",
		},
		{
			name:    "missing category",
			budget:  &model.Budget{MonthlyLimit: decimal.NewFromInt(100), Month: time.Now()},
			wantErr: true,
			errMsg:  "missing category",
		},
		{
			name:    "missing month",
			budget:  &model.Budget{Category: food, MonthlyLimit: decimal.NewFromInt(100)},
			wantErr: true,
			errMsg:  "missing month",
		},
		{
			name:    "zero limit",
			budget:  &model.Budget{Category: food, Month: time.Now()},
			wantErr: true,
			errMsg:  "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBudget(tt.budget)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBudget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateBudget() error should contain %s, got %v", tt.errMsg, err)
			}
		})
	}
}
