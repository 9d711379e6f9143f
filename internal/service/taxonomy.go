package service

import (
	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/pkg/validator"
)

// Request tags backed by the model vocabularies.
func init() {
	validator.RegisterOneOf("product_category", model.ProductCategories)
	validator.RegisterOneOf("product_type", model.ProductTypes)
	validator.RegisterOneOf("product_garment", model.ProductGarments)
	validator.RegisterOneOf("expense_type", model.ExpenseTypes)
	validator.RegisterOneOf("role", access.Roles)
}
