package testutil

import (
	"testing"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/utils"
	"gorm.io/gorm"
)

// DefaultPassword satisfies the password policy
const DefaultPassword = "Str0ng!pwd"

// CreateTestUser inserts an active, verified user with a profile
func CreateTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
		IsStaff:         role == models.RoleAdmin || role == models.RoleSuperAdmin,
		IsSuperuser:     role == models.RoleSuperAdmin,
	}
	if err := db.Omit("Profile").Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	if err := db.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("Failed to create profile for %s: %v", email, err)
	}
	return user
}

// DefaultCustomer returns a signed-up customer
func DefaultCustomer(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "customer@example.com", models.RoleCustomer)
}

// DefaultAdmin returns an admin user
func DefaultAdmin(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "admin@example.com", models.RoleAdmin)
}

func CreateTestCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug, Description: name + " category"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", slug, err)
	}
	return category
}

func CreateTestProduct(t *testing.T, db *gorm.DB, category *models.Category, name, slug string, price float64) *models.Product {
	t.Helper()

	product := &models.Product{
		CategoryID:  category.ID,
		Name:        name,
		Slug:        slug,
		Description: name + " description",
		Price:       price,
		Stock:       10,
		Available:   true,
	}
	if err := db.Omit("Category", "Reviews").Create(product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", slug, err)
	}
	product.Category = *category
	return product
}

func CreateTestReview(t *testing.T, db *gorm.DB, product *models.Product, user *models.User, rating int) *models.Review {
	t.Helper()

	review := &models.Review{
		ProductID: product.ID,
		UserID:    user.ID,
		Rating:    rating,
		Comment:   "review",
	}
	if err := db.Omit("Product", "User").Create(review).Error; err != nil {
		t.Fatalf("Failed to create review: %v", err)
	}
	return review
}
