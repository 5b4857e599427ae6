package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/google/uuid"
)

// Decimal accepts prices as JSON numbers, JSON strings or form values and
// renders them with two fixed decimals.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	return d.UnmarshalParam(s)
}

func (d *Decimal) UnmarshalParam(param string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
	if err != nil {
		return fmt.Errorf("price: a valid number is required")
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%.2f", float64(d)))
}

type userResponse struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Role            models.Role `json:"role"`
	ProfileImage    *string     `json:"profile_image"`
	IsEmailVerified bool        `json:"is_email_verified"`
	IsActive        bool        `json:"is_active"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		ProfileImage:    u.ProfileImage,
		IsEmailVerified: u.IsEmailVerified,
		IsActive:        u.IsActive,
	}
}

type profileResponse struct {
	Email        string  `json:"email"`
	Bio          string  `json:"bio"`
	PhoneNumber  string  `json:"phone_number"`
	Address      string  `json:"address"`
	DateOfBirth  *string `json:"date_of_birth"`
	ProfileImage *string `json:"profile_image"`
}

func newProfileResponse(p *models.Profile, u *models.User) profileResponse {
	resp := profileResponse{
		Email:        u.Email,
		Bio:          p.Bio,
		PhoneNumber:  p.PhoneNumber,
		Address:      p.Address,
		ProfileImage: p.ProfileImage,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}

type categoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func newCategoryResponse(c *models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

type productResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         Decimal   `json:"price"`
	Category      string    `json:"category"`
	Image         *string   `json:"image"`
	Stock         int       `json:"stock"`
	Available     bool      `json:"available"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type productDetailResponse struct {
	productResponse
	Reviews []uint `json:"reviews"`
}

func newProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         Decimal(p.Price),
		Category:      p.Category.Slug,
		Image:         p.Image,
		Stock:         p.Stock,
		Available:     p.Available,
		AverageRating: p.AverageRating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newProductDetailResponse(p *models.Product) productDetailResponse {
	ids := make([]uint, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		ids = append(ids, r.ID)
	}
	return productDetailResponse{
		productResponse: newProductResponse(p),
		Reviews:         ids,
	}
}

type reviewResponse struct {
	ID        uint      `json:"id"`
	Product   string    `json:"product"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewResponse(r *models.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		Product:   r.Product.Name,
		User:      r.User.Email,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
