package transport

import (
	"net/http"

	"zenith-store/internal/domain"
	"zenith-store/internal/middleware"
	"zenith-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewRequest is the body of a new review. An empty author falls back to
// the reviewer's account name.
type ReviewRequest struct {
	Author  string `json:"author" validate:"max=100"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ProductHandler serves the public catalog
type ProductHandler struct {
	catalog     service.CatalogService
	userService service.UserService
	logger      *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, userService service.UserService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:     catalog,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/categories", h.ListCategories)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)

		r.With(authMiddleware).Post("/{id}/reviews", h.AddReview)
	})
}

// ListProducts returns the whole catalog
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetAllProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product with its visible reviews
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	detail, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// AddReview stores a review for the product by the current user
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "id")
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w, h.logger, err)
		return
	}

	author := req.Author
	if author == "" {
		user, err := h.userService.GetUserByID(r.Context(), userID)
		if err != nil {
			respondServiceError(w, h.logger, err, "failed to add review")
			return
		}
		author = user.Name
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Author:    author,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.catalog.AddReview(r.Context(), review); err != nil {
		respondServiceError(w, h.logger, err, "failed to add review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, review)
}
