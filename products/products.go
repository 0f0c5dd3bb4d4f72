package products

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dokan/db"
	"dokan/models"
	"dokan/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
)

var store *MongoStore

// Setup wires the package handlers to a collection. Called once from main.
func Setup(col *mongo.Collection) {
	store = NewMongoStore(col)
}

func defaultStore() *MongoStore {
	if store == nil {
		store = NewMongoStore(db.ProductCollection)
	}
	return store
}

// DefaultCatalog returns the catalog other packages read products through.
func DefaultCatalog() Catalog {
	return defaultStore()
}

// GET /api/products/:productid
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := DefaultCatalog().GetByID(ctx, ps.ByName("productid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products. The caller becomes the seller.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product payload")
		return
	}
	if p.Name == "" || p.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Product name and a positive price are required")
		return
	}

	now := time.Now().UTC()
	discounts, err := NormalizeDiscounts(p.Discounts, now)
	if err != nil {
		respondDiscountError(w, err)
		return
	}

	p.ProductID = uuid.NewString()
	p.SellerID = sellerID
	p.Discounts = discounts
	p.Sold = 0
	p.CreatedAt = now
	p.UpdatedAt = now
	for i := range p.Variants {
		if p.Variants[i].VariantID == "" {
			p.Variants[i].VariantID = uuid.NewString()
		}
	}

	if err := defaultStore().Insert(ctx, &p); err != nil {
		log.Println("CreateProduct insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Product creation failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/:productid. The discount list is
// replaced wholesale, re-validated, and IsActive re-derived.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	existing, err := DefaultCatalog().GetByID(ctx, ps.ByName("productid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("UpdateProduct load error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	if existing.SellerID != sellerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your product")
		return
	}

	var dto models.Product
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product payload")
		return
	}
	if dto.Name == "" || dto.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Product name and a positive price are required")
		return
	}

	now := time.Now().UTC()
	discounts, err := NormalizeDiscounts(dto.Discounts, now)
	if err != nil {
		respondDiscountError(w, err)
		return
	}

	existing.Name = dto.Name
	existing.Description = dto.Description
	existing.CategoryID = dto.CategoryID
	existing.Price = dto.Price
	existing.StockQuantity = dto.StockQuantity
	existing.Attributes = dto.Attributes
	existing.Tags = dto.Tags
	existing.Images = dto.Images
	existing.IsNew = dto.IsNew
	existing.Discounts = discounts
	existing.UpdatedAt = now
	if dto.Variants != nil {
		for i := range dto.Variants {
			if dto.Variants[i].VariantID == "" {
				dto.Variants[i].VariantID = uuid.NewString()
			}
		}
		existing.Variants = dto.Variants
	}

	if err := defaultStore().Replace(ctx, existing); err != nil {
		log.Println("UpdateProduct replace error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Product update failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, existing)
}

// GET /api/seller/products
func GetSellerProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	list, err := defaultStore().BySeller(ctx, sellerID)
	if err != nil {
		log.Println("GetSellerProducts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func respondDiscountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateDiscountCode):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidDiscountPeriod):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	}
}
