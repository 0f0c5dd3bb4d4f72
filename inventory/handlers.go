package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dokan/db"
	"dokan/products"
	"dokan/utils"

	"github.com/julienschmidt/httprouter"
)

var adjuster Adjuster

// Setup wires the package handlers. Called once from main.
func Setup(a Adjuster) {
	adjuster = a
}

func defaultAdjuster() Adjuster {
	if adjuster == nil {
		adjuster = NewMongo(db.ProductCollection)
	}
	return adjuster
}

type stockRequest struct {
	VariantID string `json:"variantId,omitempty"`
	Stock     int    `json:"stock"`
}

// PUT /api/products/:productid/stock
// Sets the absolute stock level for a product or one of its variants.
func SetProductStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	productID := ps.ByName("productid")

	p, err := products.DefaultCatalog().GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("SetProductStock load error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	if p.SellerID != sellerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your product")
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid stock payload")
		return
	}
	if req.Stock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	if err := defaultAdjuster().SetStock(ctx, productID, req.VariantID, req.Stock); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product or variant not found")
			return
		}
		log.Println("SetProductStock error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Stock update failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Stock updated"})
}
