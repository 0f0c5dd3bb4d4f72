package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dokan/cart"
	"dokan/db"
	"dokan/inventory"
	"dokan/orders"
	"dokan/products"
	"dokan/utils"

	"github.com/julienschmidt/httprouter"
)

var svc *Service

// Setup wires the package handler. Called once from main.
func Setup(s *Service) {
	svc = s
}

func defaultService() *Service {
	if svc == nil {
		svc = NewService(
			cart.NewMongoStore(db.CartCollection),
			products.DefaultCatalog(),
			orders.DefaultStore(),
			inventory.NewMongo(db.ProductCollection),
		)
	}
	return svc
}

// POST /api/checkout
func Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid checkout payload")
		return
	}

	res, err := defaultService().Checkout(ctx, userID, req)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, res)
}

func respondCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusBadRequest, "Shopping cart is empty")
	case errors.Is(err, ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrInvalidVariant):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid variant selected")
	case errors.Is(err, ErrMissingPayment):
		utils.RespondWithError(w, http.StatusBadRequest, "Payment method is required")
	case errors.Is(err, ErrMissingAddress):
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping address is required")
	default:
		log.Println("Checkout error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Checkout failed")
	}
}
