package cart

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

var svc *Service

// Setup wires the package handlers. Called once from main.
func Setup(s *Service) {
	svc = s
}

func defaultService() *Service {
	if svc == nil {
		svc = NewService(NewMongoStore(db.CartCollection), products.DefaultCatalog())
	}
	return svc
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// POST /api/cart/items
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product or quantity")
		return
	}

	c, err := defaultService().AddItem(ctx, userID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondCartError(w, "AddToCart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// GET /api/cart
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c, err := defaultService().GetOrCreate(ctx, userID)
	if err != nil {
		respondCartError(w, "GetCart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// PUT /api/cart/items/:productid?variantId=&quantity=
func UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		VariantID string `json:"variantId,omitempty"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	c, err := defaultService().UpdateQuantity(ctx, userID, ps.ByName("productid"), req.VariantID, req.Quantity)
	if err != nil {
		respondCartError(w, "UpdateQuantity", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DELETE /api/cart/items/:productid?variantId=
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c, err := defaultService().RemoveItem(ctx, userID, ps.ByName("productid"), r.URL.Query().Get("variantId"))
	if err != nil {
		respondCartError(w, "RemoveFromCart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DELETE /api/cart
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c, err := defaultService().Clear(ctx, userID)
	if err != nil {
		respondCartError(w, "ClearCart", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func respondCartError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrVariantNotFound):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid variant selected")
	case errors.Is(err, ErrCartNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
	case errors.Is(err, ErrItemNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found in cart")
	case errors.Is(err, ErrInvalidQuantity):
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be positive")
	default:
		log.Printf("%s error: %v", op, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Cart operation failed")
	}
}
