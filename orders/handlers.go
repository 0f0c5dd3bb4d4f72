package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"dokan/db"
	"dokan/models"
	"dokan/rdx"
	"dokan/utils"

	"github.com/julienschmidt/httprouter"
)

var store Store

// Setup wires the package handlers to a store. Called once from main.
func Setup(s Store) {
	store = s
}

// DefaultStore returns the order store shared with the checkout package.
func DefaultStore() Store {
	if store == nil {
		store = NewMongoStore(db.OrderCollection)
	}
	return store
}

// PATCH /api/orders/:orderid/status?status=Shipped
func UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := DefaultStore().UpdateStatus(ctx, ps.ByName("orderid"), status); err != nil {
		respondOrderError(w, "UpdateStatus", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// POST /api/orders/:orderid/payment?paymentStatus=Paid
func UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	paymentStatus := r.URL.Query().Get("paymentStatus")
	if paymentStatus == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Payment status is required")
		return
	}

	var body struct {
		TransactionID string `json:"transactionId"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if err := DefaultStore().UpdatePayment(ctx, ps.ByName("orderid"), paymentStatus, body.TransactionID); err != nil {
		respondOrderError(w, "UpdatePayment", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Payment updated"})
}

// POST /api/orders/:orderid/timeline
// Used by courier callbacks; the entry timestamp is always server time.
func AddTimeline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var entry models.TimelineEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid timeline payload")
		return
	}
	entry.UpdatedAt = time.Now().UTC()

	if err := DefaultStore().AddTimeline(ctx, ps.ByName("orderid"), entry); err != nil {
		respondOrderError(w, "AddTimeline", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Timeline added"})
}

// GET /api/orders/:orderid
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := DefaultStore().ByID(ctx, ps.ByName("orderid"))
	if err != nil {
		respondOrderError(w, "GetOrder", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

// GET /api/orders/user?page=&pageSize=
func GetUserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	f := filterFromQuery(r)
	f.UserID = userID
	list, total, err := DefaultStore().List(ctx, f)
	if err != nil {
		respondOrderError(w, "GetUserOrders", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"total": total, "orders": list})
}

// GET /api/orders/seller?page=&pageSize=
func GetSellerOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	f := filterFromQuery(r)
	f.SellerID = sellerID
	list, total, err := DefaultStore().List(ctx, f)
	if err != nil {
		respondOrderError(w, "GetSellerOrders", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"total": total, "orders": list})
}

// GET /api/orders/dashboard?from=&to=
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sellerID := utils.GetUserIDFromRequest(r)
	if sellerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		to = &t
	}

	now := time.Now().UTC()
	start, end := StatsWindow(from, to, now)

	cacheKey := fmt.Sprintf("dashboard:%s:%s:%s",
		sellerID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	var cached models.DashboardStats
	if rdx.GetCachedJSON(ctx, cacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	list, _, err := DefaultStore().List(ctx, Filter{
		SellerID: sellerID,
		From:     &start,
		To:       &end,
		PageSize: 10000,
	})
	if err != nil {
		respondOrderError(w, "Dashboard", err)
		return
	}

	stats := ComputeStats(list, now)
	if err := rdx.SetCachedJSON(ctx, cacheKey, stats, time.Minute); err != nil {
		log.Println("Dashboard cache write error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{
		OrderStatus:   q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
	}
	fmt.Sscanf(q.Get("page"), "%d", &f.Page)
	fmt.Sscanf(q.Get("pageSize"), "%d", &f.PageSize)
	return f
}

func respondOrderError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrInvalidStatus):
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
	case errors.Is(err, ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusConflict, "Status transition not allowed")
	default:
		log.Printf("%s error: %v", op, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order operation failed")
	}
}
