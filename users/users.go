// Package users is a small read-side directory over user accounts, used
// where an order or invoice needs a display name for a user id.
package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dokan/db"
	"dokan/rdx"
	"dokan/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("users: user not found")

// Summary is the public slice of a user account.
type Summary struct {
	UserID   string `json:"userId" bson:"userId"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}

// FindByID looks a user up by id, consulting the Redis cache first.
func FindByID(ctx context.Context, userID string) (*Summary, error) {
	cacheKey := "users:" + userID

	var cached Summary
	if rdx.GetCachedJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	var s Summary
	err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = rdx.SetCachedJSON(ctx, cacheKey, s, 10*time.Minute)
	return &s, nil
}

// GET /api/users/:userid
func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := FindByID(ctx, ps.ByName("userid"))
	if errors.Is(err, ErrUserNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, s)
}
